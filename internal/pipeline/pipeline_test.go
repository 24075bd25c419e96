package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"

	"github.com/sycomix/inpoint-ai-backend/internal/config"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/store/memstore"
)

type mockSource struct {
	workspaces  []model.Workspace
	discussions []model.Discussion
	err         error
}

func (m *mockSource) Fetch(ctx context.Context) ([]model.Workspace, []model.Discussion, error) {
	return m.workspaces, m.discussions, m.err
}

type mockGraphDriver struct {
	calls []string
	err   error
}

func (m *mockGraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.calls = append(m.calls, query)
	if m.err != nil {
		return neo4j.EagerResult{}, m.err
	}
	return neo4j.EagerResult{}, nil
}

func (m *mockGraphDriver) Close(ctx context.Context) error {
	return nil
}

type constEmbedder struct{}

func (constEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testConfig() config.PipelineConfig {
	return config.PipelineConfig{
		Cutoff:          0.5,
		TopN:            10,
		TopSentences:    5,
		ThrottleMinutes: 59,
		Seed:            42,
	}
}

func testPipeline(source *mockSource, graph *mockGraphDriver, st *memstore.Store) *Pipeline {
	return New(source, graph, st, constEmbedder{}, testConfig(), log.New(io.Discard))
}

func sampleSnapshot() *mockSource {
	return &mockSource{
		workspaces: []model.Workspace{{ID: "w1", OwnerID: "u1"}},
		discussions: []model.Discussion{
			{ID: "d1", SpaceID: "w1", Position: model.PositionNote, Text: "The park needs more benches."},
			{ID: "d2", SpaceID: "w1", Position: model.PositionNote, Text: "More benches would help visitors."},
		},
	}
}

func TestAnalyzePersistsResults(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	graph := &mockGraphDriver{}
	p := testPipeline(sampleSnapshot(), graph, st)

	status, results, err := p.Analyze(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, StatusPersisted, status)
	assert.Len(t, results, 1)
	assert.Equal(t, "w1", results[0].WorkspaceID)

	// Every non-Issue position has a summary slot.
	assert.Len(t, results[0].PositionSummaries, len(model.Positions())-1)
	assert.NotContains(t, results[0].PositionSummaries, model.PositionIssue)

	stored, err := st.Results(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, results, stored)

	// The graph was cleared and rebuilt during the run.
	assert.NotEmpty(t, graph.calls)
}

func TestAnalyzePersistsDespiteGraphStoreFailures(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	graph := &mockGraphDriver{err: errors.New("graph store unavailable")}
	p := testPipeline(sampleSnapshot(), graph, st)

	// Graph queries fail per call and degrade; the run still persists
	// graph-light results.
	status, results, err := p.Analyze(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, StatusPersisted, status)
	assert.Len(t, results, 1)
	assert.Empty(t, results[0].Aggregated.Summary)

	stored, err := st.Results(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, results, stored)
}

func TestAnalyzeThrottledReusesStoredResults(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	previous := []model.AnalysisResult{{WorkspaceID: "w1"}}
	assert.NoError(t, st.ReplaceResults(ctx, previous))

	marker := time.Now().Add(-time.Minute)
	assert.NoError(t, st.ReplaceThrottle(ctx, marker))

	graph := &mockGraphDriver{}
	p := testPipeline(sampleSnapshot(), graph, st)

	status, results, err := p.Analyze(ctx, false)
	assert.NoError(t, err)
	assert.Equal(t, StatusThrottled, status)
	assert.Equal(t, previous, results)

	// Nothing was recomputed or rewritten.
	assert.Empty(t, graph.calls)
	got, _, err := st.Throttle(ctx)
	assert.NoError(t, err)
	assert.Equal(t, marker, got)
}

func TestAnalyzeFirstRunBypassesThrottle(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	assert.NoError(t, st.ReplaceThrottle(ctx, time.Now()))

	p := testPipeline(sampleSnapshot(), &mockGraphDriver{}, st)

	status, _, err := p.Analyze(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, StatusPersisted, status)
}

func TestAnalyzeRunsAfterWindowElapsed(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	assert.NoError(t, st.ReplaceThrottle(ctx, time.Now().Add(-time.Hour)))

	p := testPipeline(sampleSnapshot(), &mockGraphDriver{}, st)

	status, _, err := p.Analyze(ctx, false)
	assert.NoError(t, err)
	assert.Equal(t, StatusPersisted, status)
}

func TestAnalyzeFailedRunConsumesThrottle(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	previous := []model.AnalysisResult{{WorkspaceID: "stale"}}
	assert.NoError(t, st.ReplaceResults(ctx, previous))

	source := &mockSource{err: errors.New("upstream unavailable")}
	p := testPipeline(source, &mockGraphDriver{}, st)

	status, _, err := p.Analyze(ctx, true)
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, status)

	// Stored results survive a failed run, and the throttle window was
	// still consumed.
	stored, err := st.Results(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, previous, stored)

	_, ok, err := st.Throttle(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)

	status, results, err := p.Analyze(ctx, false)
	assert.NoError(t, err)
	assert.Equal(t, StatusThrottled, status)
	assert.Equal(t, previous, results)
}
