package graph

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"

	"github.com/sycomix/inpoint-ai-backend/internal/driver"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

type call struct {
	Query  string
	Params map[string]interface{}
}

type MockDriver struct {
	Calls []call
	Err   error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Calls = append(m.Calls, call{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(ctx context.Context, content string) ([]float32, error) {
	return m.vectors[content], nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestExtractNodeGroupsIsTotalPartition(t *testing.T) {
	discussions := []model.Discussion{
		{ID: "1", Position: model.PositionIssue},
		{ID: "2", Position: model.PositionInFavor},
		{ID: "3", Position: model.PositionInFavor},
		{ID: "4", Position: model.PositionAgainst},
	}

	groups := ExtractNodeGroups(discussions)
	assert.Len(t, groups, len(model.Positions()))

	total := 0
	for _, position := range model.Positions() {
		members, ok := groups[position]
		assert.True(t, ok, "missing group %s", position)
		total += len(members)
	}
	assert.Equal(t, len(discussions), total)
	assert.Empty(t, groups[model.PositionNote])
	assert.Len(t, groups[model.PositionInFavor], 2)
}

func TestCreateDiscussionNodes(t *testing.T) {
	mock := &MockDriver{}
	b := NewBuilder(mock, &mapEmbedder{}, testLogger())

	groups := ExtractNodeGroups([]model.Discussion{
		{ID: "1", SpaceID: "w1", Position: model.PositionInFavor, Text: "some text"},
		{ID: "2", SpaceID: "w1", Position: model.PositionAgainst, Text: "other text"},
	})
	b.CreateDiscussionNodes(context.Background(), groups)

	assert.Equal(t, driver.EnsureDiscussionConstraintQuery, mock.Calls[0].Query)
	// One merge batch per non-empty group.
	merges := 0
	for _, c := range mock.Calls[1:] {
		assert.Equal(t, driver.MergeDiscussionNodesQuery, c.Query)
		merges++
	}
	assert.Equal(t, 2, merges)
}

func similarityFixture() ([]model.Discussion, *mapEmbedder) {
	discussions := []model.Discussion{
		{ID: "b", Position: model.PositionInFavor, Text: "The city should build more bike lanes downtown."},
		{ID: "a", Position: model.PositionInFavor, Text: "Bike lanes downtown would make cycling much safer."},
	}
	embedder := &mapEmbedder{vectors: map[string][]float32{
		text.Normalize(discussions[0].Text): {1, 0},
		text.Normalize(discussions[1].Text): {0.6, 0.8},
	}}
	return discussions, embedder
}

func edgeBatches(calls []call) [][]map[string]interface{} {
	var batches [][]map[string]interface{}
	for _, c := range calls {
		if c.Query == driver.MergeSimilarityEdgesQuery {
			batches = append(batches, c.Params["edges"].([]map[string]interface{}))
		}
	}
	return batches
}

func TestBuildSimilarityGraphAboveCutoff(t *testing.T) {
	discussions, embedder := similarityFixture()
	mock := &MockDriver{}
	b := NewBuilder(mock, embedder, testLogger())

	// cos((1,0), (0.6,0.8)) = 0.6
	err := b.BuildSimilarityGraph(context.Background(), ExtractNodeGroups(discussions), 0.5)
	assert.NoError(t, err)

	batches := edgeBatches(mock.Calls)
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)

	edge := batches[0][0]
	assert.Equal(t, "a", edge["source"])
	assert.Equal(t, "b", edge["target"])
	assert.Equal(t, 0.6, edge["score"])
}

func TestBuildSimilarityGraphBelowCutoff(t *testing.T) {
	discussions, embedder := similarityFixture()
	mock := &MockDriver{}
	b := NewBuilder(mock, embedder, testLogger())

	err := b.BuildSimilarityGraph(context.Background(), ExtractNodeGroups(discussions), 0.7)
	assert.NoError(t, err)
	assert.Empty(t, edgeBatches(mock.Calls))
}

func TestBuildSimilarityGraphSkipsIssues(t *testing.T) {
	discussions, embedder := similarityFixture()
	for i := range discussions {
		discussions[i].Position = model.PositionIssue
	}
	mock := &MockDriver{}
	b := NewBuilder(mock, embedder, testLogger())

	err := b.BuildSimilarityGraph(context.Background(), ExtractNodeGroups(discussions), 0.0)
	assert.NoError(t, err)
	assert.Empty(t, mock.Calls)
}

func TestBuildSimilarityGraphIsIdempotent(t *testing.T) {
	discussions, embedder := similarityFixture()
	mock := &MockDriver{}
	b := NewBuilder(mock, embedder, testLogger())
	groups := ExtractNodeGroups(discussions)

	assert.NoError(t, b.BuildSimilarityGraph(context.Background(), groups, 0.5))
	assert.NoError(t, b.BuildSimilarityGraph(context.Background(), groups, 0.5))

	batches := edgeBatches(mock.Calls)
	assert.Len(t, batches, 2)
	assert.Equal(t, batches[0], batches[1])
}

func TestGraphWriteFailuresDoNotAbort(t *testing.T) {
	discussions, embedder := similarityFixture()
	mock := &MockDriver{Err: errors.New("connection reset")}
	b := NewBuilder(mock, embedder, testLogger())
	groups := ExtractNodeGroups(discussions)

	b.ClearGraph(context.Background())
	b.CreateDiscussionNodes(context.Background(), groups)
	assert.NoError(t, b.BuildSimilarityGraph(context.Background(), groups, 0.5))

	// Every write was still attempted despite the failures.
	queries := make([]string, 0, len(mock.Calls))
	for _, c := range mock.Calls {
		queries = append(queries, c.Query)
	}
	assert.Contains(t, queries, driver.ClearGraphQuery)
	assert.Contains(t, queries, driver.MergeDiscussionNodesQuery)
	assert.Contains(t, queries, driver.MergeSimilarityEdgesQuery)
}

func TestBuildSimilarityGraphSkipsCrossLanguagePairs(t *testing.T) {
	discussions := []model.Discussion{
		{ID: "en", Position: model.PositionNote, Text: "The new playground equipment is already broken."},
		{ID: "el", Position: model.PositionNote, Text: "Ο εξοπλισμός της παιδικής χαράς έχει ήδη χαλάσει."},
	}
	embedder := &mapEmbedder{vectors: map[string][]float32{
		text.Normalize(discussions[0].Text): {1, 0},
		text.Normalize(discussions[1].Text): {1, 0},
	}}
	mock := &MockDriver{}
	b := NewBuilder(mock, embedder, testLogger())

	err := b.BuildSimilarityGraph(context.Background(), ExtractNodeGroups(discussions), 0.5)
	assert.NoError(t, err)
	assert.Empty(t, edgeBatches(mock.Calls))
}
