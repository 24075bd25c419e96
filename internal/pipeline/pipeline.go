// Package pipeline orchestrates one analysis run: fetch the upstream
// snapshot, analyze every workspace in sequence, and replace the stored
// results. Runs are throttled by a persisted marker so overlapping
// triggers within the window reuse the previous results.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sycomix/inpoint-ai-backend/internal/analysis/classifier"
	"github.com/sycomix/inpoint-ai-backend/internal/analysis/clusterer"
	"github.com/sycomix/inpoint-ai-backend/internal/analysis/community"
	"github.com/sycomix/inpoint-ai-backend/internal/analysis/graph"
	"github.com/sycomix/inpoint-ai-backend/internal/config"
	"github.com/sycomix/inpoint-ai-backend/internal/driver"
	"github.com/sycomix/inpoint-ai-backend/internal/llm"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/store"
	"github.com/sycomix/inpoint-ai-backend/internal/upstream"
)

// Status reports how an Analyze call concluded.
type Status int

const (
	// StatusThrottled means the throttle window had not elapsed; stored
	// results were returned and nothing was recomputed.
	StatusThrottled Status = iota
	// StatusPersisted means a full run completed and replaced the stored
	// results.
	StatusPersisted
	// StatusFailed means the run aborted; stored results were left as-is
	// but the throttle window was still consumed.
	StatusFailed
)

type Pipeline struct {
	source   upstream.Source
	graph    driver.GraphDriver
	store    store.Store
	embedder llm.Embedder
	logger   *log.Logger
	cfg      config.PipelineConfig
}

func New(source upstream.Source, graphDriver driver.GraphDriver, st store.Store, embedder llm.Embedder, cfg config.PipelineConfig, logger *log.Logger) *Pipeline {
	return &Pipeline{
		source:   source,
		graph:    graphDriver,
		store:    st,
		embedder: embedder,
		logger:   logger,
		cfg:      cfg,
	}
}

// Analyze runs the full pipeline unless the throttle window is still
// open. The throttle marker is advanced before the run starts, so a
// failed run also consumes the window; forced runs (firstRun) bypass the
// check but still advance the marker.
func (p *Pipeline) Analyze(ctx context.Context, firstRun bool) (Status, []model.AnalysisResult, error) {
	last, ok, err := p.store.Throttle(ctx)
	if err != nil {
		return StatusFailed, nil, fmt.Errorf("failed to read throttle marker: %w", err)
	}

	window := time.Duration(p.cfg.ThrottleMinutes) * time.Minute
	if ok && !firstRun && time.Since(last) < window {
		p.logger.Warn("analysis throttled", "last_run", last, "window", window)
		results, err := p.store.Results(ctx, nil)
		if err != nil {
			return StatusFailed, nil, fmt.Errorf("failed to read stored results: %w", err)
		}
		return StatusThrottled, results, nil
	}

	if err := p.store.ReplaceThrottle(ctx, time.Now()); err != nil {
		return StatusFailed, nil, fmt.Errorf("failed to write throttle marker: %w", err)
	}

	results, err := p.run(ctx)
	if err != nil {
		p.logger.Error("analysis run failed", "error", err)
		return StatusFailed, nil, err
	}

	if err := p.store.ReplaceResults(ctx, results); err != nil {
		return StatusFailed, nil, fmt.Errorf("failed to persist results: %w", err)
	}
	return StatusPersisted, results, nil
}

// run fetches the snapshot and analyzes each workspace. A panic in any
// stage aborts the whole run; partial results are never persisted.
func (p *Pipeline) run(ctx context.Context) (results []model.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("analysis panicked: %v", r)
		}
	}()

	runID := uuid.NewString()
	logger := p.logger.With("run", runID)
	started := time.Now()

	workspaces, discussions, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("fetched upstream snapshot",
		"workspaces", len(workspaces),
		"discussions", len(discussions),
		"took", time.Since(started))

	bySpace := make(map[string][]model.Discussion)
	for _, d := range discussions {
		bySpace[d.SpaceID] = append(bySpace[d.SpaceID], d)
	}

	// Classifiers are language-scoped, not workspace-scoped; train once
	// over the whole snapshot.
	models := classifier.Train(discussions, logger)

	builder := graph.NewBuilder(p.graph, p.embedder, logger)
	partitioner := community.NewPartitioner(p.graph, logger)

	results = make([]model.AnalysisResult, 0, len(workspaces))
	for _, w := range workspaces {
		result, err := p.analyzeWorkspace(ctx, w, bySpace[w.ID], models, builder, partitioner, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze workspace %s: %w", w.ID, err)
		}
		results = append(results, result)
	}

	logger.Info("analysis run complete", "workspaces", len(results), "took", time.Since(started))
	return results, nil
}

func (p *Pipeline) analyzeWorkspace(ctx context.Context, w model.Workspace, discussions []model.Discussion, models *classifier.Models, builder *graph.Builder, partitioner *community.Partitioner, logger *log.Logger) (model.AnalysisResult, error) {
	logger = logger.With("workspace", w.ID)
	started := time.Now()

	// The graph holds one workspace at a time; drop the previous one.
	builder.ClearGraph(ctx)

	stage := time.Now()
	suggestions := models.SuggestRelabels(discussions)
	logger.Debug("classified positions", "suggestions", len(suggestions), "took", time.Since(stage))

	stage = time.Now()
	clusters, err := clusterer.SuggestClusters(ctx, discussions, p.embedder, p.cfg.Seed, p.cfg.TopSentences, logger)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	logger.Debug("clustered discussions", "took", time.Since(stage))

	stage = time.Now()
	groups := graph.ExtractNodeGroups(discussions)
	builder.CreateDiscussionNodes(ctx, groups)
	if err := builder.BuildSimilarityGraph(ctx, groups, p.cfg.Cutoff); err != nil {
		return model.AnalysisResult{}, err
	}
	logger.Debug("built similarity graph", "took", time.Since(stage))

	stage = time.Now()
	partitioner.Partition(ctx)
	communities := partitioner.SummarizeCommunities(ctx, p.cfg.TopN, p.cfg.TopSentences)
	logger.Debug("summarized communities", "communities", len(communities), "took", time.Since(stage))

	positionSummaries := make(map[model.Position][]string, len(model.Positions()))
	for _, position := range model.Positions() {
		if position == model.PositionIssue {
			continue
		}
		positionSummaries[position] = []string{}
	}

	labels := make([]int64, 0, len(communities))
	for label := range communities {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	for _, label := range labels {
		summary := communities[label]
		if summary == nil || summary.Position == model.PositionIssue {
			continue
		}
		positionSummaries[summary.Position] = append(positionSummaries[summary.Position], summary.Summary)
	}

	aggregated := community.Aggregate(positionSummaries, p.cfg.TopN, p.cfg.TopSentences)

	logger.Debug("workspace analyzed", "took", time.Since(started))
	return model.AnalysisResult{
		WorkspaceID:       w.ID,
		Aggregated:        aggregated,
		PositionSummaries: positionSummaries,
		Suggestions:       suggestions,
		Clusters:          clusters,
	}, nil
}
