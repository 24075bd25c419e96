// Package graph builds the per-workspace similarity graph: discussion
// nodes merged by id and thresholded is_similar edges between same-type,
// same-language messages.
package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/sycomix/inpoint-ai-backend/internal/driver"
	"github.com/sycomix/inpoint-ai-backend/internal/llm"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

// ExtractNodeGroups partitions discussions by position. Every configured
// position is present as a key, possibly with an empty group; the group
// sizes always sum to len(discussions).
func ExtractNodeGroups(discussions []model.Discussion) map[model.Position][]model.Discussion {
	groups := make(map[model.Position][]model.Discussion, len(model.Positions()))
	for _, p := range model.Positions() {
		groups[p] = []model.Discussion{}
	}
	for _, d := range discussions {
		groups[d.Position] = append(groups[d.Position], d)
	}
	return groups
}

// Edge is one thresholded similarity pair, with Source < Target so each
// unordered pair yields exactly one edge.
type Edge struct {
	Source string
	Target string
	Score  float64
}

type Builder struct {
	driver   driver.GraphDriver
	embedder llm.Embedder
	logger   *log.Logger
}

func NewBuilder(d driver.GraphDriver, embedder llm.Embedder, logger *log.Logger) *Builder {
	return &Builder{driver: d, embedder: embedder, logger: logger}
}

// ClearGraph deletes the workspace's entire prior graph, nodes and edges.
// Graph-store failures are logged and skipped; the run continues with
// whatever graph state remains.
func (b *Builder) ClearGraph(ctx context.Context) {
	if _, err := b.driver.ExecuteQuery(ctx, driver.ClearGraphQuery, nil); err != nil {
		b.logger.Error("failed to clear graph", "error", err)
	}
}

// CreateDiscussionNodes asserts the id uniqueness constraint and merges
// all nodes of each non-empty group in one batch. Both operations are
// idempotent, so re-running a workspace does not duplicate nodes. Failed
// writes are logged per batch and do not abort the run.
func (b *Builder) CreateDiscussionNodes(ctx context.Context, groups map[model.Position][]model.Discussion) {
	if _, err := b.driver.ExecuteQuery(ctx, driver.EnsureDiscussionConstraintQuery, nil); err != nil {
		b.logger.Error("failed to ensure discussion constraint", "error", err)
	}

	for _, position := range model.Positions() {
		nodes := groups[position]
		if len(nodes) == 0 {
			continue
		}

		rows := make([]map[string]interface{}, 0, len(nodes))
		for _, d := range nodes {
			rows = append(rows, map[string]interface{}{
				"id":       d.ID,
				"spaceId":  d.SpaceID,
				"userId":   d.UserID,
				"position": string(d.Position),
				"text":     d.Text,
			})
		}
		params := map[string]interface{}{"nodes": rows}
		if _, err := b.driver.ExecuteQuery(ctx, driver.MergeDiscussionNodesQuery, params); err != nil {
			b.logger.Error("failed to merge nodes", "position", position, "error", err)
		}
	}
}

// BuildSimilarityGraph computes pairwise similarity within every non-Issue
// type group, split by detected language, and writes edges with
// score >= cutoff in one batch per group. Edge writes merge on the
// unordered pair, so re-running with identical input yields the same
// edge set. Embedding failures abort, failed edge writes are logged and
// skipped.
func (b *Builder) BuildSimilarityGraph(ctx context.Context, groups map[model.Position][]model.Discussion, cutoff float64) error {
	for _, position := range model.Positions() {
		if position == model.PositionIssue {
			continue
		}
		members := groups[position]
		if len(members) < 2 {
			continue
		}

		edges, err := b.similarityEdges(ctx, members, cutoff)
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			continue
		}

		rows := make([]map[string]interface{}, 0, len(edges))
		for _, e := range edges {
			rows = append(rows, map[string]interface{}{
				"source": e.Source,
				"target": e.Target,
				"score":  e.Score,
			})
		}
		params := map[string]interface{}{"edges": rows}
		if _, err := b.driver.ExecuteQuery(ctx, driver.MergeSimilarityEdgesQuery, params); err != nil {
			b.logger.Error("failed to merge similarity edges", "position", position, "error", err)
		}
	}
	return nil
}

// similarityEdges embeds each member text once and compares all pairs
// within each same-language subset. The comparison is quadratic in the
// subset size, which is bounded by the workspace.
func (b *Builder) similarityEdges(ctx context.Context, members []model.Discussion, cutoff float64) ([]Edge, error) {
	type subset struct {
		ids        []string
		embeddings [][]float32
	}
	byLanguage := make(map[model.Language]*subset)

	for _, d := range members {
		lang := text.DetectLanguage(d.Text)
		if lang == model.LanguageUnsupported {
			b.logger.Debug("unsupported language excluded from similarity", "id", d.ID)
			continue
		}
		s, ok := byLanguage[lang]
		if !ok {
			s = &subset{}
			byLanguage[lang] = s
		}
		s.ids = append(s.ids, d.ID)
		s.embeddings = append(s.embeddings, nil)
	}

	var edges []Edge
	seen := make(map[string]bool)

	for _, lang := range model.SupportedLanguages() {
		s := byLanguage[lang]
		if s == nil || len(s.ids) < 2 {
			continue
		}

		// Embed each text once before the quadratic comparison.
		idx := make(map[string]int, len(s.ids))
		for i, id := range s.ids {
			idx[id] = i
		}
		for _, d := range members {
			i, ok := idx[d.ID]
			if !ok {
				continue
			}
			vec, err := b.embedder.Embed(ctx, text.Normalize(d.Text))
			if err != nil {
				return nil, fmt.Errorf("failed to embed discussion %s: %w", d.ID, err)
			}
			s.embeddings[i] = vec
		}

		for i := 0; i < len(s.ids); i++ {
			for j := i + 1; j < len(s.ids); j++ {
				if s.ids[i] == s.ids[j] {
					continue
				}
				score := text.CosineSimilarity(s.embeddings[i], s.embeddings[j])
				if score < cutoff {
					continue
				}
				source, target := s.ids[i], s.ids[j]
				if target < source {
					source, target = target, source
				}
				key := source + "\x00" + target
				if seen[key] {
					continue
				}
				seen[key] = true
				edges = append(edges, Edge{Source: source, Target: target, Score: score})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges, nil
}
