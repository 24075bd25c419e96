// Package community detects similarity communities in a workspace graph
// and produces one extractive summary per community. Detection runs
// in-process over the stored is_similar edges; the resulting community
// property is written back onto the nodes.
package community

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/sycomix/inpoint-ai-backend/internal/driver"
)

type Partitioner struct {
	driver driver.GraphDriver
	logger *log.Logger
}

func NewPartitioner(d driver.GraphDriver, logger *log.Logger) *Partitioner {
	return &Partitioner{driver: d, logger: logger}
}

// Partition reads the similarity edges, detects communities and writes
// each node's community id back onto the graph. Graph-store failures are
// logged and leave the graph without community properties; the caller's
// run continues with empty summaries.
func (p *Partitioner) Partition(ctx context.Context) {
	res, err := p.driver.ExecuteQuery(ctx, driver.GetSimilarityEdgesQuery, nil)
	if err != nil {
		p.logger.Error("failed to read similarity edges", "error", err)
		return
	}

	var edges []Edge
	for _, rec := range res.Records {
		source, _ := rec.Get("source")
		target, _ := rec.Get("target")
		score, _ := rec.Get("score")

		s, okS := source.(string)
		t, okT := target.(string)
		if !okS || !okT {
			continue
		}
		edges = append(edges, Edge{Source: s, Target: t, Weight: toFloat(score)})
	}
	if len(edges) == 0 {
		p.logger.Debug("no similarity edges, skipping community detection")
		return
	}

	communities := Louvain(edges)

	ids := make([]string, 0, len(communities))
	for id := range communities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{
			"id":        id,
			"community": communities[id],
		})
	}
	params := map[string]interface{}{"assignments": rows}
	if _, err := p.driver.ExecuteQuery(ctx, driver.WriteCommunitiesQuery, params); err != nil {
		p.logger.Error("failed to write community assignments", "error", err)
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
