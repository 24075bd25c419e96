package store

import (
	"context"
	"time"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

// Store persists the throttle marker and the per-workspace analysis
// results. Results are replaced wholesale each run; there is no merge.
type Store interface {
	Close(ctx context.Context) error

	// Throttle returns the timestamp of the last completed run start,
	// with ok=false when no run has happened yet.
	Throttle(ctx context.Context) (time.Time, bool, error)
	// ReplaceThrottle overwrites the throttle marker with t.
	ReplaceThrottle(ctx context.Context, t time.Time) error

	// ReplaceResults deletes every stored result and inserts the given set.
	ReplaceResults(ctx context.Context, results []model.AnalysisResult) error
	// Results returns results for the given workspace ids; a nil or empty
	// id list returns every stored result.
	Results(ctx context.Context, workspaceIDs []string) ([]model.AnalysisResult, error)
}
