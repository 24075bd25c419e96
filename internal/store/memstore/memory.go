package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

// Store is an in-memory document store used in tests and local runs.
type Store struct {
	mu          sync.RWMutex
	throttle    time.Time
	hasThrottle bool
	results     map[string]model.AnalysisResult
	order       []string
}

func New() *Store {
	return &Store{results: make(map[string]model.AnalysisResult)}
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) Throttle(ctx context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.throttle, s.hasThrottle, nil
}

func (s *Store) ReplaceThrottle(ctx context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.throttle = t
	s.hasThrottle = true
	return nil
}

func (s *Store) ReplaceResults(ctx context.Context, results []model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]model.AnalysisResult, len(results))
	s.order = s.order[:0]
	for _, r := range results {
		s.results[r.WorkspaceID] = r
		s.order = append(s.order, r.WorkspaceID)
	}
	return nil
}

func (s *Store) Results(ctx context.Context, workspaceIDs []string) ([]model.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := workspaceIDs
	if len(ids) == 0 {
		ids = s.order
	}

	results := []model.AnalysisResult{}
	for _, id := range ids {
		if r, ok := s.results[id]; ok {
			results = append(results, r)
		}
	}
	return results, nil
}
