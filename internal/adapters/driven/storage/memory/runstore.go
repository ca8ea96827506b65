package memory

import (
	"context"
	"sync"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.IngestRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record persists a finished run.
func (s *RunStore) Record(ctx context.Context, run *domain.IngestRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.runs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.IngestRun, 0, limit)
	for idx := n - 1; idx >= n-limit; idx-- {
		out = append(out, s.runs[idx])
	}
	return out, nil
}
