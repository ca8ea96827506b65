package services

import (
	"context"
	"fmt"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService exposes the state of the vector collection for the
// status command and inspection surfaces.
type CollectionService struct {
	index    driven.VectorIndex
	runStore driven.RunStore
}

// NewCollectionService creates a new collection service.
// The runStore parameter is optional (can be nil).
func NewCollectionService(index driven.VectorIndex, runStore driven.RunStore) *CollectionService {
	return &CollectionService{
		index:    index,
		runStore: runStore,
	}
}

// Stats reports entry count and dimensionality for the collection.
func (s *CollectionService) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("collection stats: %w", err)
	}
	return stats, nil
}

// Entries lists stored entries in insertion order.
func (s *CollectionService) Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error) {
	entries, err := s.index.Entries(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// RecentRuns returns recent ingestion runs, newest first, or nil when
// run history is not kept.
func (s *CollectionService) RecentRuns(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if s.runStore == nil {
		return nil, nil
	}
	runs, err := s.runStore.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}
