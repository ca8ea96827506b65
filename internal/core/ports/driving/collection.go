package driving

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// CollectionService exposes the state of the vector collection for
// status displays and inspection.
type CollectionService interface {
	// Stats reports entry count and dimensionality for the collection.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Entries lists stored entries in insertion order.
	// A limit of zero or less means no limit.
	Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error)

	// RecentRuns returns recent ingestion runs, newest first.
	// Returns nil when run history is not kept.
	RecentRuns(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
