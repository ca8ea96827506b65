package driven

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// VectorIndex stores chunk embeddings and serves nearest-neighbour queries.
// The index is append-only: re-ingesting a document adds new entries rather
// than replacing earlier ones.
type VectorIndex interface {
	// Insert appends entries to the index and returns the number stored.
	// All entries must share the dimensionality of the index.
	Insert(ctx context.Context, entries []domain.IndexedEntry) (int, error)

	// Search finds the k entries nearest to the query vector, most similar
	// first. Entries with equal scores keep insertion order. When k meets or
	// exceeds the index size, every entry is returned.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error)

	// Stats reports the number of stored entries and their dimensionality.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Entries returns stored entries in insertion order, for inspection.
	// A limit of zero or less means no limit.
	Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error)

	// Close releases resources.
	Close() error
}
