package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
// Entries are kept in insertion order and scored with exact cosine
// similarity, which makes it the reference backend for tests and for
// small single-document collections.
type Index struct {
	mu      sync.RWMutex
	entries []domain.IndexedEntry
	dims    int
}

// NewIndex creates a new empty in-memory index.
func NewIndex() *Index {
	return &Index{}
}

// Insert appends entries to the index.
// The whole batch is validated before anything is stored, so a failed
// insert leaves the index unchanged.
func (i *Index) Insert(ctx context.Context, entries []domain.IndexedEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	dims := i.dims
	if dims == 0 {
		dims = len(entries[0].Embedding)
	}
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			return 0, fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, entry.ID)
		}
		if len(entry.Embedding) != dims {
			return 0, fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, entry.ID, len(entry.Embedding), dims)
		}
	}

	i.dims = dims
	i.entries = append(i.entries, entries...)
	return len(entries), nil
}

// Search scores every entry against the query vector and returns the
// top k, best first. Equal scores keep insertion order.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.entries) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), i.dims)
	}

	results := make([]domain.SearchResult, 0, len(i.entries))
	for _, entry := range i.entries {
		results = append(results, domain.SearchResult{
			Entry: entry,
			Score: cosineSimilarity(query, entry.Embedding),
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Stats reports the number of stored entries and their dimensionality.
func (i *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return domain.IndexStats{Entries: len(i.entries), Dimensions: i.dims}, nil
}

// Entries returns stored entries in insertion order.
func (i *Index) Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(i.entries) {
		return nil, nil
	}
	end := len(i.entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]domain.IndexedEntry, end-offset)
	copy(out, i.entries[offset:end])
	return out, nil
}

// Close releases resources (no-op for the memory index).
func (i *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for idx := range a {
		dot += float64(a[idx]) * float64(b[idx])
		normA += float64(a[idx]) * float64(a[idx])
		normB += float64(b[idx]) * float64(b[idx])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
