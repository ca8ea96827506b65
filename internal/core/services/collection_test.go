package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/storage/memory"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

func collectionSeedEntries(t *testing.T, index *memory.Index, n int) {
	t.Helper()
	entries := make([]domain.IndexedEntry, n)
	for i := range entries {
		entries[i] = domain.IndexedEntry{
			ID:        fmt.Sprintf("entry-%d", i),
			Content:   fmt.Sprintf("chunk %d", i),
			Position:  i,
			Embedding: []float32{float32(i), 1, 0},
		}
	}
	_, err := index.Insert(context.Background(), entries)
	require.NoError(t, err)
}

func TestCollectionService_Stats(t *testing.T) {
	index := memory.NewIndex()
	collectionSeedEntries(t, index, 3)
	service := NewCollectionService(index, nil)

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 3, stats.Dimensions)
}

func TestCollectionService_Stats_EmptyIndex(t *testing.T) {
	service := NewCollectionService(memory.NewIndex(), nil)

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, 0, stats.Dimensions)
}

func TestCollectionService_Entries_InsertionOrder(t *testing.T) {
	index := memory.NewIndex()
	collectionSeedEntries(t, index, 5)
	service := NewCollectionService(index, nil)

	entries, err := service.Entries(context.Background(), 0, 0)

	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("entry-%d", i), entry.ID)
	}
}

func TestCollectionService_Entries_Pagination(t *testing.T) {
	index := memory.NewIndex()
	collectionSeedEntries(t, index, 5)
	service := NewCollectionService(index, nil)

	entries, err := service.Entries(context.Background(), 2, 1)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID)
	assert.Equal(t, "entry-2", entries[1].ID)

	// Offset past the end is empty, not an error.
	entries, err = service.Entries(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCollectionService_RecentRuns_NewestFirst(t *testing.T) {
	runStore := memory.NewRunStore()
	for i := 0; i < 3; i++ {
		err := runStore.Record(context.Background(), &domain.IngestRun{
			ID:          fmt.Sprintf("run-%d", i),
			DocumentURI: "report.pdf",
			Chunks:      i + 1,
		})
		require.NoError(t, err)
	}
	service := NewCollectionService(memory.NewIndex(), runStore)

	runs, err := service.RecentRuns(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
}

func TestCollectionService_RecentRuns_NilRunStore(t *testing.T) {
	service := NewCollectionService(memory.NewIndex(), nil)

	runs, err := service.RecentRuns(context.Background(), 5)

	require.NoError(t, err)
	assert.Nil(t, runs)
}
