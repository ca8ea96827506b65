package mcp

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
// It records the k it was called with so tests can check defaults.
type mockRetrievalService struct {
	results []domain.SearchResult
	err     error
	gotK    int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, k int) ([]domain.SearchResult, error) {
	m.gotK = k
	return m.results, m.err
}

// mockCollectionService is a mock implementation of driving.CollectionService.
type mockCollectionService struct {
	stats   domain.IndexStats
	entries []domain.IndexedEntry
	runs    []domain.IngestRun
	err     error
}

func (m *mockCollectionService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockCollectionService) Entries(_ context.Context, _, offset int) ([]domain.IndexedEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.entries) {
		return nil, nil
	}
	return m.entries[offset:], nil
}

func (m *mockCollectionService) RecentRuns(_ context.Context, _ int) ([]domain.IngestRun, error) {
	return m.runs, m.err
}
