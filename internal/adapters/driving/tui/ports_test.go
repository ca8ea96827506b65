package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AskFunc func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *MockAnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{Text: "O faturamento foi de 10 milhões de reais.", Grounded: true}, nil
}

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	RetrieveFunc func(ctx context.Context, question string, k int) ([]domain.SearchResult, error)
}

func (m *MockRetrievalService) Retrieve(
	ctx context.Context, question string, k int,
) ([]domain.SearchResult, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, question, k)
	}
	return nil, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	IngestFunc func(ctx context.Context, path string) (*domain.IngestRun, error)
}

func (m *MockIngestService) Ingest(ctx context.Context, path string) (*domain.IngestRun, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, path)
	}
	return &domain.IngestRun{Chunks: 2, Entries: 2}, nil
}

// MockCollectionService implements driving.CollectionService for testing.
type MockCollectionService struct {
	StatsFunc      func(ctx context.Context) (domain.IndexStats, error)
	EntriesFunc    func(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error)
	RecentRunsFunc func(ctx context.Context, limit int) ([]domain.IngestRun, error)
}

func (m *MockCollectionService) Stats(ctx context.Context) (domain.IndexStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.IndexStats{Entries: 2, Dimensions: 3}, nil
}

func (m *MockCollectionService) Entries(
	ctx context.Context, limit, offset int,
) ([]domain.IndexedEntry, error) {
	if m.EntriesFunc != nil {
		return m.EntriesFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockCollectionService) RecentRuns(
	ctx context.Context, limit int,
) ([]domain.IngestRun, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(ctx, limit)
	}
	return nil, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	GetFunc func() (*domain.AppSettings, error)
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	settings := domain.DefaultAppSettings()
	return &settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error { return nil }

func (m *MockSettingsService) SetChunking(maxChars, overlapChars int) error { return nil }

func (m *MockSettingsService) SetTopK(k int) error { return nil }

func (m *MockSettingsService) SetIndexBackend(
	backend domain.IndexBackend, collection, address string,
) error {
	return nil
}

func (m *MockSettingsService) SetEmbeddingProvider(
	provider domain.AIProvider, model, apiKey string,
) error {
	return nil
}

func (m *MockSettingsService) SetLLMProvider(
	provider domain.AIProvider, model, apiKey string,
) error {
	return nil
}

func (m *MockSettingsService) SetDocumentPath(path string) error { return nil }

func (m *MockSettingsService) Validate() error { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *MockSettingsService) ValidateLLMConfig() error { return nil }

func TestNewPorts(t *testing.T) {
	answer := &MockAnswerService{}
	retrieval := &MockRetrievalService{}
	collection := &MockCollectionService{}

	ports := NewPorts(answer, retrieval, collection)

	require.NotNil(t, ports)
	assert.Equal(t, answer, ports.Answer)
	assert.Equal(t, retrieval, ports.Retrieval)
	assert.Equal(t, collection, ports.Collection)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		Answer:     &MockAnswerService{},
		Retrieval:  &MockRetrievalService{},
		Collection: &MockCollectionService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingAnswer(t *testing.T) {
	ports := &Ports{
		Answer:     nil,
		Collection: &MockCollectionService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestPorts_Validate_MissingCollection(t *testing.T) {
	ports := &Ports{
		Answer:     &MockAnswerService{},
		Collection: nil,
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingCollectionService)
}

func TestPorts_Validate_OptionalPortsMayBeNil(t *testing.T) {
	ports := &Ports{
		Answer:     &MockAnswerService{},
		Collection: &MockCollectionService{},
		Retrieval:  nil,
		Ingest:     nil,
		Settings:   nil,
	}

	err := ports.Validate()

	assert.NoError(t, err)
}
