package cli

import (
	"context"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// Mock services for command tests. Each mock exposes optional func
// fields; the zero value answers with a small fixed dataset so happy
// path tests need no setup.

func testSearchResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Entry: domain.IndexedEntry{
				ID:          "entry-1",
				DocumentID:  "doc-report",
				DocumentURI: "report.pdf",
				Position:    0,
				Content:     "O faturamento da empresa no último trimestre foi de 10 milhões de reais.",
			},
			Score: 0.92,
		},
		{
			Entry: domain.IndexedEntry{
				ID:          "entry-2",
				DocumentID:  "doc-report",
				DocumentURI: "report.pdf",
				Position:    1,
				Content:     "Os custos operacionais do mesmo período somaram 2 milhões de reais.",
			},
			Score: 0.85,
		},
	}
}

type mockIngestService struct {
	IngestFunc func(ctx context.Context, path string) (*domain.IngestRun, error)
}

func (m *mockIngestService) Ingest(ctx context.Context, path string) (*domain.IngestRun, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, path)
	}
	return &domain.IngestRun{
		ID:          "run-1",
		DocumentURI: path,
		Chunks:      2,
		Entries:     2,
		Dimensions:  3,
	}, nil
}

type mockRetrievalService struct {
	RetrieveFunc func(ctx context.Context, question string, k int) ([]domain.SearchResult, error)
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, question, k)
	}
	return testSearchResults(), nil
}

type mockAnswerService struct {
	AskFunc func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *mockAnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{
		Text:     "O faturamento foi de 10 milhões de reais.",
		Grounded: true,
		Sources:  testSearchResults(),
	}, nil
}

type mockCollectionService struct {
	StatsFunc      func(ctx context.Context) (domain.IndexStats, error)
	EntriesFunc    func(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error)
	RecentRunsFunc func(ctx context.Context, limit int) ([]domain.IngestRun, error)
}

func (m *mockCollectionService) Stats(ctx context.Context) (domain.IndexStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.IndexStats{Entries: 2, Dimensions: 3}, nil
}

func (m *mockCollectionService) Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error) {
	if m.EntriesFunc != nil {
		return m.EntriesFunc(ctx, limit, offset)
	}
	results := testSearchResults()
	entries := make([]domain.IndexedEntry, 0, len(results))
	for i := range results {
		entries = append(entries, results[i].Entry)
	}
	return entries, nil
}

func (m *mockCollectionService) RecentRuns(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(ctx, limit)
	}
	return nil, nil
}

// mockSettingsService records setter calls and hands back defaults.
type mockSettingsService struct {
	GetFunc func() (*domain.AppSettings, error)

	SavedSettings    *domain.AppSettings
	ChunkingMax      int
	ChunkingOverlap  int
	TopK             int
	IndexBackend     domain.IndexBackend
	IndexCollection  string
	IndexAddress     string
	DocumentPath     string
	ValidateErr      error
	SetChunkingErr   error
	SetTopKErr       error
	SetDocumentErr   error
	SetIndexErr      error
	SetEmbeddingErr  error
	SetLLMErr        error
	EmbeddingConfigs []domain.EmbeddingSettings
	LLMConfigs       []domain.LLMSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	settings := domain.DefaultAppSettings()
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.SavedSettings = settings
	return nil
}

func (m *mockSettingsService) SetChunking(maxChars, overlapChars int) error {
	if m.SetChunkingErr != nil {
		return m.SetChunkingErr
	}
	m.ChunkingMax = maxChars
	m.ChunkingOverlap = overlapChars
	return nil
}

func (m *mockSettingsService) SetTopK(k int) error {
	if m.SetTopKErr != nil {
		return m.SetTopKErr
	}
	m.TopK = k
	return nil
}

func (m *mockSettingsService) SetIndexBackend(backend domain.IndexBackend, collection, address string) error {
	if m.SetIndexErr != nil {
		return m.SetIndexErr
	}
	m.IndexBackend = backend
	m.IndexCollection = collection
	m.IndexAddress = address
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.SetEmbeddingErr != nil {
		return m.SetEmbeddingErr
	}
	m.EmbeddingConfigs = append(m.EmbeddingConfigs, domain.EmbeddingSettings{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	})
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.SetLLMErr != nil {
		return m.SetLLMErr
	}
	m.LLMConfigs = append(m.LLMConfigs, domain.LLMSettings{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	})
	return nil
}

func (m *mockSettingsService) SetDocumentPath(path string) error {
	if m.SetDocumentErr != nil {
		return m.SetDocumentErr
	}
	m.DocumentPath = path
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.ValidateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

// setupTestServices wires happy path mocks into the package level
// service variables and returns a cleanup restoring the old values.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldAnswer := answerService
	oldCollection := collectionService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	retrievalService = &mockRetrievalService{}
	answerService = &mockAnswerService{}
	collectionService = &mockCollectionService{}
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		answerService = oldAnswer
		collectionService = oldCollection
		settingsService = oldSettings
	}
}
