package driving

import "github.com/ansa-labs/ansa-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetChunking updates the chunk size and overlap.
	SetChunking(maxChars, overlapChars int) error

	// SetTopK updates how many chunks retrieval returns.
	SetTopK(k int) error

	// SetIndexBackend configures where embeddings are stored.
	SetIndexBackend(backend domain.IndexBackend, collection, address string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetDocumentPath updates the default document to ingest.
	SetDocumentPath(path string) error

	// Validate checks if current settings are internally consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
