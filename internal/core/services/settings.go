package services

import (
	"fmt"
	"os"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkMaxChars   = "chunking.max_chars"
	keyChunkOverlap    = "chunking.overlap_chars"
	keyTopK            = "retrieval.top_k"
	keyIndexBackend    = "index.backend"
	keyIndexCollection = "index.collection"
	keyIndexDataDir    = "index.data_dir"
	keyIndexAddress    = "index.address"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyRefusal         = "answer.refusal"
	keyDocumentPath    = "document.path"
)

// Environment variables consulted when the config file carries no value.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
	envDocumentPath = "PDF_PATH"
)

// SettingsService manages application settings: it converts between the
// flat config key space and domain.AppSettings, applies defaults, and
// resolves API keys from the environment when the file has none.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings: stored values with
// defaults applied and API keys resolved from the environment when the
// config file carries none.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()

	// API keys fall back to the environment so cloud providers work
	// without writing secrets to the config file.
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = apiKeyFromEnv(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = apiKeyFromEnv(settings.LLM.Provider)
	}

	// PDF_PATH overrides the built-in default document but never a
	// path set explicitly in the config file.
	if s.configStore.GetString(keyDocumentPath) == "" {
		if envPath := os.Getenv(envDocumentPath); envPath != "" {
			settings.Document.Path = envPath
		}
	}

	return settings, nil
}

// stored reads settings from the config store with defaults applied but
// without environment fallback. The Set* read-modify-write cycle goes
// through this view so a Save never copies environment secrets into the
// config file.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			MaxChars:     s.getInt(keyChunkMaxChars, defaults.Chunking.MaxChars),
			OverlapChars: s.getInt(keyChunkOverlap, defaults.Chunking.OverlapChars),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Index: domain.IndexSettings{
			Backend:    s.getBackend(defaults.Index.Backend),
			Collection: s.getString(keyIndexCollection, defaults.Index.Collection),
			DataDir:    s.configStore.GetString(keyIndexDataDir), // No default - empty means app data dir
			Address:    s.getString(keyIndexAddress, defaults.Index.Address),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Answer: domain.AnswerSettings{
			RefusalSentence: s.getString(keyRefusal, defaults.Answer.RefusalSentence),
		},
		Document: domain.DocumentSettings{
			Path: s.getString(keyDocumentPath, defaults.Document.Path),
		},
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save chunking settings
	if err := s.configStore.Set(keyChunkMaxChars, settings.Chunking.MaxChars); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.OverlapChars); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}

	// Save index settings
	if err := s.configStore.Set(keyIndexBackend, settings.Index.Backend.String()); err != nil {
		return fmt.Errorf("save index backend: %w", err)
	}
	if err := s.configStore.Set(keyIndexCollection, settings.Index.Collection); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	if err := s.configStore.Set(keyIndexDataDir, settings.Index.DataDir); err != nil {
		return fmt.Errorf("save data dir: %w", err)
	}
	if err := s.configStore.Set(keyIndexAddress, settings.Index.Address); err != nil {
		return fmt.Errorf("save index address: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save answer settings
	if err := s.configStore.Set(keyRefusal, settings.Answer.RefusalSentence); err != nil {
		return fmt.Errorf("save refusal sentence: %w", err)
	}

	// Save document settings
	if err := s.configStore.Set(keyDocumentPath, settings.Document.Path); err != nil {
		return fmt.Errorf("save document path: %w", err)
	}

	return nil
}

// SetChunking updates the chunk size and overlap.
func (s *SettingsService) SetChunking(maxChars, overlapChars int) error {
	chunking := domain.ChunkingSettings{
		MaxChars:     maxChars,
		OverlapChars: overlapChars,
	}
	if err := chunking.Validate(); err != nil {
		return err
	}

	settings := s.stored()
	settings.Chunking = chunking
	return s.Save(settings)
}

// SetTopK updates how many chunks retrieval returns.
func (s *SettingsService) SetTopK(k int) error {
	retrieval := domain.RetrievalSettings{TopK: k}
	if err := retrieval.Validate(); err != nil {
		return err
	}

	settings := s.stored()
	settings.Retrieval = retrieval
	return s.Save(settings)
}

// SetIndexBackend configures where embeddings are stored.
// Empty collection and address keep their current values.
func (s *SettingsService) SetIndexBackend(backend domain.IndexBackend, collection, address string) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidConfig, backend)
	}

	settings := s.stored()
	settings.Index.Backend = backend
	if collection != "" {
		settings.Index.Collection = collection
	}
	if address != "" {
		settings.Index.Address = address
	}

	if err := settings.Index.Validate(); err != nil {
		return err
	}
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidConfig, provider)
	}

	// Validate provider supports embeddings
	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidConfig, provider)
	}

	// Validate API key if required, allowing the environment to supply it
	if provider.RequiresAPIKey() && apiKey == "" && apiKeyFromEnv(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidConfig, provider)
	}

	settings := s.stored()
	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Local providers need a base URL; cloud providers use their fixed endpoint
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidConfig, provider)
	}

	// Validate API key if required, allowing the environment to supply it
	if provider.RequiresAPIKey() && apiKey == "" && apiKeyFromEnv(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidConfig, provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	// Local providers need a base URL; cloud providers use their fixed endpoint
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetDocumentPath updates the default document to ingest.
func (s *SettingsService) SetDocumentPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: document path required", domain.ErrInvalidConfig)
	}
	return s.configStore.Set(keyDocumentPath, path)
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	val := s.configStore.GetString(keyIndexBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.IndexBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// apiKeyFromEnv returns the conventional environment API key for cloud
// providers, empty for local ones.
func apiKeyFromEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicKey)
	default:
		return ""
	}
}
