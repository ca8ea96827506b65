package domain

import "fmt"

const unknownDescription = "Unknown"

// Pipeline defaults mirror the reference deployment: 1000-char chunks
// with 150 chars of overlap, ten entries per retrieval.
const (
	// DefaultChunkMaxChars is the default maximum chunk length.
	DefaultChunkMaxChars = 1000

	// DefaultChunkOverlap is the default overlap between consecutive chunks.
	DefaultChunkOverlap = 150

	// DefaultTopK is the default number of entries retrieved per question.
	DefaultTopK = 10

	// DefaultCollection is the default vector collection name.
	DefaultCollection = "pdf_chunks"

	// DefaultRefusalSentence is what the model must answer, verbatim,
	// when the context does not contain the requested information.
	DefaultRefusalSentence = "Não tenho informações necessárias para responder sua pergunta."
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies where the vector collection is stored.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory keeps the collection in process memory.
	// Nothing survives exit; useful for tests and one-off runs.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendSQLite stores the collection in a local SQLite file.
	// Exact cosine scoring with deterministic ordering.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendMilvus stores the collection on a Milvus server.
	// Approximate nearest-neighbour search; ordering of equal scores
	// is not guaranteed.
	IndexBackendMilvus IndexBackend = "milvus"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendMemory, IndexBackendSQLite, IndexBackendMilvus:
		return true
	default:
		return false
	}
}

// IsEmbedded returns true if this backend runs inside the process.
func (b IndexBackend) IsEmbedded() bool {
	return b == IndexBackendMemory || b == IndexBackendSQLite
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendMemory:
		return "Memory (ephemeral, exact)"
	case IndexBackendSQLite:
		return "SQLite (local file, exact)"
	case IndexBackendMilvus:
		return "Milvus (server, approximate)"
	default:
		return unknownDescription
	}
}

// ChunkingSettings holds document splitting configuration.
type ChunkingSettings struct {
	// MaxChars is the maximum chunk length in characters.
	MaxChars int

	// OverlapChars is how far each chunk reaches back into the
	// previous one. Must be positive and smaller than MaxChars.
	OverlapChars int
}

// Validate checks the splitting parameters.
func (c ChunkingSettings) Validate() error {
	if c.MaxChars <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.MaxChars)
	}
	if c.OverlapChars <= 0 {
		return fmt.Errorf("%w: chunk overlap must be positive, got %d", ErrInvalidConfig, c.OverlapChars)
	}
	if c.OverlapChars >= c.MaxChars {
		return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidConfig, c.OverlapChars, c.MaxChars)
	}
	return nil
}

// RetrievalSettings holds similarity search configuration.
type RetrievalSettings struct {
	// TopK is how many entries each question retrieves.
	TopK int
}

// Validate checks the retrieval parameters.
func (r RetrievalSettings) Validate() error {
	if r.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive, got %d", ErrInvalidConfig, r.TopK)
	}
	return nil
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Backend selects where the collection lives.
	Backend IndexBackend

	// Collection is the collection name.
	Collection string

	// DataDir is the directory for embedded backends. Empty means the
	// application data directory.
	DataDir string

	// Address is the server address for the Milvus backend.
	Address string
}

// Validate checks the index parameters.
func (i IndexSettings) Validate() error {
	if !i.Backend.IsValid() {
		return fmt.Errorf("%w: unknown index backend %q", ErrInvalidConfig, i.Backend)
	}
	if i.Collection == "" {
		return fmt.Errorf("%w: collection name required", ErrInvalidConfig)
	}
	if i.Backend == IndexBackendMilvus && i.Address == "" {
		return fmt.Errorf("%w: milvus backend requires an address", ErrInvalidConfig)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AnswerSettings holds answer generation configuration.
type AnswerSettings struct {
	// RefusalSentence is the exact sentence the model must produce
	// when the answer is not in the context. Output equal to it,
	// byte for byte, marks the answer as not grounded.
	RefusalSentence string
}

// Validate checks the answer parameters.
func (a AnswerSettings) Validate() error {
	if a.RefusalSentence == "" {
		return fmt.Errorf("%w: refusal sentence required", ErrInvalidConfig)
	}
	return nil
}

// DocumentSettings holds the default ingestion source.
type DocumentSettings struct {
	// Path is the document ingested when no path is given on the
	// command line.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chunking holds document splitting settings.
	Chunking ChunkingSettings

	// Retrieval holds similarity search settings.
	Retrieval RetrievalSettings

	// Index holds vector index settings.
	Index IndexSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Answer holds answer generation settings.
	Answer AnswerSettings

	// Document holds the default ingestion source.
	Document DocumentSettings
}

// Validate checks the whole configuration. The first failure wins;
// all failures wrap ErrInvalidConfig.
func (s AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if err := s.Retrieval.Validate(); err != nil {
		return err
	}
	if err := s.Index.Validate(); err != nil {
		return err
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfig, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", ErrInvalidConfig, s.LLM.Provider)
	}
	return s.Answer.Validate()
}

// DefaultAppSettings returns settings with sensible defaults.
// Cloud providers still need an API key, taken from the config file
// or the environment at wiring time.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			MaxChars:     DefaultChunkMaxChars,
			OverlapChars: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Index: IndexSettings{
			Backend:    IndexBackendSQLite,
			Collection: DefaultCollection,
			Address:    "localhost:19530",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-5-nano",
		},
		Answer: AnswerSettings{
			RefusalSentence: DefaultRefusalSentence,
		},
		Document: DocumentSettings{
			Path: "document.pdf",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllIndexBackends returns all available index backends.
func AllIndexBackends() []IndexBackend {
	return []IndexBackend{
		IndexBackendMemory,
		IndexBackendSQLite,
		IndexBackendMilvus,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-5-nano",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
