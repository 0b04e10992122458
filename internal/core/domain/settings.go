package domain

import "time"

const unknownDescription = "Unknown"

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

// ClassifierStrategy selects the zero-shot intent classifier backend.
type ClassifierStrategy string

// Available classifier strategies.
const (
	// ClassifierEmbedding scores labels by embedding similarity to the query.
	ClassifierEmbedding ClassifierStrategy = "embedding"

	// ClassifierLLM asks a language model to pick a label.
	ClassifierLLM ClassifierStrategy = "llm"
)

// IsValid returns true if the strategy is recognised.
func (s ClassifierStrategy) IsValid() bool {
	return s == ClassifierEmbedding || s == ClassifierLLM
}

// RequiresLLM returns true if this strategy needs an LLM provider.
func (s ClassifierStrategy) RequiresLLM() bool {
	return s == ClassifierLLM
}

// String returns the string representation.
func (s ClassifierStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ClassifierStrategy) Description() string {
	switch s {
	case ClassifierEmbedding:
		return "Embedding (label similarity, no LLM needed)"
	case ClassifierLLM:
		return "LLM (prompted zero-shot)"
	default:
		return unknownDescription
	}
}

// AllClassifierStrategies returns all available classifier strategies.
func AllClassifierStrategies() []ClassifierStrategy {
	return []ClassifierStrategy{
		ClassifierEmbedding,
		ClassifierLLM,
	}
}

// CacheBackend selects where product name embeddings are cached.
type CacheBackend string

// Available cache backends.
const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
)

// IsValid returns true if the cache backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheNone, CacheMemory, CacheSQLite, CacheRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
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

	// RequestsPerSecond throttles batch requests. Zero disables throttling.
	RequestsPerSecond float64
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

// ClassifierSettings holds intent classifier configuration.
type ClassifierSettings struct {
	// Strategy selects the classifier backend.
	Strategy ClassifierStrategy

	// ConfidenceFloor is the minimum confidence for an intent to resolve.
	ConfidenceFloor float64
}

// MatchSettings holds matcher configuration.
type MatchSettings struct {
	// Mode selects how intents filter catalog rows.
	Mode MatchMode

	// Taxonomy maps intents to categories for MatchModeTaxonomy.
	Taxonomy Taxonomy

	// ModelTimeout bounds each embedding or classifier call.
	ModelTimeout time.Duration
}

// CatalogSettings holds catalog loading configuration.
type CatalogSettings struct {
	// Path is the default catalog file.
	Path string

	// Delimiter is the field separator of the catalog file.
	Delimiter string

	// BatchSize is the number of product names embedded per request.
	BatchSize int

	// Workers is the number of batches embedded concurrently.
	Workers int

	// DropColumns lists columns removed during normalisation.
	DropColumns []string

	// DefaultPromotion fills missing promotion values.
	DefaultPromotion string
}

// CacheSettings holds embedding cache configuration.
type CacheSettings struct {
	// Backend selects the cache implementation.
	Backend CacheBackend

	// RedisAddr is the redis host:port (for CacheRedis).
	RedisAddr string

	// RedisPassword is the redis password (for CacheRedis).
	RedisPassword string

	// RedisDB is the redis database number (for CacheRedis).
	RedisDB int

	// TTL expires cached vectors. Zero keeps them forever.
	TTL time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Catalog    CatalogSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Classifier ClassifierSettings
	Match      MatchSettings
	Cache      CacheSettings
}

// Defaults used when no configuration is present.
const (
	DefaultBatchSize       = 32
	DefaultWorkers         = 1
	DefaultDelimiter       = ","
	DefaultConfidenceFloor = 0.2
	DefaultModelTimeout    = 60 * time.Second
)

// DefaultAppSettings returns settings with sensible defaults.
// Embedding defaults to a local Ollama all-minilm model; LLM is left
// unconfigured and is only needed for the LLM classifier strategy.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Catalog: CatalogSettings{
			Delimiter:        DefaultDelimiter,
			BatchSize:        DefaultBatchSize,
			Workers:          DefaultWorkers,
			DropColumns:      DefaultDroppedColumns(),
			DefaultPromotion: DefaultPromotion,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:  "http://localhost:11434",
		},
		LLM: LLMSettings{},
		Classifier: ClassifierSettings{
			Strategy:        ClassifierEmbedding,
			ConfidenceFloor: DefaultConfidenceFloor,
		},
		Match: MatchSettings{
			Mode:         MatchModeSubstring,
			Taxonomy:     Taxonomy{},
			ModelTimeout: DefaultModelTimeout,
		},
		Cache: CacheSettings{
			Backend: CacheSQLite,
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

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
