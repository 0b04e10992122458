package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCatalogPath       = "catalog.path"
	keyCatalogBatchSize  = "catalog.batch_size"
	keyCatalogWorkers    = "catalog.workers"
	keyCatalogDelimiter  = "catalog.delimiter"
	keyCatalogDrop       = "catalog.drop_columns"
	keyCatalogPromotion  = "catalog.default_promotion"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyClassifierKind    = "classifier.strategy"
	keyClassifierFloor   = "classifier.confidence_floor"
	keyMatchMode         = "match.mode"
	keyMatchTaxonomy     = "match.taxonomy"
	keyModelTimeout      = "model.timeout_seconds"
	keyCacheBackend      = "cache.backend"
	keyCacheRedisAddr    = "cache.redis_addr"
	keyCacheRedisPass    = "cache.redis_password"
	keyCacheRedisDB      = "cache.redis_db"
	keyCacheTTLHours     = "cache.ttl_hours"
	envOpenAIAPIKey      = "OPENAI_API_KEY"
	envAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// SettingsService manages application settings.
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

// Get retrieves current application settings.
// API keys missing from the config file fall back to OPENAI_API_KEY and
// ANTHROPIC_API_KEY from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Catalog: domain.CatalogSettings{
			Path:             s.configStore.GetString(keyCatalogPath),
			Delimiter:        s.getString(keyCatalogDelimiter, defaults.Catalog.Delimiter),
			BatchSize:        s.getInt(keyCatalogBatchSize, defaults.Catalog.BatchSize),
			Workers:          s.getInt(keyCatalogWorkers, defaults.Catalog.Workers),
			DropColumns:      s.getStringSlice(keyCatalogDrop, defaults.Catalog.DropColumns),
			DefaultPromotion: s.getString(keyCatalogPromotion, defaults.Catalog.DefaultPromotion),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat64(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Classifier: domain.ClassifierSettings{
			Strategy:        s.getStrategy(defaults.Classifier.Strategy),
			ConfidenceFloor: s.getFloat(keyClassifierFloor, defaults.Classifier.ConfidenceFloor),
		},
		Match: domain.MatchSettings{
			Mode:         s.getMatchMode(defaults.Match.Mode),
			Taxonomy:     s.getTaxonomy(),
			ModelTimeout: s.getSeconds(keyModelTimeout, defaults.Match.ModelTimeout),
		},
		Cache: domain.CacheSettings{
			Backend:       s.getCacheBackend(defaults.Cache.Backend),
			RedisAddr:     s.configStore.GetString(keyCacheRedisAddr),
			RedisPassword: s.configStore.GetString(keyCacheRedisPass),
			RedisDB:       s.configStore.GetInt(keyCacheRedisDB),
			TTL:           time.Duration(s.configStore.GetFloat64(keyCacheTTLHours) * float64(time.Hour)),
		},
	}

	// The embedded Ollama base URL is only meaningful for local providers.
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = defaults.Embedding.BaseURL
	}

	settings.Embedding.APIKey = apiKeyFromEnv(settings.Embedding.Provider, settings.Embedding.APIKey)
	settings.LLM.APIKey = apiKeyFromEnv(settings.LLM.Provider, settings.LLM.APIKey)

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCatalogPath, settings.Catalog.Path},
		{keyCatalogDelimiter, settings.Catalog.Delimiter},
		{keyCatalogBatchSize, settings.Catalog.BatchSize},
		{keyCatalogWorkers, settings.Catalog.Workers},
		{keyCatalogDrop, settings.Catalog.DropColumns},
		{keyCatalogPromotion, settings.Catalog.DefaultPromotion},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyClassifierKind, settings.Classifier.Strategy.String()},
		{keyClassifierFloor, settings.Classifier.ConfidenceFloor},
		{keyMatchMode, settings.Match.Mode.String()},
		{keyModelTimeout, int(settings.Match.ModelTimeout / time.Second)},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheRedisAddr, settings.Cache.RedisAddr},
		{keyCacheRedisDB, settings.Cache.RedisDB},
		{keyCacheTTLHours, settings.Cache.TTL.Hours()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyCacheRedisPass, settings.Cache.RedisPassword},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	for intent, categories := range settings.Match.Taxonomy {
		if err := s.configStore.Set(keyMatchTaxonomy+"."+intent, categories); err != nil {
			return fmt.Errorf("save taxonomy %s: %w", intent, err)
		}
	}

	return nil
}

// SetMatchMode updates the match mode.
func (s *SettingsService) SetMatchMode(mode domain.MatchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: match mode %q", domain.ErrInvalidInput, mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Match.Mode = mode

	return s.Save(settings)
}

// SetClassifier updates the classifier strategy and confidence floor.
func (s *SettingsService) SetClassifier(strategy domain.ClassifierStrategy, floor float64) error {
	if !strategy.IsValid() {
		return fmt.Errorf("%w: classifier strategy %q", domain.ErrInvalidInput, strategy)
	}
	if floor < 0 || floor > 1 {
		return fmt.Errorf("%w: confidence floor %v outside [0, 1]", domain.ErrInvalidInput, floor)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Classifier.Strategy = strategy
	settings.Classifier.ConfidenceFloor = floor

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaBaseURL
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
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaBaseURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are valid for the configured strategy.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Match.Mode.IsValid() {
		return fmt.Errorf("invalid match mode: %s", settings.Match.Mode)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrModelUnavailable, settings.Embedding.Provider)
	}
	if settings.Classifier.Strategy.RequiresLLM() && !settings.LLM.IsConfigured() {
		return fmt.Errorf("classifier %q requires LLM provider to be configured: %w",
			settings.Classifier.Strategy.Description(), domain.ErrLLMUnavailable)
	}
	if settings.Cache.Backend == domain.CacheRedis && settings.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: cache backend redis requires %s", domain.ErrInvalidInput, keyCacheRedisAddr)
	}

	return nil
}

// RequiresLLM returns true if the configured classifier needs an LLM.
func (s *SettingsService) RequiresLLM() bool {
	settings, err := s.Get()
	if err != nil {
		return false
	}
	return settings.Classifier.Strategy.RequiresLLM()
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
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat64(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetFloat64(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val * float64(time.Second))
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
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

func (s *SettingsService) getStrategy(defaultVal domain.ClassifierStrategy) domain.ClassifierStrategy {
	strategy := domain.ClassifierStrategy(s.configStore.GetString(keyClassifierKind))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getMatchMode(defaultVal domain.MatchMode) domain.MatchMode {
	mode := domain.MatchMode(s.configStore.GetString(keyMatchMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	backend := domain.CacheBackend(s.configStore.GetString(keyCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// getTaxonomy collects match.taxonomy.<intent> = [categories] entries.
// Intents and categories are lowercased to match normalised catalog values.
func (s *SettingsService) getTaxonomy() domain.Taxonomy {
	taxonomy := domain.Taxonomy{}
	prefix := keyMatchTaxonomy + "."
	for _, key := range s.configStore.Keys(prefix) {
		intent := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, prefix)))
		if intent == "" {
			continue
		}
		var categories []string
		for _, c := range s.configStore.GetStringSlice(key) {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				categories = append(categories, c)
			}
		}
		taxonomy[intent] = categories
	}
	return taxonomy
}

func apiKeyFromEnv(provider domain.AIProvider, current string) string {
	if current != "" {
		return current
	}
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicAPIKey)
	default:
		return ""
	}
}
