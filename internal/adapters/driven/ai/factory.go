// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	embedclassifier "github.com/custodia-labs/intentmatch/internal/adapters/driven/classifier/embedding"
	llmclassifier "github.com/custodia-labs/intentmatch/internal/adapters/driven/classifier/llm"
	ollamaembed "github.com/custodia-labs/intentmatch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/intentmatch/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/intentmatch/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/intentmatch/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/intentmatch/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the AI services built from application settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService // Lazy; connects on first use.
	LLMService       driven.LLMService       // Nil unless the classifier strategy needs it.
	Classifier       driven.IntentClassifier
	PromptStore      driven.PromptStore // User-customisable prompt templates.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Classifier != nil {
		r.Classifier.Close()
	}
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the embedding service, the optional LLM service and the
// intent classifier selected by settings. No network calls are made here:
// the backends are constructed and pinged on first use.
func Initialise(settings *domain.AppSettings, prompts driven.PromptStore) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider not configured. Run 'intentmatch settings embedding' to fix",
			domain.ErrModelUnavailable)
	}

	result := &InitResult{
		EmbeddingService: NewLazyEmbeddingService(settings.Embedding),
		PromptStore:      prompts,
	}

	if settings.Classifier.Strategy.RequiresLLM() && settings.LLM.IsConfigured() {
		result.LLMService = NewLazyLLMService(settings.LLM)
	}

	classifier, err := CreateClassifier(settings.Classifier.Strategy, result.EmbeddingService, result.LLMService, prompts)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.Classifier = classifier

	return result, nil
}

// CreateClassifier creates the zero-shot intent classifier for strategy.
func CreateClassifier(
	strategy domain.ClassifierStrategy,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
) (driven.IntentClassifier, error) {
	switch strategy {
	case domain.ClassifierEmbedding, "":
		if embedder == nil {
			return nil, fmt.Errorf("%w: embedding classifier needs an embedding service", domain.ErrModelUnavailable)
		}
		return embedclassifier.New(embedder, embedclassifier.Config{}), nil

	case domain.ClassifierLLM:
		if llm == nil {
			return nil, fmt.Errorf("%w: llm classifier needs an LLM provider. Run 'intentmatch settings llm' to fix",
				domain.ErrLLMUnavailable)
		}
		c := llmclassifier.New(llm)
		if prompts != nil {
			c.SetPromptStore(prompts)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: unknown classifier strategy %q", domain.ErrInvalidInput, strategy)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'intentmatch settings embedding' to fix",
			domain.ErrModelUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'intentmatch settings embedding' to fix",
			domain.ErrModelUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'intentmatch settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'intentmatch settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings commands to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrUnsupportedProvider)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
