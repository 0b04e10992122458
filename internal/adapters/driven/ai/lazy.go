package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
	"github.com/custodia-labs/intentmatch/internal/logger"
)

// Ensure the lazy services implement the interfaces.
var (
	_ driven.EmbeddingService = (*LazyEmbeddingService)(nil)
	_ driven.LLMService       = (*LazyLLMService)(nil)
)

// LazyEmbeddingService defers constructing and pinging the embedding backend
// until the first embedding request. The backend is then reused for the life
// of the process; Close tears it down.
//
// ModelName and Dimensions answer from settings until the backend exists, so
// callers can compare models without touching the network.
type LazyEmbeddingService struct {
	settings domain.EmbeddingSettings
	create   func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)

	once sync.Once
	mu   sync.RWMutex
	svc  driven.EmbeddingService
	err  error
}

// NewLazyEmbeddingService creates a lazy embedding service for settings.
func NewLazyEmbeddingService(settings domain.EmbeddingSettings) *LazyEmbeddingService {
	if settings.Model == "" {
		settings.Model = domain.DefaultEmbeddingModels()[settings.Provider]
	}
	return &LazyEmbeddingService{
		settings: settings,
		create:   CreateAndValidateEmbeddingService,
	}
}

// backend returns the connected service, creating it on first call.
// A failed first attempt is remembered; the process must be restarted
// after fixing the configuration.
func (s *LazyEmbeddingService) backend() (driven.EmbeddingService, error) {
	s.once.Do(func() {
		logger.Debug("connecting to %s embedding model %s", s.settings.Provider, s.settings.Model)
		svc, err := s.create(&s.settings)
		if err == nil && svc == nil {
			err = fmt.Errorf("%w: embedding provider not configured", domain.ErrModelUnavailable)
		}
		s.mu.Lock()
		s.svc, s.err = svc, err
		s.mu.Unlock()
		if err != nil {
			logger.Warn("embedding backend unavailable: %v", err)
		}
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.svc, s.err
}

// Embed generates a vector embedding for the given text.
func (s *LazyEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	svc, err := s.backend()
	if err != nil {
		return nil, err
	}
	return svc.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts.
func (s *LazyEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	svc, err := s.backend()
	if err != nil {
		return nil, err
	}
	return svc.EmbedBatch(ctx, texts)
}

// Dimensions returns the backend's vector size, or the known size of the
// configured model before the backend exists (0 when unknown).
func (s *LazyEmbeddingService) Dimensions() int {
	s.mu.RLock()
	svc := s.svc
	s.mu.RUnlock()
	if svc != nil {
		return svc.Dimensions()
	}
	return domain.EmbeddingDimensions()[s.settings.Model]
}

// ModelName returns the configured embedding model.
func (s *LazyEmbeddingService) ModelName() string {
	return s.settings.Model
}

// Ping connects to the backend if needed.
func (s *LazyEmbeddingService) Ping(ctx context.Context) error {
	svc, err := s.backend()
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the backend if it was created.
func (s *LazyEmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil
	}
	return s.svc.Close()
}

// LazyLLMService defers constructing and pinging the LLM backend until the
// first request.
type LazyLLMService struct {
	settings domain.LLMSettings
	create   func(*domain.LLMSettings) (driven.LLMService, error)

	once sync.Once
	mu   sync.RWMutex
	svc  driven.LLMService
	err  error
}

// NewLazyLLMService creates a lazy LLM service for settings.
func NewLazyLLMService(settings domain.LLMSettings) *LazyLLMService {
	if settings.Model == "" {
		settings.Model = domain.DefaultLLMModels()[settings.Provider]
	}
	return &LazyLLMService{
		settings: settings,
		create:   CreateAndValidateLLMService,
	}
}

func (s *LazyLLMService) backend() (driven.LLMService, error) {
	s.once.Do(func() {
		logger.Debug("connecting to %s LLM %s", s.settings.Provider, s.settings.Model)
		svc, err := s.create(&s.settings)
		if err == nil && svc == nil {
			err = domain.ErrLLMUnavailable
		}
		s.mu.Lock()
		s.svc, s.err = svc, err
		s.mu.Unlock()
		if err != nil {
			logger.Warn("LLM backend unavailable: %v", err)
		}
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.svc, s.err
}

// Chat conducts a multi-turn conversation.
func (s *LazyLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	svc, err := s.backend()
	if err != nil {
		return "", err
	}
	return svc.Chat(ctx, messages, opts)
}

// ModelName returns the configured LLM model.
func (s *LazyLLMService) ModelName() string {
	return s.settings.Model
}

// Ping connects to the backend if needed.
func (s *LazyLLMService) Ping(ctx context.Context) error {
	svc, err := s.backend()
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the backend if it was created.
func (s *LazyLLMService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil
	}
	return s.svc.Close()
}
