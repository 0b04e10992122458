package services

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure CachedEmbeddingService implements the interface.
var _ driven.EmbeddingService = (*CachedEmbeddingService)(nil)

// CachedEmbeddingService decorates an embedding service with a vector cache
// keyed by model name and text. Cache failures degrade to a miss.
type CachedEmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// NewCachedEmbeddingService wraps inner with cache.
// A nil cache returns inner unchanged.
func NewCachedEmbeddingService(inner driven.EmbeddingService, cache driven.EmbeddingCache) driven.EmbeddingService {
	if cache == nil {
		return inner
	}
	return &CachedEmbeddingService{inner: inner, cache: cache}
}

// Embed generates or recalls the embedding for text.
func (s *CachedEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch recalls cached vectors and embeds only the misses, in one request.
func (s *CachedEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := s.inner.ModelName()
	results := make([][]float32, len(texts))

	var (
		missTexts []string
		missIndex []int
	)
	for i, text := range texts {
		if v, ok, err := s.cache.Get(ctx, model, text); err == nil && ok && len(v) > 0 {
			results[i] = v
			continue
		}
		missTexts = append(missTexts, text)
		missIndex = append(missIndex, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, v := range vectors {
		if j >= len(missIndex) {
			break
		}
		results[missIndex[j]] = v
		if len(v) > 0 {
			_ = s.cache.Put(ctx, model, missTexts[j], v)
		}
	}

	// A short response leaves nil entries; the batch embedder rejects them.
	return results, nil
}

// Dimensions returns the inner service's dimensions.
func (s *CachedEmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service's model name.
func (s *CachedEmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the inner service.
func (s *CachedEmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the cache and the inner service.
func (s *CachedEmbeddingService) Close() error {
	cacheErr := s.cache.Close()
	if err := s.inner.Close(); err != nil {
		return err
	}
	return cacheErr
}
