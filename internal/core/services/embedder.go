package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// BatchEmbedderConfig configures a BatchEmbedder.
type BatchEmbedderConfig struct {
	// BatchSize is the number of texts per backend request.
	BatchSize int

	// Workers is the number of batches in flight at once.
	Workers int

	// RequestsPerSecond throttles batch requests. Zero disables throttling.
	RequestsPerSecond float64
}

// BatchEmbedder embeds long text lists in fixed-size batches.
// Results are identical to embedding the whole list in one request.
type BatchEmbedder struct {
	embedder  driven.EmbeddingService
	batchSize int
	workers   int
	limiter   *rate.Limiter
}

// NewBatchEmbedder creates a batch embedder over the given service.
// Zero config values fall back to domain.DefaultBatchSize and domain.DefaultWorkers.
func NewBatchEmbedder(embedder driven.EmbeddingService, cfg BatchEmbedderConfig) *BatchEmbedder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = domain.DefaultWorkers
	}

	b := &BatchEmbedder{
		embedder:  embedder,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
	}
	if cfg.RequestsPerSecond > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return b
}

// BatchSize returns the configured batch size.
func (b *BatchEmbedder) BatchSize() int {
	return b.batchSize
}

// EmbedAll returns one vector per text, in input order.
// Any backend failure, missing vector, empty vector or dimension mismatch
// fails the whole call with domain.ErrModelUnavailable.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if b.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}

	type batch struct {
		start, end int
	}
	var batches []batch
	for start := 0; start < len(texts); start += b.batchSize {
		batches = append(batches, batch{start: start, end: min(start+b.batchSize, len(texts))})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]float32, len(texts))
	jobs := make(chan batch)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workers := min(b.workers, len(batches))
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for job := range jobs {
				vectors, err := b.embedBatch(ctx, texts[job.start:job.end])
				if err != nil {
					fail(fmt.Errorf("batch %d-%d: %w", job.start, job.end, err))
					continue
				}
				copy(results[job.start:job.end], vectors)
			}
		}()
	}

dispatch:
	for _, job := range batches {
		select {
		case jobs <- job:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	if err := checkDimensions(results); err != nil {
		return nil, err
	}
	return results, nil
}

// EmbedOne embeds a single text, applying the same validation as EmbedAll.
func (b *BatchEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := b.EmbedAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (b *BatchEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit: %w", domain.ErrModelUnavailable, err)
		}
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: backend returned %d vectors for %d texts",
			domain.ErrModelUnavailable, len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector for text %d", domain.ErrModelUnavailable, i)
		}
	}
	return vectors, nil
}

// checkDimensions verifies all vectors share one length.
func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: missing vector for text %d", domain.ErrModelUnavailable, i)
		}
		if len(v) != dims {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrModelUnavailable, i, len(v), dims)
		}
	}
	return nil
}
