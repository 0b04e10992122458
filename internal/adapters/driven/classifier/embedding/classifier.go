// Package embedding provides a zero-shot intent classifier backed by an
// embedding service.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.IntentClassifier = (*Classifier)(nil)

// Default configuration values.
const (
	DefaultHypothesis  = "this product is for %s"
	DefaultTemperature = 0.05
)

// Config holds configuration for the embedding classifier.
type Config struct {
	// Hypothesis is the sentence template embedded per label.
	// It must contain one %s placeholder (default: "this product is for %s").
	Hypothesis string

	// Temperature sharpens the softmax over cosine scores (default: 0.05).
	Temperature float64
}

// Classifier scores each candidate label by the cosine similarity between
// the query and a hypothesis sentence for that label.
type Classifier struct {
	embedder    driven.EmbeddingService
	hypothesis  string
	temperature float64

	mu     sync.RWMutex
	labels map[string][]float32
}

// New creates an embedding classifier.
func New(embedder driven.EmbeddingService, cfg Config) *Classifier {
	if cfg.Hypothesis == "" || !strings.Contains(cfg.Hypothesis, "%s") {
		cfg.Hypothesis = DefaultHypothesis
	}
	if cfg.Temperature <= 0 || math.IsNaN(cfg.Temperature) {
		cfg.Temperature = DefaultTemperature
	}
	return &Classifier{
		embedder:    embedder,
		hypothesis:  cfg.Hypothesis,
		temperature: cfg.Temperature,
		labels:      make(map[string][]float32),
	}
}

// Name identifies the classifier strategy.
func (c *Classifier) Name() string {
	return string(domain.ClassifierEmbedding)
}

// Classify returns the label whose hypothesis is closest to text.
// Ties go to the earlier label.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) (domain.Classification, error) {
	if len(labels) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: no labels", domain.ErrInvalidInput)
	}
	if c.embedder == nil {
		return domain.Classification{}, fmt.Errorf("%w: no embedding service", domain.ErrModelUnavailable)
	}

	vectors, err := c.labelVectors(ctx, labels)
	if err != nil {
		return domain.Classification{}, err
	}

	query, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: embed query: %w", domain.ErrModelUnavailable, err)
	}
	if len(query) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: empty query vector", domain.ErrModelUnavailable)
	}

	sims := make([]float64, len(labels))
	for i, v := range vectors {
		sims[i] = domain.CosineSimilarity(query, v)
	}
	probs := softmax(sims, c.temperature)

	best := 0
	scores := make(map[string]float64, len(labels))
	for i, label := range labels {
		scores[label] = probs[i]
		if probs[i] > probs[best] {
			best = i
		}
	}

	return domain.Classification{
		Label:      labels[best],
		Confidence: probs[best],
		Scores:     scores,
	}, nil
}

// labelVectors returns hypothesis vectors for labels, embedding only the
// ones not seen before under the current model.
func (c *Classifier) labelVectors(ctx context.Context, labels []string) ([][]float32, error) {
	model := c.embedder.ModelName()
	out := make([][]float32, len(labels))

	var missing []string
	var missingIdx []int
	c.mu.RLock()
	for i, label := range labels {
		if v, ok := c.labels[cacheKey(model, label)]; ok {
			out[i] = v
			continue
		}
		missing = append(missing, fmt.Sprintf(c.hypothesis, label))
		missingIdx = append(missingIdx, i)
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.embedder.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("%w: embed labels: %w", domain.ErrModelUnavailable, err)
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("%w: got %d label vectors for %d labels",
			domain.ErrModelUnavailable, len(vecs), len(missing))
	}

	c.mu.Lock()
	for j, i := range missingIdx {
		if len(vecs[j]) == 0 {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: empty vector for label %q", domain.ErrModelUnavailable, labels[i])
		}
		out[i] = vecs[j]
		c.labels[cacheKey(model, labels[i])] = vecs[j]
	}
	c.mu.Unlock()

	return out, nil
}

// Close drops cached label vectors. The embedding service is owned by the caller.
func (c *Classifier) Close() error {
	c.mu.Lock()
	c.labels = make(map[string][]float32)
	c.mu.Unlock()
	return nil
}

func cacheKey(model, label string) string {
	return model + "\x00" + label
}

// softmax normalises scores at temperature t.
func softmax(scores []float64, t float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	peak := scores[0]
	for _, s := range scores[1:] {
		if s > peak {
			peak = s
		}
	}

	var sum float64
	for i, s := range scores {
		out[i] = math.Exp((s - peak) / t)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
