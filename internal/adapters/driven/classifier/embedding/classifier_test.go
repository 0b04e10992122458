package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// mapEmbedder returns fixed vectors per text and counts batch calls.
type mapEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	batches [][]string
	err     error
	model   string
}

func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vectors[text], nil
}

func (m *mapEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectors[t]
	}
	return out, nil
}

func (m *mapEmbedder) Dimensions() int              { return 2 }
func (m *mapEmbedder) ModelName() string            { return m.model }
func (m *mapEmbedder) Ping(_ context.Context) error { return nil }
func (m *mapEmbedder) Close() error                 { return nil }

func kitchenEmbedder() *mapEmbedder {
	return &mapEmbedder{
		model: "test-model",
		vectors: map[string][]float32{
			"this product is for kitchen": {1, 0},
			"this product is for garden":  {0, 1},
			"i need a blender":            {0.9, 0.1},
		},
	}
}

func TestClassify_PicksClosestHypothesis(t *testing.T) {
	c := New(kitchenEmbedder(), Config{})

	got, err := c.Classify(context.Background(), "i need a blender", []string{"garden", "kitchen"})
	require.NoError(t, err)

	assert.Equal(t, "kitchen", got.Label)
	assert.Greater(t, got.Confidence, 0.9)
	assert.Len(t, got.Scores, 2)
	assert.InDelta(t, 1.0, got.Scores["kitchen"]+got.Scores["garden"], 1e-9)
}

func TestClassify_CachesLabelVectors(t *testing.T) {
	emb := kitchenEmbedder()
	c := New(emb, Config{})

	_, err := c.Classify(context.Background(), "i need a blender", []string{"kitchen"})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "i need a blender", []string{"kitchen", "garden"})
	require.NoError(t, err)

	require.Len(t, emb.batches, 2)
	assert.Equal(t, []string{"this product is for kitchen"}, emb.batches[0])
	assert.Equal(t, []string{"this product is for garden"}, emb.batches[1])

	require.NoError(t, c.Close())
	_, err = c.Classify(context.Background(), "i need a blender", []string{"kitchen"})
	require.NoError(t, err)
	assert.Len(t, emb.batches, 3)
}

func TestClassify_TieGoesToFirstLabel(t *testing.T) {
	emb := &mapEmbedder{
		model: "m",
		vectors: map[string][]float32{
			"this product is for a": {1, 1},
			"this product is for b": {1, 1},
			"q":                     {1, 0},
		},
	}
	c := New(emb, Config{})

	got, err := c.Classify(context.Background(), "q", []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, "b", got.Label)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestClassify_CustomHypothesis(t *testing.T) {
	emb := &mapEmbedder{
		model: "m",
		vectors: map[string][]float32{
			"shopping for kitchen": {1, 0},
			"q":                    {1, 0},
		},
	}
	c := New(emb, Config{Hypothesis: "shopping for %s"})

	got, err := c.Classify(context.Background(), "q", []string{"kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got.Label)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
}

func TestClassify_Errors(t *testing.T) {
	t.Run("no labels", func(t *testing.T) {
		_, err := New(kitchenEmbedder(), Config{}).Classify(context.Background(), "q", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := New(nil, Config{}).Classify(context.Background(), "q", []string{"a"})
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("backend failure", func(t *testing.T) {
		emb := kitchenEmbedder()
		emb.err = errors.New("connection refused")
		_, err := New(emb, Config{}).Classify(context.Background(), "q", []string{"kitchen"})
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("empty label vector", func(t *testing.T) {
		_, err := New(kitchenEmbedder(), Config{}).Classify(context.Background(), "i need a blender", []string{"unknown"})
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("empty query vector", func(t *testing.T) {
		_, err := New(kitchenEmbedder(), Config{}).Classify(context.Background(), "unseen", []string{"kitchen"})
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float64{0.9, 0.1}, DefaultTemperature)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-12)
	assert.Greater(t, probs[0], 0.99)

	assert.Empty(t, softmax(nil, 1))
	assert.Equal(t, []float64{0.5, 0.5}, softmax([]float64{0.3, 0.3}, 1))
}

func TestName(t *testing.T) {
	assert.Equal(t, "embedding", New(nil, Config{}).Name())
}
