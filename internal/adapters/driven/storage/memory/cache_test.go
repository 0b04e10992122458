package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(0)

	_, ok, err := cache.Get(ctx, "all-minilm", "gas range")
	require.NoError(t, err)
	assert.False(t, ok)

	vec := []float32{0.1, 0.2}
	require.NoError(t, cache.Put(ctx, "all-minilm", "gas range", vec))
	vec[0] = 9

	got, ok, err := cache.Get(ctx, "all-minilm", "gas range")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, got, "stored vector is a copy")

	_, ok, _ = cache.Get(ctx, "nomic-embed-text", "gas range")
	assert.False(t, ok, "keys are scoped by model")
}

func TestEmbeddingCache_TTL(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(time.Hour)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Put(ctx, "m", "kettle", []float32{1}))

	now = now.Add(30 * time.Minute)
	_, ok, _ := cache.Get(ctx, "m", "kettle")
	assert.True(t, ok)

	now = now.Add(time.Hour)
	_, ok, _ = cache.Get(ctx, "m", "kettle")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestEmbeddingCache_Close(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCache(0)
	require.NoError(t, cache.Put(ctx, "m", "kettle", []float32{1}))

	require.NoError(t, cache.Close())
	assert.Zero(t, cache.Len())
}
