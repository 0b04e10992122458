package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

type cacheEntry struct {
	vector  []float32
	expires time.Time
}

// EmbeddingCache is a process-local embedding cache.
type EmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewEmbeddingCache creates a cache whose entries expire after ttl.
// A zero ttl keeps entries until Close.
func NewEmbeddingCache(ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(model, text string) string {
	return model + "\x00" + text
}

// Get returns the cached vector for text under model.
func (c *EmbeddingCache) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(model, text)]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, cacheKey(model, text))
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]float32(nil), entry.vector...), true, nil
}

// Put stores a copy of vector for text under model.
func (c *EmbeddingCache) Put(_ context.Context, model, text string, vector []float32) error {
	entry := cacheEntry{vector: append([]float32(nil), vector...)}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[cacheKey(model, text)] = entry
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached vectors, including expired ones not yet evicted.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *EmbeddingCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}
