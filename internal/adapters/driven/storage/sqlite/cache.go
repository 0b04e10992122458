package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

// Get returns the cached vector for text under model.
func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	var (
		blob      []byte
		createdAt time.Time
	)
	err := c.store.db.QueryRowContext(ctx,
		"SELECT embedding, created_at FROM embedding_cache WHERE model = ? AND text = ?",
		model, text).Scan(&blob, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading embedding cache: %w", err)
	}
	if c.ttl > 0 && c.now().Sub(createdAt) > c.ttl {
		return nil, false, nil
	}
	return bytesToFloat32Slice(blob), true, nil
}

// Put stores the vector for text under model, replacing any previous entry.
func (c *embeddingCache) Put(ctx context.Context, model, text string, vector []float32) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO embedding_cache (model, text, embedding, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model, text) DO UPDATE SET
			embedding = excluded.embedding,
			created_at = excluded.created_at
	`, model, text, float32SliceToBytes(vector), c.now().UTC())
	if err != nil {
		return fmt.Errorf("writing embedding cache: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Store holds the connection.
func (c *embeddingCache) Close() error {
	return nil
}
