package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

func TestCatalogStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := &domain.Catalog{ID: "a"}
	second := &domain.Catalog{ID: "b"}
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestCatalogStore_SaveInvalid(t *testing.T) {
	store := NewCatalogStore()
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.Catalog{}), domain.ErrInvalidInput)
}
