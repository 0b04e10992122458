package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/services"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testCatalog(id string) *domain.Catalog {
	return &domain.Catalog{
		ID:             id,
		Source:         "products.csv",
		EmbeddingModel: "all-minilm",
		Dimensions:     3,
		Skipped:        1,
		LoadedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Products: []domain.Product{
			{
				ID: "row-0", Row: 0, Name: "stainless steel gas range", Category: "kitchen appliances",
				Brand: "acme", PriceRetail: 899.99, HasPrice: true, Currency: "usd",
				WebsiteURL: "https://shop.example/range", Promotion: "not promotion",
				Attributes: map[string]string{"COLOR": "silver"},
				Embedding:  []float32{0.1, -0.2, 0.3},
			},
			{
				ID: "row-1", Row: 1, Name: "front load washer", Category: "laundry",
				Promotion: "summer sale",
				Embedding: []float32{1, 0, 0},
			},
		},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := setupTestStore(t)
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestCatalogStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t).CatalogStore()
	want := testCatalog("cat-1")

	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.EmbeddingModel, got.EmbeddingModel)
	assert.Equal(t, want.Dimensions, got.Dimensions)
	assert.Equal(t, want.Skipped, got.Skipped)
	assert.True(t, want.LoadedAt.Equal(got.LoadedAt))
	require.Len(t, got.Products, 2)
	assert.Equal(t, want.Products[0], got.Products[0])
	assert.False(t, got.Products[1].HasPrice)
	assert.Nil(t, got.Products[1].Attributes)
	assert.Equal(t, want.Products[1].Embedding, got.Products[1].Embedding)
	assert.True(t, got.Enriched())
}

func TestCatalogStore_LoadEmpty(t *testing.T) {
	_, err := setupTestStore(t).CatalogStore().Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	store := s.CatalogStore()

	require.NoError(t, store.Save(ctx, testCatalog("old")))
	require.NoError(t, store.Save(ctx, testCatalog("new")))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
	assert.Len(t, got.Products, 2)
	assertStoredRows(t, s, 1, 2)
}

func TestCatalogStore_ResaveSameID(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	store := s.CatalogStore()

	require.NoError(t, store.Save(ctx, testCatalog("cat-1")))
	require.NoError(t, store.Save(ctx, testCatalog("cat-1")))

	assertStoredRows(t, s, 1, 2)
}

// Each CLI run builds a fresh CatalogService over the same database.
func TestCatalogStore_ReloadsAcrossServices(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for i := 0; i < 3; i++ {
		svc := services.NewCatalogService(stubReader{}, s.CatalogStore(), stubEmbedder{}, services.CatalogConfig{})
		_, err := svc.Load(ctx, "products.csv")
		require.NoError(t, err)
	}

	assertStoredRows(t, s, 1, 2)

	restored, err := services.NewCatalogService(stubReader{}, s.CatalogStore(), stubEmbedder{}, services.CatalogConfig{}).
		Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())
}

func assertStoredRows(t *testing.T, s *Store, catalogs, products int) {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM catalogs").Scan(&n))
	assert.Equal(t, catalogs, n, "catalogs")
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&n))
	assert.Equal(t, products, n, "products")
}

type stubReader struct{}

func (stubReader) Read(_ context.Context, _ string) (*domain.Table, error) {
	return &domain.Table{
		Columns: []string{domain.ColumnProductName, domain.ColumnCategory},
		Rows: [][]string{
			{"Electric Kettle", "Kitchen"},
			{"Gaming Laptop", "Electronics"},
		},
	}, nil
}

type stubEmbedder struct{}

func (e stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int              { return 2 }
func (stubEmbedder) ModelName() string            { return "stub" }
func (stubEmbedder) Ping(_ context.Context) error { return nil }
func (stubEmbedder) Close() error                 { return nil }

func TestCatalogStore_SaveInvalid(t *testing.T) {
	err := setupTestStore(t).CatalogStore().Save(context.Background(), &domain.Catalog{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbeddingCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := setupTestStore(t).EmbeddingCache(0)

	_, ok, err := cache.Get(ctx, "all-minilm", "gas range")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "all-minilm", "gas range", []float32{0.5, -1.25}))
	require.NoError(t, cache.Put(ctx, "all-minilm", "gas range", []float32{0.25, 2}))

	got, ok, err := cache.Get(ctx, "all-minilm", "gas range")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.25, 2}, got)

	_, ok, err = cache.Get(ctx, "nomic-embed-text", "gas range")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, cache.Close())
}

func TestEmbeddingCache_TTL(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	cache := &embeddingCache{store: s, ttl: time.Hour, now: time.Now}

	require.NoError(t, cache.Put(ctx, "m", "kettle", []float32{1}))

	_, ok, err := cache.Get(ctx, "m", "kettle")
	require.NoError(t, err)
	assert.True(t, ok)

	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, ok, err = cache.Get(ctx, "m", "kettle")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFloat32Codec(t *testing.T) {
	in := []float32{0, 1.5, -3.25, 1e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
