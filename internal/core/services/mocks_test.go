package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// --- Fake implementations ---

const fakeDims = 8

// fakeEmbedder implements driven.EmbeddingService deterministically.
// Texts listed in fixed get that vector; anything else is a bag of hashed words.
type fakeEmbedder struct {
	mu       sync.Mutex
	fixed    map[string][]float32
	model    string
	err      error
	calls    int
	batches  [][]string
	shortBy  int
	closed   bool
	pingErr  error
	override func(text string) []float32
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{fixed: map[string][]float32{}, model: "fake-minilm"}
}

func (f *fakeEmbedder) vector(text string) []float32 {
	if f.override != nil {
		if v := f.override(text); v != nil {
			return v
		}
	}
	if v, ok := f.fixed[text]; ok {
		return v
	}
	v := make([]float32, fakeDims)
	for _, word := range strings.Fields(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[h.Sum32()%fakeDims]++
	}
	return v
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, f.vector(t))
	}
	if f.shortBy > 0 && len(out) >= f.shortBy {
		out = out[:len(out)-f.shortBy]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return fakeDims }
func (f *fakeEmbedder) ModelName() string { return f.model }

func (f *fakeEmbedder) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeEmbedder) Close() error {
	f.closed = true
	return nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClassifier implements driven.IntentClassifier with a fixed verdict.
type fakeClassifier struct {
	mu         sync.Mutex
	label      string
	confidence float64
	err        error
	gotLabels  []string
	gotText    string
}

func (c *fakeClassifier) Classify(_ context.Context, text string, labels []string) (domain.Classification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gotText = text
	c.gotLabels = append([]string(nil), labels...)
	if c.err != nil {
		return domain.Classification{}, c.err
	}
	return domain.Classification{Label: c.label, Confidence: c.confidence}, nil
}

func (c *fakeClassifier) Name() string { return "fake" }
func (c *fakeClassifier) Close() error { return nil }

// fakeReader implements driven.CatalogReader over an in-memory table.
type fakeReader struct {
	table *domain.Table
	err   error
}

func (r *fakeReader) Read(_ context.Context, _ string) (*domain.Table, error) {
	return r.table, r.err
}

// fakeCatalogStore implements driven.CatalogStore in memory.
type fakeCatalogStore struct {
	current *domain.Catalog
	saved   int
	saveErr error
}

func (s *fakeCatalogStore) Save(_ context.Context, c *domain.Catalog) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved++
	s.current = c
	return nil
}

func (s *fakeCatalogStore) Load(_ context.Context) (*domain.Catalog, error) {
	if s.current == nil {
		return nil, domain.ErrNotFound
	}
	return s.current, nil
}

// fakeCache implements driven.EmbeddingCache in memory.
type fakeCache struct {
	entries map[string][]float32
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]float32{}}
}

func (c *fakeCache) Get(_ context.Context, model, text string) ([]float32, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[model+"\x00"+text]
	return v, ok, nil
}

func (c *fakeCache) Put(_ context.Context, model, text string, v []float32) error {
	c.entries[model+"\x00"+text] = v
	return nil
}

func (c *fakeCache) Close() error { return nil }

var (
	_ driven.EmbeddingService = (*fakeEmbedder)(nil)
	_ driven.IntentClassifier = (*fakeClassifier)(nil)
	_ driven.CatalogReader    = (*fakeReader)(nil)
	_ driven.CatalogStore     = (*fakeCatalogStore)(nil)
	_ driven.EmbeddingCache   = (*fakeCache)(nil)
)

// kitchenTable is a small catalog in the raw scraped shape.
func kitchenTable() *domain.Table {
	return &domain.Table{
		Columns: []string{"PRODUCT_NAME", "CATEGORY", "BRAND", "PRICE_RETAIL", "CURRENCY",
			"WEBSITE_URL", "PROMOTION", "SKU", "SELLER", "COLOR"},
		Rows: [][]string{
			{"Stainless Steel Gas Range", "Kitchen Appliances ", "Acme", "899.99", "USD",
				"https://shop.example/range", "", "SKU-1", "Store A", "Silver"},
			{"Compact Microwave Oven", "kitchen appliances", "Zap", "129", "USD",
				"https://shop.example/microwave", "Summer Sale", "SKU-2", "Store B", "Black"},
			{"Front Load Washer", "Laundry", "Suds", "n/a", "USD",
				"https://shop.example/washer", "", "SKU-3", "Store A", "White"},
			{"", "laundry", "Ghost", "1", "USD", "", "", "SKU-4", "Store C", ""},
		},
	}
}
