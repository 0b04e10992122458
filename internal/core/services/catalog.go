package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogConfig configures catalog loading.
type CatalogConfig struct {
	Normalise NormaliseOptions
	Batch     BatchEmbedderConfig
}

// CatalogService loads, enriches and publishes the product catalog.
// The published catalog is immutable; a reload swaps in a new one.
type CatalogService struct {
	reader   driven.CatalogReader
	store    driven.CatalogStore
	embedder driven.EmbeddingService
	batch    *BatchEmbedder
	opts     NormaliseOptions

	current  atomic.Pointer[domain.Catalog]
	restore  sync.Mutex
	loadLock sync.Mutex
}

// NewCatalogService creates a catalog service.
// store may be nil, in which case catalogs live only in memory.
func NewCatalogService(
	reader driven.CatalogReader,
	store driven.CatalogStore,
	embedder driven.EmbeddingService,
	cfg CatalogConfig,
) *CatalogService {
	if cfg.Normalise.DropColumns == nil {
		cfg.Normalise.DropColumns = domain.DefaultDroppedColumns()
	}
	if cfg.Normalise.DefaultPromotion == "" {
		cfg.Normalise.DefaultPromotion = domain.DefaultPromotion
	}
	return &CatalogService{
		reader:   reader,
		store:    store,
		embedder: embedder,
		batch:    NewBatchEmbedder(embedder, cfg.Batch),
		opts:     cfg.Normalise,
	}
}

// Load reads, normalises and embeds the catalog at path, persists it and
// publishes it as the current catalog.
func (s *CatalogService) Load(ctx context.Context, path string) (*domain.Catalog, error) {
	s.loadLock.Lock()
	defer s.loadLock.Unlock()

	if path == "" {
		return nil, fmt.Errorf("%w: catalog path is required", domain.ErrInvalidInput)
	}
	if s.reader == nil {
		return nil, fmt.Errorf("%w: no catalog reader configured", domain.ErrData)
	}

	table, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	products, skipped, err := Normalise(table, s.opts)
	if err != nil {
		return nil, fmt.Errorf("normalise catalog %s: %w", path, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s has no products with a name and category", domain.ErrData, path)
	}

	names := make([]string, len(products))
	for i := range products {
		names[i] = products[i].Name
	}
	vectors, err := s.batch.EmbedAll(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("embed catalog %s: %w", path, err)
	}
	for i := range products {
		products[i].Embedding = vectors[i]
	}

	catalog := &domain.Catalog{
		ID:             uuid.New().String(),
		Source:         path,
		Products:       products,
		EmbeddingModel: s.modelName(),
		Dimensions:     len(vectors[0]),
		Skipped:        skipped,
		LoadedAt:       time.Now(),
	}

	if s.store != nil {
		if err := s.store.Save(ctx, catalog); err != nil {
			return nil, fmt.Errorf("save catalog: %w", err)
		}
	}

	s.current.Store(catalog)
	return catalog, nil
}

// Current returns the published catalog, restoring it from the store on first use.
func (s *CatalogService) Current(ctx context.Context) (*domain.Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}

	s.restore.Lock()
	defer s.restore.Unlock()

	if c := s.current.Load(); c != nil {
		return c, nil
	}
	if s.store == nil {
		return nil, domain.ErrCatalogNotLoaded
	}

	c, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrCatalogNotLoaded
	}
	if err != nil {
		return nil, fmt.Errorf("restore catalog: %w", err)
	}

	if model := s.modelName(); model != "" && c.EmbeddingModel != model {
		return nil, fmt.Errorf("%w: catalog %s was embedded with %q, configured model is %q; reload the catalog",
			domain.ErrModelMismatch, c.Source, c.EmbeddingModel, model)
	}
	if !c.Enriched() {
		return nil, fmt.Errorf("%w: stored catalog %s is missing embeddings", domain.ErrData, c.ID)
	}

	s.current.Store(c)
	return c, nil
}

// Categories returns the distinct categories of the current catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	c, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

func (s *CatalogService) modelName() string {
	if s.embedder == nil {
		return ""
	}
	return s.embedder.ModelName()
}
