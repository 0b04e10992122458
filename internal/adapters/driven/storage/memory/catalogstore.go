package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore keeps the catalog in process memory.
// The catalog is stored by pointer and must not be mutated after Save.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog *domain.Catalog
}

// NewCatalogStore creates an empty in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// Save replaces the stored catalog.
func (s *CatalogStore) Save(_ context.Context, catalog *domain.Catalog) error {
	if catalog == nil || catalog.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
	return nil
}

// Load returns the stored catalog.
func (s *CatalogStore) Load(_ context.Context) (*domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, domain.ErrNotFound
	}
	return s.catalog, nil
}
