package driven

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// CatalogReader reads raw tabular catalog data from a source path.
type CatalogReader interface {
	// Read loads the table at path. The first row is the header.
	// Unreadable or empty sources fail with domain.ErrData.
	Read(ctx context.Context, path string) (*domain.Table, error)
}

// CatalogStore persists the enriched catalog so embeddings survive restarts.
// The store holds one catalog: the most recently saved.
type CatalogStore interface {
	// Save stores the catalog and removes any other stored catalog.
	Save(ctx context.Context, catalog *domain.Catalog) error

	// Load returns the stored catalog.
	// Returns domain.ErrNotFound when nothing has been saved.
	Load(ctx context.Context) (*domain.Catalog, error)
}
