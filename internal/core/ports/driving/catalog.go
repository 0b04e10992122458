package driving

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// CatalogService loads and serves the product catalog.
type CatalogService interface {
	// Load reads, normalises and embeds the catalog at path, persists it and
	// publishes it as the current catalog.
	Load(ctx context.Context, path string) (*domain.Catalog, error)

	// Current returns the published catalog.
	// Returns domain.ErrCatalogNotLoaded when no catalog has been loaded.
	Current(ctx context.Context) (*domain.Catalog, error)

	// Categories returns the distinct categories of the current catalog.
	Categories(ctx context.Context) ([]string, error)
}
