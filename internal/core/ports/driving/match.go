package driving

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// MatchService recommends a catalog product for a free-text query.
type MatchService interface {
	// Match resolves the query's intent and returns the most similar product
	// within it from the current catalog. A no-match is returned as a
	// MatchResult without a product, not as an error.
	Match(ctx context.Context, query string) (*domain.MatchResult, error)

	// MatchCatalog is Match over an explicit catalog.
	MatchCatalog(ctx context.Context, query string, catalog *domain.Catalog) (*domain.MatchResult, error)
}
