package mcp

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// mockMatchService is a mock implementation of driving.MatchService.
type mockMatchService struct {
	result *domain.MatchResult
	err    error
}

func (m *mockMatchService) Match(_ context.Context, query string) (*domain.MatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	r := *m.result
	r.Query = query
	return &r, nil
}

func (m *mockMatchService) MatchCatalog(
	ctx context.Context, query string, _ *domain.Catalog,
) (*domain.MatchResult, error) {
	return m.Match(ctx, query)
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	catalog *domain.Catalog
	err     error
}

func (m *mockCatalogService) Load(_ context.Context, _ string) (*domain.Catalog, error) {
	return m.catalog, m.err
}

func (m *mockCatalogService) Current(_ context.Context) (*domain.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.catalog == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return m.catalog, nil
}

func (m *mockCatalogService) Categories(ctx context.Context) ([]string, error) {
	c, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		ID:             "cat-1",
		Source:         "products.csv",
		EmbeddingModel: "all-minilm",
		Dimensions:     2,
		Products: []domain.Product{
			{ID: "row-0", Name: "electric kettle", Category: "kitchen", Brand: "acme",
				PriceRetail: 29.99, HasPrice: true, Currency: "usd", Promotion: domain.DefaultPromotion},
			{ID: "row-1", Name: "gaming laptop", Category: "electronics"},
		},
	}
}
