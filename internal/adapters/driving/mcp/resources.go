package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for intentmatch resources.
	uriScheme = "intentmatch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Distinct product categories of the current catalog, usable as intents",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "Summary of the current catalog",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// Template for a single product.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "products/{productId}",
		Name:        "product",
		Description: "A single catalog product",
		MIMEType:    "application/json",
	}, s.handleProductResource)
}

// handleCategoriesResource returns the catalog categories.
// Without a catalog the list is empty.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := []string{}
	if s.ports.Catalog != nil {
		got, err := s.ports.Catalog.Categories(ctx)
		switch {
		case errors.Is(err, domain.ErrCatalogNotLoaded):
		case err != nil:
			return nil, fmt.Errorf("listing categories: %w", err)
		default:
			categories = append(categories, got...)
		}
	}
	return jsonResource(req.Params.URI, categories)
}

// handleCatalogResource returns the current catalog summary.
func (s *Server) handleCatalogResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	catalog, err := s.currentCatalog(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, catalog.Summary())
}

// handleProductResource returns a single product.
func (s *Server) handleProductResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract productId from URI: intentmatch://products/{productId}
	productID := extractProductID(req.Params.URI)
	if productID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	catalog, err := s.currentCatalog(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}
	product := catalog.Product(productID)
	if product == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, toProductOutput(product))
}

func (s *Server) currentCatalog(ctx context.Context, uri string) (*domain.Catalog, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	catalog, err := s.ports.Catalog.Current(ctx)
	if errors.Is(err, domain.ErrCatalogNotLoaded) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("getting catalog: %w", err)
	}
	return catalog, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProductID extracts the product ID from a URI like intentmatch://products/{productId}.
func extractProductID(uri string) string {
	const prefix = uriScheme + "products/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
