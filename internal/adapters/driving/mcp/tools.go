package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// MatchInput is the input schema for the match_product tool.
type MatchInput struct {
	Query string `json:"query" jsonschema:"free-text description of what the user is looking for"`
}

// MatchOutput is the output schema for the match_product tool.
type MatchOutput struct {
	Query      string         `json:"query"`
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Mode       string         `json:"mode"`
	Candidates int            `json:"candidates"`
	Found      bool           `json:"found"`
	Message    string         `json:"message,omitempty"`
	Score      float64        `json:"score,omitempty"`
	Product    *ProductOutput `json:"product,omitempty"`
}

// ProductOutput represents a catalog product.
type ProductOutput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	URL       string  `json:"url,omitempty"`
	Promotion string  `json:"promotion,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "match_product",
		Description: "Detect the intent of a shopping query and return the most similar " +
			"product from the catalog within that category",
	}, s.handleMatch)
}

// handleMatch handles the match_product tool invocation.
// A no-match is a successful result with found=false.
func (s *Server) handleMatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, MatchOutput, error) {
	result, err := s.ports.Match.Match(ctx, input.Query)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogNotLoaded) {
			return nil, MatchOutput{}, fmt.Errorf("no catalog loaded; run 'intentmatch catalog load <path>': %w", err)
		}
		return nil, MatchOutput{}, err
	}

	output := MatchOutput{
		Query:      result.Query,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Mode:       result.Mode.String(),
		Candidates: result.Candidates,
		Found:      result.Found(),
	}
	if !result.Found() {
		output.Message = "No products found for the intent: " + result.Intent
		return nil, output, nil
	}

	output.Score = result.Score
	product := toProductOutput(result.Product)
	output.Product = &product
	return nil, output, nil
}

func toProductOutput(p *domain.Product) ProductOutput {
	return ProductOutput{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Brand:     p.Brand,
		Price:     p.PriceRetail,
		Currency:  p.Currency,
		URL:       p.WebsiteURL,
		Promotion: p.Promotion,
	}
}
