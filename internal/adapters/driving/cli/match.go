package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

var (
	matchCatalogPath string
	matchJSON        bool
)

var matchCmd = &cobra.Command{
	Use:   "match [query]",
	Short: "Recommend a product for a query",
	Long: `Detects the intent of a free-text query, keeps the catalog products whose
category matches it and returns the product whose name is most similar to the query.

Uses the current catalog unless --catalog is given. If no catalog has been
loaded yet, the configured catalog.path is loaded first.`,
	Example: `  intentmatch match "i need a gaming laptop"
  intentmatch match --catalog products.csv "running shoes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchCatalogPath, "catalog", "c", "", "load this catalog before matching")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchService == nil {
		return errMatchServiceMissing
	}
	query := strings.Join(args, " ")
	ctx := commandContext(cmd)

	var (
		result *domain.MatchResult
		err    error
	)
	if matchCatalogPath != "" {
		result, err = matchWithCatalog(ctx, query, matchCatalogPath)
	} else {
		result, err = matchService.Match(ctx, query)
		if errors.Is(err, domain.ErrCatalogNotLoaded) {
			if path := configuredCatalogPath(); path != "" {
				result, err = matchWithCatalog(ctx, query, path)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchJSON {
		return outputMatchJSON(cmd, result)
	}
	outputMatchText(cmd, result)
	return nil
}

func matchWithCatalog(ctx context.Context, query, path string) (*domain.MatchResult, error) {
	if catalogService == nil {
		return nil, errCatalogServiceMissing
	}
	catalog, err := catalogService.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return matchService.MatchCatalog(ctx, query, catalog)
}

func configuredCatalogPath() string {
	if settingsService == nil {
		return ""
	}
	settings, err := settingsService.Get()
	if err != nil || settings == nil {
		return ""
	}
	return settings.Catalog.Path
}

// matchOutput is the JSON shape of a match result.
type matchOutput struct {
	Query      string         `json:"query"`
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Mode       string         `json:"mode"`
	Candidates int            `json:"candidates"`
	Found      bool           `json:"found"`
	Score      float64        `json:"score,omitempty"`
	Product    *productOutput `json:"product,omitempty"`
}

type productOutput struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Brand      string            `json:"brand,omitempty"`
	Price      *float64          `json:"price,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	URL        string            `json:"url,omitempty"`
	Promotion  string            `json:"promotion,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func toMatchOutput(r *domain.MatchResult) matchOutput {
	out := matchOutput{
		Query:      r.Query,
		Intent:     r.Intent,
		Confidence: r.Confidence,
		Mode:       r.Mode.String(),
		Candidates: r.Candidates,
		Found:      r.Found(),
	}
	if r.Found() {
		p := r.Product
		out.Score = r.Score
		out.Product = &productOutput{
			ID:         p.ID,
			Name:       p.Name,
			Category:   p.Category,
			Brand:      p.Brand,
			Currency:   p.Currency,
			URL:        p.WebsiteURL,
			Promotion:  p.Promotion,
			Attributes: p.Attributes,
		}
		if p.HasPrice {
			price := p.PriceRetail
			out.Product.Price = &price
		}
	}
	return out
}

func outputMatchJSON(cmd *cobra.Command, result *domain.MatchResult) error {
	data, err := json.MarshalIndent(toMatchOutput(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchText(cmd *cobra.Command, result *domain.MatchResult) {
	cmd.Printf("Detected Intent: %s (confidence %.2f)\n", result.Intent, result.Confidence)

	if !result.Found() {
		cmd.Printf("No products found for the intent: %s\n", result.Intent)
		return
	}

	p := result.Product
	cmd.Println("Best Match:")
	cmd.Printf("  Product Name: %s\n", p.Name)
	cmd.Printf("  Category:     %s\n", p.Category)
	cmd.Printf("  Brand:        %s\n", valueOrNA(p.Brand))
	cmd.Printf("  Price:        %s\n", p.PriceLabel())
	cmd.Printf("  Product URL:  %s\n", valueOrNA(p.WebsiteURL))
	cmd.Printf("  Promotion:    %s\n", p.Promotion)
	cmd.Printf("  Similarity:   %.4f (%d candidates, %s mode)\n", result.Score, result.Candidates, result.Mode)
}

func valueOrNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
