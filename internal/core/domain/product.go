package domain

import "fmt"

// DefaultPromotion is the sentinel stored when a record has no promotion.
const DefaultPromotion = "not promotion"

// Product is one normalised catalog entry.
// Products are created once at catalog load, enriched once with an embedding,
// and treated as read-only afterwards.
type Product struct {
	// ID identifies the record within its catalog (row-<n>).
	ID string

	// Row is the zero-based position in the normalised catalog.
	// Ties during matching are broken by this order.
	Row int

	// Name is the lowercased product name. Embeddings are computed from it.
	Name string

	// Category is the lowercased, trimmed category. Never empty.
	Category string

	// Brand is the lowercased brand name.
	Brand string

	// PriceRetail is the retail price. Zero when HasPrice is false.
	PriceRetail float64

	// HasPrice reports whether PriceRetail was present and numeric.
	HasPrice bool

	// Currency is the lowercased currency code.
	Currency string

	// WebsiteURL is the retailer URL.
	WebsiteURL string

	// Promotion is the promotion label, or DefaultPromotion.
	Promotion string

	// Attributes holds the remaining non-dropped columns keyed by header name.
	Attributes map[string]string

	// Embedding is the product name vector.
	Embedding []float32
}

// ProductID returns the identifier for the product at the given row.
func ProductID(row int) string {
	return fmt.Sprintf("row-%d", row)
}

// HasEmbedding reports whether the product carries a non-empty embedding.
func (p *Product) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// PriceLabel formats the price with its currency, e.g. "499.00 usd".
// Returns "n/a" when the price is unknown.
func (p *Product) PriceLabel() string {
	if !p.HasPrice {
		return "n/a"
	}
	if p.Currency == "" {
		return fmt.Sprintf("%.2f", p.PriceRetail)
	}
	return fmt.Sprintf("%.2f %s", p.PriceRetail, p.Currency)
}
