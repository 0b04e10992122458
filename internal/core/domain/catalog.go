package domain

import "time"

// Catalog is the normalised product table enriched with name embeddings.
// Once built, a Catalog is shared read-only between concurrent matches.
type Catalog struct {
	// ID is unique per load.
	ID string

	// Source is the path the catalog was loaded from.
	Source string

	// Products holds records in catalog order.
	Products []Product

	// EmbeddingModel is the model that produced the product embeddings.
	EmbeddingModel string

	// Dimensions is the embedding vector size.
	Dimensions int

	// Skipped counts rows dropped for a missing name or category.
	Skipped int

	// LoadedAt is when the catalog was built.
	LoadedAt time.Time
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.Products)
}

// Product returns the product with the given ID, or nil.
func (c *Catalog) Product(id string) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for i := range c.Products {
		category := c.Products[i].Category
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories
}

// Enriched reports whether every product carries an embedding of the
// catalog's dimensions. An empty catalog is not enriched.
func (c *Catalog) Enriched() bool {
	if len(c.Products) == 0 || c.Dimensions <= 0 {
		return false
	}
	for i := range c.Products {
		if len(c.Products[i].Embedding) != c.Dimensions {
			return false
		}
	}
	return true
}

// CatalogSummary is a lightweight description of a catalog without products.
type CatalogSummary struct {
	ID             string
	Source         string
	Products       int
	Categories     int
	EmbeddingModel string
	Dimensions     int
	Skipped        int
	LoadedAt       time.Time
}

// Summary returns a CatalogSummary for the catalog.
func (c *Catalog) Summary() CatalogSummary {
	return CatalogSummary{
		ID:             c.ID,
		Source:         c.Source,
		Products:       len(c.Products),
		Categories:     len(c.Categories()),
		EmbeddingModel: c.EmbeddingModel,
		Dimensions:     c.Dimensions,
		Skipped:        c.Skipped,
		LoadedAt:       c.LoadedAt,
	}
}
