package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// Save stores the catalog and its products in one transaction, replacing any
// other stored catalog. Their products go with them through the cascade.
func (s *catalogStore) Save(ctx context.Context, catalog *domain.Catalog) error {
	if catalog == nil || catalog.ID == "" {
		return fmt.Errorf("%w: catalog without ID", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalogs WHERE id != ?", catalog.ID); err != nil {
		return fmt.Errorf("removing superseded catalogs: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalogs (id, source, embedding_model, dimensions, skipped, is_current, loaded_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			embedding_model = excluded.embedding_model,
			dimensions = excluded.dimensions,
			skipped = excluded.skipped,
			is_current = 1,
			loaded_at = excluded.loaded_at
	`, catalog.ID, catalog.Source, catalog.EmbeddingModel, catalog.Dimensions, catalog.Skipped, catalog.LoadedAt)
	if err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE catalog_id = ?", catalog.ID); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (catalog_id, row_index, id, name, category, brand, price_retail,
			currency, website_url, promotion, attributes, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing product insert: %w", err)
	}
	defer stmt.Close()

	for i := range catalog.Products {
		p := &catalog.Products[i]

		attrs, err := json.Marshal(p.Attributes)
		if err != nil {
			return fmt.Errorf("marshalling attributes for %s: %w", p.ID, err)
		}

		var price sql.NullFloat64
		if p.HasPrice {
			price = sql.NullFloat64{Float64: p.PriceRetail, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, catalog.ID, p.Row, p.ID, p.Name, p.Category, p.Brand,
			price, p.Currency, p.WebsiteURL, p.Promotion, string(attrs), float32SliceToBytes(p.Embedding)); err != nil {
			return fmt.Errorf("saving product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

// Load returns the current catalog with its products in row order.
func (s *catalogStore) Load(ctx context.Context) (*domain.Catalog, error) {
	var c domain.Catalog
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, embedding_model, dimensions, skipped, loaded_at
		FROM catalogs WHERE is_current = 1
		ORDER BY loaded_at DESC LIMIT 1
	`).Scan(&c.ID, &c.Source, &c.EmbeddingModel, &c.Dimensions, &c.Skipped, &c.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT row_index, id, name, category, brand, price_retail, currency, website_url,
			promotion, attributes, embedding
		FROM products WHERE catalog_id = ?
		ORDER BY row_index
	`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p         domain.Product
			price     sql.NullFloat64
			attrsJSON string
			blob      []byte
		)
		if err := rows.Scan(&p.Row, &p.ID, &p.Name, &p.Category, &p.Brand, &price, &p.Currency,
			&p.WebsiteURL, &p.Promotion, &attrsJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		if price.Valid {
			p.PriceRetail = price.Float64
			p.HasPrice = true
		}
		if attrsJSON != "" && attrsJSON != "null" {
			if err := json.Unmarshal([]byte(attrsJSON), &p.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshalling attributes for %s: %w", p.ID, err)
			}
		}
		p.Embedding = bytesToFloat32Slice(blob)
		c.Products = append(c.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return &c, nil
}
