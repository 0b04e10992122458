package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// NormaliseOptions configures catalog normalisation.
type NormaliseOptions struct {
	// DropColumns are removed before products are built. Absent columns are ignored.
	DropColumns []string

	// DefaultPromotion fills empty PROMOTION cells.
	DefaultPromotion string
}

// DefaultNormaliseOptions returns the standard column drop set and promotion sentinel.
func DefaultNormaliseOptions() NormaliseOptions {
	return NormaliseOptions{
		DropColumns:      domain.DefaultDroppedColumns(),
		DefaultPromotion: domain.DefaultPromotion,
	}
}

// knownColumns are mapped onto Product fields rather than Attributes.
var knownColumns = map[string]bool{
	domain.ColumnProductName: true,
	domain.ColumnCategory:    true,
	domain.ColumnBrand:       true,
	domain.ColumnPriceRetail: true,
	domain.ColumnCurrency:    true,
	domain.ColumnWebsiteURL:  true,
	domain.ColumnPromotion:   true,
}

// Normalise turns a raw table into products.
//
// String cells are lowercased and trimmed; PRICE_RETAIL is parsed as a number.
// Dropped columns never reach the products. Rows whose name or category is
// empty are skipped and counted. Products are numbered in surviving row order.
func Normalise(table *domain.Table, opts NormaliseOptions) ([]domain.Product, int, error) {
	if table == nil {
		return nil, 0, fmt.Errorf("%w: no table", domain.ErrData)
	}
	for _, required := range []string{domain.ColumnProductName, domain.ColumnCategory} {
		if !table.HasColumn(required) {
			return nil, 0, fmt.Errorf("%w: missing required column %s", domain.ErrData, required)
		}
	}

	dropped := make(map[string]bool, len(opts.DropColumns))
	for _, col := range opts.DropColumns {
		dropped[strings.ToUpper(strings.TrimSpace(col))] = true
	}

	// Resolve the attribute columns once.
	type attrColumn struct {
		index int
		name  string
	}
	var attrs []attrColumn
	for i, col := range table.Columns {
		name := strings.ToUpper(strings.TrimSpace(col))
		if name == "" || dropped[name] || knownColumns[name] {
			continue
		}
		attrs = append(attrs, attrColumn{index: i, name: name})
	}

	nameCol := table.ColumnIndex(domain.ColumnProductName)
	categoryCol := table.ColumnIndex(domain.ColumnCategory)
	column := func(name string) int {
		if dropped[name] {
			return -1
		}
		return table.ColumnIndex(name)
	}
	brandCol := column(domain.ColumnBrand)
	priceCol := column(domain.ColumnPriceRetail)
	currencyCol := column(domain.ColumnCurrency)
	urlCol := column(domain.ColumnWebsiteURL)
	promoCol := column(domain.ColumnPromotion)

	products := make([]domain.Product, 0, table.Len())
	skipped := 0

	for r := range table.Rows {
		name := lowerCell(table, r, nameCol)
		category := lowerCell(table, r, categoryCol)
		if name == "" || category == "" {
			skipped++
			continue
		}

		row := len(products)
		p := domain.Product{
			ID:         domain.ProductID(row),
			Row:        row,
			Name:       name,
			Category:   category,
			Brand:      lowerCell(table, r, brandCol),
			Currency:   lowerCell(table, r, currencyCol),
			WebsiteURL: lowerCell(table, r, urlCol),
			Promotion:  lowerCell(table, r, promoCol),
		}

		if price, ok := parsePrice(cell(table, r, priceCol)); ok {
			p.PriceRetail = price
			p.HasPrice = true
		}

		if p.Promotion == "" {
			p.Promotion = opts.DefaultPromotion
		}

		if len(attrs) > 0 {
			p.Attributes = make(map[string]string, len(attrs))
			for _, a := range attrs {
				p.Attributes[a.name] = lowerCell(table, r, a.index)
			}
		}

		products = append(products, p)
	}

	return products, skipped, nil
}

func cell(table *domain.Table, r, c int) string {
	if c < 0 {
		return ""
	}
	return strings.TrimSpace(table.Cell(r, c))
}

func lowerCell(table *domain.Table, r, c int) string {
	return strings.ToLower(cell(table, r, c))
}

// parsePrice accepts plain numbers and thousands separators ("1,299.00").
func parsePrice(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
