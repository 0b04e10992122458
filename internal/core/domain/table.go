package domain

import "strings"

// Well-known catalog column names.
const (
	ColumnProductName = "PRODUCT_NAME"
	ColumnCategory    = "CATEGORY"
	ColumnBrand       = "BRAND"
	ColumnPriceRetail = "PRICE_RETAIL"
	ColumnCurrency    = "CURRENCY"
	ColumnWebsiteURL  = "WEBSITE_URL"
	ColumnPromotion   = "PROMOTION"
)

// DefaultDroppedColumns are scrape metadata and seller/location/ranking fields
// that play no part in recommendation.
func DefaultDroppedColumns() []string {
	return []string{
		"DATE_SCRAPED",
		"RUN_START_DATE",
		"SHIPPING_LOCATION",
		"SKU",
		"PRODUCT_URL",
		"BESTSELLER_RANK",
		"COUNTRY",
		"SELLER",
	}
}

// Table is raw tabular data as read from a catalog source.
// Rows may be shorter than Columns; missing cells read as empty.
type Table struct {
	// Columns holds header names in file order.
	Columns []string

	// Rows holds cell values, one slice per record.
	Rows [][]string
}

// ColumnIndex returns the position of the named column, or -1.
// Matching is case-insensitive and ignores surrounding whitespace.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at row r, column c, or "" when out of range.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
