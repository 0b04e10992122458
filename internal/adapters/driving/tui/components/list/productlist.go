// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// ProductList displays catalog products in a navigable list.
type ProductList struct {
	products []domain.Product
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewProductList creates a new product list component.
func NewProductList(s *styles.Styles) *ProductList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ProductList{
		products: nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the product list.
func (r *ProductList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ProductList) Update(msg tea.Msg) (*ProductList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the product list.
func (r *ProductList) View() string {
	if len(r.products) == 0 {
		return r.styles.Muted.Render("No products")
	}

	lines := make([]string, 0, len(r.products)+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Products (%d)", len(r.products)))
	lines = append(lines, header, "")

	// Each product takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.products) {
		end = len(r.products)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderProduct(i, &r.products[i]))
	}

	return strings.Join(lines, "\n")
}

// renderProduct formats a product as a name line and a detail line.
func (r *ProductList) renderProduct(index int, product *domain.Product) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := product.Name
	if name == "" {
		name = "(unnamed)"
	}

	maxNameLen := r.width - 20
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	price := product.PriceLabel()

	var nameLine string
	if index == r.selected {
		nameLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, price))
	} else {
		nameLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			r.styles.Muted.Render(price)
	}

	details := []string{product.Category}
	if product.Brand != "" {
		details = append(details, product.Brand)
	}
	if product.Promotion != "" && product.Promotion != domain.DefaultPromotion {
		details = append(details, product.Promotion)
	}
	detail := strings.Join(details, " · ")

	maxDetailLen := r.width - 6
	if maxDetailLen < 20 {
		maxDetailLen = 20
	}
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen-3] + "..."
	}

	return nameLine + "\n" + r.styles.Muted.Render("    "+detail)
}

// SetProducts replaces the listed products and resets the selection.
func (r *ProductList) SetProducts(products []domain.Product) {
	r.products = products
	r.selected = 0
}

// Products returns the listed products.
func (r *ProductList) Products() []domain.Product {
	return r.products
}

// Selected returns the index of the selected product.
func (r *ProductList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ProductList) SetSelected(index int) {
	if index >= 0 && index < len(r.products) {
		r.selected = index
	}
}

// SelectedProduct returns the currently selected product, or nil if none.
func (r *ProductList) SelectedProduct() *domain.Product {
	if len(r.products) == 0 || r.selected < 0 || r.selected >= len(r.products) {
		return nil
	}
	return &r.products[r.selected]
}

// MoveUp moves selection up.
func (r *ProductList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ProductList) MoveDown() {
	if r.selected < len(r.products)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ProductList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ProductList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ProductList) Height() int {
	return r.height
}

// Count returns the number of products.
func (r *ProductList) Count() int {
	return len(r.products)
}

// IsEmpty returns whether the list is empty.
func (r *ProductList) IsEmpty() bool {
	return len(r.products) == 0
}
