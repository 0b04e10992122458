// Package catalog provides the catalog view component for the TUI.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// ErrNoCatalogService indicates that no catalog service was provided.
var ErrNoCatalogService = errors.New("catalog service not available")

// View shows the loaded catalog and lets the user browse, filter and reload it.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService
	ctx            context.Context

	catalog  *domain.Catalog
	category string // active category filter; empty shows every product
	products *list.ProductList
	path     *input.QueryInput
	opening  bool // true while the path input has focus

	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new catalog view.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	path := input.NewQueryInput(s)
	path.SetLabel("Catalog file: ")
	path.SetPlaceholder("path/to/products.csv")
	path.Blur()

	return &View{
		styles:         s,
		catalogService: catalogService,
		ctx:            context.Background(),
		products:       list.NewProductList(s),
		path:           path,
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and looks up the current catalog.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadCurrent()
}

// loadCurrent returns a command that fetches the published catalog.
func (v *View) loadCurrent() tea.Cmd {
	return func() tea.Msg {
		if v.catalogService == nil {
			return messages.CatalogLoaded{Err: ErrNoCatalogService}
		}
		catalog, err := v.catalogService.Current(v.ctx)
		return messages.CatalogLoaded{Catalog: catalog, Err: err}
	}
}

// loadFile returns a command that loads the catalog at path.
func (v *View) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		if v.catalogService == nil {
			return messages.CatalogLoaded{Err: ErrNoCatalogService}
		}
		catalog, err := v.catalogService.Load(v.ctx, path)
		return messages.CatalogLoaded{Catalog: catalog, Err: err}
	}
}

// Update handles messages for the catalog view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CatalogLoadRequested:
		return v, v.startLoad(msg.Path)

	case messages.CatalogLoaded:
		v.loading = false
		switch {
		case errors.Is(msg.Err, domain.ErrCatalogNotLoaded):
			v.err = nil
			v.setCatalog(nil)
		case msg.Err != nil:
			v.err = msg.Err
		default:
			v.err = nil
			v.setCatalog(msg.Catalog)
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.opening {
		return v.handlePathKeys(msg)
	}

	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		v.products.MoveUp()
	case "down", "j":
		v.products.MoveDown()
	case "c":
		v.nextCategory()
	case "o":
		v.opening = true
		if v.catalog != nil {
			v.path.SetValue(v.catalog.Source)
		}
		return v, v.path.Focus()
	case "r":
		if v.catalog != nil && v.catalog.Source != "" {
			return v, v.startLoad(v.catalog.Source)
		}
		v.loading = true
		return v, v.loadCurrent()
	}

	return v, nil
}

// handlePathKeys routes keys to the path input until it is submitted or cancelled.
func (v *View) handlePathKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.opening = false
		v.path.Blur()
		return v, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(v.path.Value())
		if path == "" {
			return v, nil
		}
		v.opening = false
		v.path.Blur()
		return v, v.startLoad(path)
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) startLoad(path string) tea.Cmd {
	v.loading = true
	v.err = nil
	return v.loadFile(path)
}

// setCatalog publishes catalog to the view, keeping the category filter when it still applies.
func (v *View) setCatalog(catalog *domain.Catalog) {
	v.catalog = catalog
	if catalog == nil {
		v.category = ""
		v.products.SetProducts(nil)
		return
	}
	found := false
	for _, c := range catalog.Categories() {
		if c == v.category {
			found = true
			break
		}
	}
	if !found {
		v.category = ""
	}
	v.applyFilter()
}

// nextCategory cycles the filter through every category and back to all products.
func (v *View) nextCategory() {
	if v.catalog == nil {
		return
	}
	categories := v.catalog.Categories()
	if len(categories) == 0 {
		return
	}
	next := categories[0]
	for i, c := range categories {
		if c == v.category {
			if i+1 < len(categories) {
				next = categories[i+1]
			} else {
				next = ""
			}
			break
		}
	}
	v.category = next
	v.applyFilter()
}

func (v *View) applyFilter() {
	if v.category == "" {
		v.products.SetProducts(v.catalog.Products)
		return
	}
	filtered := make([]domain.Product, 0, len(v.catalog.Products))
	for i := range v.catalog.Products {
		if v.catalog.Products[i].Category == v.category {
			filtered = append(filtered, v.catalog.Products[i])
		}
	}
	v.products.SetProducts(filtered)
}

// View renders the catalog view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Catalog"))
	b.WriteString("\n\n")

	if v.opening {
		b.WriteString(v.path.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] load  [esc] cancel"))
		return b.String()
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading catalog..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.catalog == nil {
		b.WriteString(v.styles.Muted.Render("No catalog loaded. Press [o] to open a catalog file."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.renderSummary())
	b.WriteString("\n")
	b.WriteString(v.products.View())
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSummary renders the catalog metadata and the active filter.
func (v *View) renderSummary() string {
	s := v.catalog.Summary()
	lines := []string{
		fmt.Sprintf("Source:     %s", s.Source),
		fmt.Sprintf("Products:   %d (%d rows skipped)", s.Products, s.Skipped),
		fmt.Sprintf("Categories: %d", s.Categories),
		fmt.Sprintf("Model:      %s (%d dimensions)", s.EmbeddingModel, s.Dimensions),
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	filter := "all"
	if v.category != "" {
		filter = v.category
	}
	b.WriteString(v.styles.Subtitle.Render("Category:   " + filter))
	b.WriteString("\n")
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[j/k] navigate  [c] category  [o] open  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.path.SetWidth(width)
	v.products.SetDimensions(width, height-12) // Reserve space for summary and help
}

// Catalog returns the displayed catalog, or nil when none is loaded.
func (v *View) Catalog() *domain.Catalog {
	return v.catalog
}

// Category returns the active category filter.
func (v *View) Category() string {
	return v.category
}

// Products returns the products shown after filtering.
func (v *View) Products() []domain.Product {
	return v.products.Products()
}

// SelectedProduct returns the highlighted product, if any.
func (v *View) SelectedProduct() *domain.Product {
	return v.products.SelectedProduct()
}

// Opening reports whether the path input is active.
func (v *View) Opening() bool {
	return v.opening
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
