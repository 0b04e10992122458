// Package menu is the TUI home screen: navigation plus the state of the loaded catalog.
package menu

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Item is a single menu entry.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool
}

// View is the main menu.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService
	ctx            context.Context

	items    []Item
	selected int

	// catalog is nil until a catalog has been seen; catalogErr holds a
	// lookup failure other than "nothing loaded yet".
	catalog    *domain.CatalogSummary
	catalogErr error

	width  int
	height int
	ready  bool
}

// NewView creates the menu. catalogService may be nil, in which case the
// menu only learns about catalogs from CatalogLoaded messages.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		catalogService: catalogService,
		ctx:            context.Background(),
		items: []Item{
			{Label: "Match", View: messages.ViewMatch},
			{Label: "Catalog", View: messages.ViewCatalog},
			{Label: "Settings", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// WithContext sets the context for catalog lookups.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init looks up the published catalog so the summary is filled on start.
func (v *View) Init() tea.Cmd {
	if v.catalogService == nil {
		return nil
	}
	return func() tea.Msg {
		catalog, err := v.catalogService.Current(v.ctx)
		return messages.CatalogLoaded{Catalog: catalog, Err: err}
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CatalogLoaded:
		v.observeCatalog(msg)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// observeCatalog records the outcome of a catalog lookup or load. A failed
// reload keeps the previous summary, since the published catalog is unchanged.
func (v *View) observeCatalog(msg messages.CatalogLoaded) {
	switch {
	case msg.Err == nil && msg.Catalog != nil:
		summary := msg.Catalog.Summary()
		v.catalog = &summary
		v.catalogErr = nil
	case errors.Is(msg.Err, domain.ErrCatalogNotLoaded):
		v.catalog = nil
		v.catalogErr = nil
	case msg.Err != nil && v.catalog == nil:
		v.catalogErr = msg.Err
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("intentmatch"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Intent-based Product Recommendations"))
	b.WriteString("\n\n")
	b.WriteString(v.renderCatalog())
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		if item.View == messages.ViewMatch && v.catalog == nil {
			b.WriteString(" " + v.styles.Muted.Render("(load a catalog first)"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// renderCatalog describes the published catalog in one or two lines.
func (v *View) renderCatalog() string {
	if v.catalogErr != nil {
		return v.styles.Error.Render("Catalog unavailable: " + v.catalogErr.Error())
	}
	c := v.catalog
	if c == nil {
		return v.styles.Warning.Render("No catalog loaded. Open one from Catalog.")
	}

	line := fmt.Sprintf("%d products in %d categories, %s (%dd)",
		c.Products, c.Categories, c.EmbeddingModel, c.Dimensions)
	out := v.styles.Success.Render("Catalog") + " " + v.styles.Normal.Render(line)

	source := filepath.Base(c.Source)
	if !c.LoadedAt.IsZero() {
		source += ", loaded " + c.LoadedAt.Format("2006-01-02 15:04")
	}
	out += "\n" + v.styles.Muted.Render(source)
	if c.Skipped > 0 {
		out += " " + v.styles.Warning.Render(fmt.Sprintf("(%d rows skipped)", c.Skipped))
	}
	return out
}

// Catalog returns the summary of the last catalog seen, or nil.
func (v *View) Catalog() *domain.CatalogSummary {
	return v.catalog
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
