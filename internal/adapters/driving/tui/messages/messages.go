// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// QueryChanged is sent when the query input changes.
type QueryChanged struct {
	Query string
}

// MatchRequested is a command to match a query against the current catalog.
type MatchRequested struct {
	Query string
}

// MatchCompleted carries a match outcome back to the model.
// A nil Err with a product-less Result is a no-match, not a failure.
type MatchCompleted struct {
	Result *domain.MatchResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewMatch is the query input and recommendation view.
	ViewMatch
	// ViewCatalog shows the loaded catalog and its products.
	ViewCatalog
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewMatch:
		return "match"
	case ViewCatalog:
		return "catalog"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// CatalogLoadRequested asks for the catalog at Path to be (re)loaded.
type CatalogLoadRequested struct {
	Path string
}

// CatalogLoaded carries the current catalog, after a lookup or a load.
type CatalogLoaded struct {
	Catalog *domain.Catalog
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
