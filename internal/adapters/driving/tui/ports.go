// Package tui provides an interactive terminal user interface for intentmatch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Match recommends products for free-text queries.
	Match driving.MatchService

	// Catalog loads and exposes the product catalog.
	Catalog driving.CatalogService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	match driving.MatchService,
	catalog driving.CatalogService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Match:    match,
		Catalog:  catalog,
		Settings: settings,
	}
}

// Validate ensures the required ports are set.
// Settings is optional; the settings view reports its absence.
func (p *Ports) Validate() error {
	if p.Match == nil {
		return ErrMissingMatchService
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
