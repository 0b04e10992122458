package mcp

import (
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Match recommends products for queries.
	Match driving.MatchService

	// Catalog serves the current catalog. Optional; resources are empty without it.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Match == nil {
		return ErrMissingMatchService
	}
	return nil
}
