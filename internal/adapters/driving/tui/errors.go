package tui

import "errors"

// ErrMissingMatchService is returned when the match service is not provided.
var ErrMissingMatchService = errors.New("tui: match service is required")

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("tui: catalog service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
