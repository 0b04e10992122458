// Package mcp provides an MCP (Model Context Protocol) server adapter for intentmatch.
// It lets AI assistants match queries against the product catalog and browse it.
package mcp

import "errors"

// ErrMissingMatchService is returned when the match service is not provided.
var ErrMissingMatchService = errors.New("mcp: match service is required")
