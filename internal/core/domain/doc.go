// Package domain defines the core business entities for intentmatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Table: Raw tabular catalog data as read from disk
//   - Product: A normalised catalog entry with its name embedding
//   - Catalog: The enriched, read-only product table used for matching
//   - Classification: A zero-shot classifier verdict over candidate labels
//   - MatchResult: The outcome of matching one query against a catalog
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
