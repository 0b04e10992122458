package match

import "errors"

// Error definitions for the match view.
var (
	// ErrNoMatchService indicates that no match service was provided.
	ErrNoMatchService = errors.New("match service is required")
)
