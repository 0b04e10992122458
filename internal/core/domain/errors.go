package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrData indicates the catalog source is unreadable or malformed.
	// Missing PRODUCT_NAME or CATEGORY columns are reported with this error.
	ErrData = errors.New("catalog data error")

	// ErrModelUnavailable indicates the embedding backend failed or is not configured.
	// Callers must not substitute zero vectors when they see this error.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrIntentUnresolved indicates the classifier could not produce a label
	// above the configured confidence floor.
	ErrIntentUnresolved = errors.New("intent unresolved")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// The LLM zero-shot classifier cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCatalogNotLoaded indicates no catalog has been loaded yet.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrModelMismatch indicates a stored catalog was embedded with a different
	// model than the one currently configured.
	ErrModelMismatch = errors.New("catalog embedded with a different model")

	// ErrUnsupportedProvider indicates an unknown or incapable AI provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
