// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Product names and queries must be embedded by the same service so their
// vectors are comparable.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (all-minilm, nomic-embed-text)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache stores product name vectors keyed by model and text.
// A cache miss is not an error.
type EmbeddingCache interface {
	// Get returns the cached vector for text under model.
	// The boolean is false on a miss.
	Get(ctx context.Context, model, text string) ([]float32, bool, error)

	// Put stores the vector for text under model.
	Put(ctx context.Context, model, text string, vector []float32) error

	// Close releases resources.
	Close() error
}
