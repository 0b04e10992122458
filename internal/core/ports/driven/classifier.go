package driven

import (
	"context"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// IntentClassifier performs zero-shot classification of free text against
// a caller-supplied label set. Labels are never hard-coded by implementations.
type IntentClassifier interface {
	// Classify returns the best label for text among labels.
	// The returned label must be one of labels.
	Classify(ctx context.Context, text string, labels []string) (domain.Classification, error)

	// Name identifies the classifier strategy.
	Name() string

	// Close releases resources.
	Close() error
}
