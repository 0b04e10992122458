package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// IntentResolver maps a query to one of a catalog's category labels
// through a zero-shot classifier.
type IntentResolver struct {
	classifier driven.IntentClassifier
	floor      float64
}

// NewIntentResolver creates an intent resolver.
// A negative floor falls back to domain.DefaultConfidenceFloor.
func NewIntentResolver(classifier driven.IntentClassifier, floor float64) *IntentResolver {
	if floor < 0 || math.IsNaN(floor) {
		floor = domain.DefaultConfidenceFloor
	}
	return &IntentResolver{classifier: classifier, floor: floor}
}

// ConfidenceFloor returns the minimum confidence accepted.
func (r *IntentResolver) ConfidenceFloor() float64 {
	return r.floor
}

// Resolve classifies query against labels.
// Returns domain.ErrIntentUnresolved when labels is empty, the classifier
// fails, the verdict is not one of labels, or confidence is below the floor.
func (r *IntentResolver) Resolve(ctx context.Context, query string, labels []string) (domain.Classification, error) {
	if len(labels) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: no candidate labels", domain.ErrIntentUnresolved)
	}
	if r.classifier == nil {
		return domain.Classification{}, fmt.Errorf("%w: no classifier configured", domain.ErrIntentUnresolved)
	}

	verdict, err := r.classifier.Classify(ctx, query, labels)
	if err != nil {
		// Embedding outages stay distinguishable from low-confidence verdicts.
		if errors.Is(err, domain.ErrModelUnavailable) {
			return domain.Classification{}, fmt.Errorf("%w: %w", domain.ErrIntentUnresolved, err)
		}
		return domain.Classification{}, fmt.Errorf("%w: %s classifier: %w", domain.ErrIntentUnresolved, r.classifier.Name(), err)
	}

	label, ok := candidate(verdict.Label, labels)
	if !ok {
		return domain.Classification{}, fmt.Errorf("%w: label %q is not a candidate", domain.ErrIntentUnresolved, verdict.Label)
	}
	verdict.Label = label

	if math.IsNaN(verdict.Confidence) || verdict.Confidence < r.floor {
		return verdict, fmt.Errorf("%w: confidence %.3f for %q below floor %.3f",
			domain.ErrIntentUnresolved, verdict.Confidence, label, r.floor)
	}

	return verdict, nil
}

// candidate returns the canonical spelling of label within labels.
func candidate(label string, labels []string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			return l, true
		}
	}
	return "", false
}

// IntentLabels returns the candidate labels for catalog: its distinct
// categories followed by any configured taxonomy intents. Under substring
// and exact modes a taxonomy intent selects categories by its own name; under
// taxonomy mode it also selects its listed categories.
func IntentLabels(catalog *domain.Catalog, taxonomy domain.Taxonomy) []string {
	labels := catalog.Categories()

	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[l] = true
	}
	for _, parent := range taxonomy.Parents() {
		if !seen[parent] {
			seen[parent] = true
			labels = append(labels, parent)
		}
	}
	return labels
}
