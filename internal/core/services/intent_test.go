package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

func TestNewIntentResolver_Floor(t *testing.T) {
	assert.InDelta(t, domain.DefaultConfidenceFloor, NewIntentResolver(nil, -1).ConfidenceFloor(), 1e-9)
	assert.InDelta(t, 0.0, NewIntentResolver(nil, 0).ConfidenceFloor(), 1e-9)
	assert.InDelta(t, 0.5, NewIntentResolver(nil, 0.5).ConfidenceFloor(), 1e-9)
}

func TestIntentResolver_Resolve(t *testing.T) {
	labels := []string{"kitchen appliances", "laundry"}
	classifier := &fakeClassifier{label: "Laundry ", confidence: 0.9}
	r := NewIntentResolver(classifier, 0.2)

	verdict, err := r.Resolve(context.Background(), "wash my clothes", labels)

	require.NoError(t, err)
	assert.Equal(t, "laundry", verdict.Label, "canonical candidate spelling")
	assert.InDelta(t, 0.9, verdict.Confidence, 1e-9)
	assert.Equal(t, labels, classifier.gotLabels, "labels are passed explicitly")
	assert.Equal(t, "wash my clothes", classifier.gotText)
}

func TestIntentResolver_Unresolved(t *testing.T) {
	labels := []string{"kitchen appliances", "laundry"}

	tests := []struct {
		name       string
		classifier *fakeClassifier
		labels     []string
	}{
		{"no labels", &fakeClassifier{label: "laundry", confidence: 1}, nil},
		{"backend error", &fakeClassifier{err: errors.New("timeout")}, labels},
		{"not a candidate", &fakeClassifier{label: "garden", confidence: 0.99}, labels},
		{"below floor", &fakeClassifier{label: "laundry", confidence: 0.1}, labels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIntentResolver(tt.classifier, 0.2).Resolve(context.Background(), "query", tt.labels)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrIntentUnresolved)
		})
	}
}

func TestIntentResolver_FloorIsInclusive(t *testing.T) {
	r := NewIntentResolver(&fakeClassifier{label: "laundry", confidence: 0.2}, 0.2)

	_, err := r.Resolve(context.Background(), "q", []string{"laundry"})
	assert.NoError(t, err)
}

func TestIntentResolver_ModelUnavailableStaysVisible(t *testing.T) {
	classifier := &fakeClassifier{err: fmt.Errorf("embed labels: %w", domain.ErrModelUnavailable)}

	_, err := NewIntentResolver(classifier, 0.2).Resolve(context.Background(), "q", []string{"laundry"})

	assert.ErrorIs(t, err, domain.ErrIntentUnresolved)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestIntentResolver_NilClassifier(t *testing.T) {
	_, err := NewIntentResolver(nil, 0.2).Resolve(context.Background(), "q", []string{"laundry"})
	assert.ErrorIs(t, err, domain.ErrIntentUnresolved)
}

func TestIntentLabels(t *testing.T) {
	catalog := &domain.Catalog{Products: []domain.Product{
		{Category: "ranges"},
		{Category: "microwaves"},
		{Category: "ranges"},
	}}
	taxonomy := domain.Taxonomy{"cooking": {"ranges", "microwaves"}, "ranges": nil}

	assert.Equal(t, []string{"ranges", "microwaves"}, IntentLabels(catalog, nil))
	assert.Equal(t, []string{"ranges", "microwaves", "cooking"}, IntentLabels(catalog, taxonomy))
}
