package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchMode_IsValid(t *testing.T) {
	for _, m := range AllMatchModes() {
		assert.True(t, m.IsValid(), m)
		assert.NotEqual(t, unknownDescription, m.Description())
	}
	assert.False(t, MatchMode("fuzzy").IsValid())
	assert.Equal(t, unknownDescription, MatchMode("fuzzy").Description())
}

func TestMatchMode_Matches(t *testing.T) {
	taxonomy := Taxonomy{
		"cooking": {"ranges", "Microwaves"},
	}

	tests := []struct {
		name     string
		mode     MatchMode
		category string
		intent   string
		want     bool
	}{
		{"substring compound", MatchModeSubstring, "kitchen appliances", "kitchen", true},
		{"substring case insensitive", MatchModeSubstring, "kitchen appliances", "KITCHEN", true},
		{"substring miss", MatchModeSubstring, "laundry", "kitchen", false},
		{"substring pathological", MatchModeSubstring, "mortgage range", "range", true},
		{"exact hit", MatchModeExact, "kitchen appliances", "kitchen appliances", true},
		{"exact rejects compound", MatchModeExact, "kitchen appliances", "kitchen", false},
		{"exact rejects pathological", MatchModeExact, "mortgage range", "range", false},
		{"taxonomy self", MatchModeTaxonomy, "ranges", "ranges", true},
		{"taxonomy child", MatchModeTaxonomy, "microwaves", "cooking", true},
		{"taxonomy unrelated", MatchModeTaxonomy, "laundry", "cooking", false},
		{"taxonomy no substring", MatchModeTaxonomy, "cooking ranges", "cooking", false},
		{"empty intent", MatchModeSubstring, "kitchen", "", false},
		{"empty category", MatchModeSubstring, "", "kitchen", false},
		{"unknown mode acts as substring", MatchMode("other"), "kitchen appliances", "kitchen", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Matches(tt.category, tt.intent, taxonomy))
		})
	}
}

func TestTaxonomy_Parents(t *testing.T) {
	taxonomy := Taxonomy{"laundry": nil, "cooking": {"ranges"}}
	assert.Equal(t, []string{"cooking", "laundry"}, taxonomy.Parents())
	assert.Empty(t, Taxonomy(nil).Parents())
}

func TestMatchResult_Found(t *testing.T) {
	var nilResult *MatchResult
	assert.False(t, nilResult.Found())
	assert.False(t, (&MatchResult{Intent: "kitchen"}).Found())
	assert.True(t, (&MatchResult{Product: &Product{Name: "range"}}).Found())
}
