package domain

import (
	"sort"
	"strings"
)

// MatchMode defines how a detected intent selects catalog rows.
type MatchMode string

// Available match modes.
const (
	// MatchModeSubstring keeps rows whose category contains the intent.
	// Tolerates compound categories ("kitchen appliances" for "kitchen").
	MatchModeSubstring MatchMode = "substring"

	// MatchModeExact keeps rows whose category equals the intent.
	MatchModeExact MatchMode = "exact"

	// MatchModeTaxonomy keeps rows whose category equals the intent or is
	// listed under the intent in the configured taxonomy.
	MatchModeTaxonomy MatchMode = "taxonomy"
)

// IsValid returns true if the match mode is recognised.
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchModeSubstring, MatchModeExact, MatchModeTaxonomy:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m MatchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m MatchMode) Description() string {
	switch m {
	case MatchModeSubstring:
		return "Substring (category contains intent)"
	case MatchModeExact:
		return "Exact (category equals intent)"
	case MatchModeTaxonomy:
		return "Taxonomy (intent maps to listed categories)"
	default:
		return unknownDescription
	}
}

// AllMatchModes returns all available match modes.
func AllMatchModes() []MatchMode {
	return []MatchMode{
		MatchModeSubstring,
		MatchModeExact,
		MatchModeTaxonomy,
	}
}

// Taxonomy maps an intent label to the categories it covers.
type Taxonomy map[string][]string

// Parents returns the taxonomy intents in sorted order.
func (t Taxonomy) Parents() []string {
	parents := make([]string, 0, len(t))
	for parent := range t {
		parents = append(parents, parent)
	}
	sort.Strings(parents)
	return parents
}

// Covers reports whether category falls under intent.
func (t Taxonomy) Covers(intent, category string) bool {
	for _, child := range t[intent] {
		if strings.EqualFold(strings.TrimSpace(child), category) {
			return true
		}
	}
	return false
}

// Matches reports whether a category is selected by intent under mode.
// Comparison is case-insensitive; an unknown mode behaves as substring.
func (m MatchMode) Matches(category, intent string, taxonomy Taxonomy) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	intent = strings.ToLower(strings.TrimSpace(intent))
	if category == "" || intent == "" {
		return false
	}

	switch m {
	case MatchModeExact:
		return category == intent
	case MatchModeTaxonomy:
		return category == intent || taxonomy.Covers(intent, category)
	default:
		return strings.Contains(category, intent)
	}
}

// Classification is a zero-shot classifier verdict.
type Classification struct {
	// Label is the highest-scoring candidate label.
	Label string

	// Confidence is the score of Label, in [0, 1].
	Confidence float64

	// Scores holds the score of every candidate label when the backend reports them.
	Scores map[string]float64
}

// MatchResult is the outcome of matching a query against a catalog.
// A result without a Product is a no-match: the intent was detected but no
// catalog row falls under it. It is a normal outcome, not an error.
type MatchResult struct {
	// Query is the query that was matched.
	Query string

	// Intent is the detected category label.
	Intent string

	// Confidence is the classifier confidence for Intent.
	Confidence float64

	// Mode is the match mode used to filter the catalog.
	Mode MatchMode

	// Candidates is the number of rows that passed the intent filter.
	Candidates int

	// Product is the best-matching row, or nil for a no-match.
	Product *Product

	// Score is the cosine similarity between query and Product.
	Score float64
}

// Found reports whether the result carries a product.
func (r *MatchResult) Found() bool {
	return r != nil && r.Product != nil
}
