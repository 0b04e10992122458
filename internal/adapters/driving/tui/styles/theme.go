// Package styles holds the intentmatch palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Similarity bands used to colour match scores.
const (
	StrongMatch = 0.75
	WeakMatch   = 0.5
)

// Theme is the colour palette. Intent, Score and Price colour the parts of a
// recommendation; the rest are general purpose.
type Theme struct {
	Accent  lipgloss.Color
	Intent  lipgloss.Color
	Score   lipgloss.Color
	Price   lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Good    lipgloss.Color
	Caution lipgloss.Color
	Bad     lipgloss.Color
	Edge    lipgloss.Color
	Bar     lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#0EA5E9"), // sky
		Intent:  lipgloss.Color("#F472B6"), // pink
		Score:   lipgloss.Color("#A78BFA"), // violet
		Price:   lipgloss.Color("#FBBF24"), // amber
		Text:    lipgloss.Color("#E2E8F0"),
		Dim:     lipgloss.Color("#64748B"),
		Good:    lipgloss.Color("#4ADE80"),
		Caution: lipgloss.Color("#FB923C"),
		Bad:     lipgloss.Color("#F87171"),
		Edge:    lipgloss.Color("#334155"),
		Bar:     lipgloss.Color("#0F172A"),
	}
}

// Styles are the lipgloss styles the views render with.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	// Intent labels a detected or requested intent category.
	Intent lipgloss.Style
	// Price renders a product's price label.
	Price lipgloss.Style
	// Score renders a similarity or confidence figure outside any band.
	Score lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when theme is nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Intent).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Accent).Bold(true),
		Help:     fg(theme.Dim).Italic(true),

		Error:   fg(theme.Bad),
		Success: fg(theme.Good),
		Warning: fg(theme.Caution),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),
		StatusBar: fg(theme.Dim).Background(theme.Bar).Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Edge),

		Intent: fg(theme.Intent).Bold(true),
		Price:  fg(theme.Price),
		Score:  fg(theme.Score),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ScoreBand picks the style for a similarity score: Success at or above
// StrongMatch, Warning at or above WeakMatch, Error below.
func (s *Styles) ScoreBand(score float64) lipgloss.Style {
	switch {
	case score >= StrongMatch:
		return s.Success
	case score >= WeakMatch:
		return s.Warning
	default:
		return s.Error
	}
}
