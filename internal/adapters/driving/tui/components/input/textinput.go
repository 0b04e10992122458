// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
)

// Default label and placeholder of a query input.
const (
	DefaultLabel       = "Query: "
	DefaultPlaceholder = "Describe what you are looking for..."
)

// QueryInput wraps a bubbles textinput with a styled label.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewQueryInput creates a new, focused query input component.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		label:     DefaultLabel,
		width:     50,
	}
}

// SetLabel replaces the label rendered before the input.
func (s *QueryInput) SetLabel(label string) {
	s.label = label
}

// SetPlaceholder replaces the placeholder text.
func (s *QueryInput) SetPlaceholder(placeholder string) {
	s.textinput.Placeholder = placeholder
}

// Init initialises the input.
func (s *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the label and input.
func (s *QueryInput) View() string {
	label := s.styles.Title.Render(s.label)
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (s *QueryInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *QueryInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *QueryInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *QueryInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *QueryInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *QueryInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *QueryInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *QueryInput) Reset() {
	s.textinput.Reset()
}
