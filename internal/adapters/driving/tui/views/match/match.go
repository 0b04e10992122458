// Package match provides the query and recommendation view for the TUI.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
)

const notLoadedHint = "no catalog loaded; open Catalog from the menu to load one"

// View represents the match view with a query input, the match outcome and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	statusbar *status.Bar

	matchService driving.MatchService
	ctx          context.Context

	result     *domain.MatchResult
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = reading the result
}

// NewView creates a new match view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	matchService driving.MatchService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQueryInput(s),
		statusbar:    status.NewBar(s, km),
		matchService: matchService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the match view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.MatchRequested:
		return v, v.submit(msg.Query)

	case messages.MatchCompleted:
		v.handleMatchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit(v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewQuery) {
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// submit starts matching query unless it is blank.
func (v *View) submit(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	v.statusbar.SetState(status.StateMatching)
	v.statusbar.SetMessage("")
	v.focusInput = false
	v.input.Blur()
	return v.performMatch(query)
}

// performMatch runs the match service and reports the outcome.
func (v *View) performMatch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.matchService == nil {
			return messages.ErrorOccurred{Err: ErrNoMatchService}
		}
		result, err := v.matchService.Match(v.ctx, query)
		return messages.MatchCompleted{Result: result, Err: err}
	}
}

// handleMatchCompleted stores the outcome of a match.
func (v *View) handleMatchCompleted(msg messages.MatchCompleted) {
	if msg.Err != nil {
		v.result = nil
		if errors.Is(msg.Err, domain.ErrCatalogNotLoaded) {
			v.setError(errors.New(notLoadedHint))
			return
		}
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.result = msg.Result
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	if msg.Result != nil {
		v.statusbar.SetResultCount(msg.Result.Candidates)
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	// Let the user correct the query straight away.
	v.focusInput = true
	v.input.Focus()
}

// View renders the match view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("intentmatch"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		sections = append(sections, v.renderResult(), "")
	}

	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResult renders the detected intent and the best match, or the no-match notice.
func (v *View) renderResult() string {
	r := v.result
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Detected Intent:") + " ")
	b.WriteString(v.styles.Intent.Render(r.Intent) + " ")
	b.WriteString(v.styles.Score.Render(fmt.Sprintf("(confidence %.2f)", r.Confidence)))
	b.WriteString("\n\n")

	if !r.Found() {
		b.WriteString(v.styles.Warning.Render("No products found for the intent: " + r.Intent))
		return b.String()
	}

	p := r.Product
	b.WriteString(v.styles.Title.Render("Best Match"))
	b.WriteString("\n")

	fields := []struct {
		label string
		value string
	}{
		{"Product Name", p.Name},
		{"Category", p.Category},
		{"Brand", p.Brand},
		{"Price", p.PriceLabel()},
		{"Product URL", p.WebsiteURL},
		{"Promotion", p.Promotion},
	}
	for _, f := range fields {
		value := v.styles.Normal.Render(f.value)
		switch {
		case f.value == "":
			value = v.styles.Muted.Render("n/a")
		case f.label == "Price":
			value = v.styles.Price.Render(f.value)
		}
		b.WriteString(fmt.Sprintf("  %-13s %s", f.label+":", value))
		b.WriteString("\n")
	}
	b.WriteString("  " + v.styles.Muted.Render("Similarity") + " ")
	b.WriteString(v.styles.ScoreBand(r.Score).Render(fmt.Sprintf("%.4f", r.Score)) + " ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("over %d candidates (%s mode)", r.Candidates, r.Mode)))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Result returns the last match outcome, if any.
func (v *View) Result() *domain.MatchResult {
	return v.result
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.result = nil
	v.err = nil
	v.statusbar.Clear()
}
