package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/views/catalog"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/views/match"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// matchView takes queries and shows recommendations.
	matchView *match.View

	// catalogView browses and reloads the catalog.
	catalogView *catalog.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// result holds the last match outcome.
	result *domain.MatchResult

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s, ports.Catalog),
		matchView:    match.NewView(s, nil, ports.Match),
		catalogView:  catalog.NewView(s, ports.Catalog),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its service-backed views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.menuView.WithContext(ctx)
	a.matchView.WithContext(ctx)
	a.catalogView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("intentmatch"),
		a.menuView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.matchView.SetDimensions(msg.Width, msg.Height)
		a.catalogView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewMatch:
			a.matchView, cmd = a.matchView.Update(msg)
			a.err = a.matchView.Err()
			return a, cmd

		case messages.ViewCatalog:
			a.catalogView, cmd = a.catalogView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.MatchCompleted:
		a.matchView, cmd = a.matchView.Update(msg)
		a.result = a.matchView.Result()
		a.err = a.matchView.Err()
		return a, cmd

	case messages.MatchRequested:
		a.currentView = messages.ViewMatch
		a.matchView.SetQuery(msg.Query)
		a.matchView, cmd = a.matchView.Update(msg)
		return a, cmd

	case messages.CatalogLoaded, messages.CatalogLoadRequested:
		a.menuView, _ = a.menuView.Update(msg)
		a.catalogView, cmd = a.catalogView.Update(msg)
		if loaded, ok := msg.(messages.CatalogLoaded); ok && loaded.Err != nil {
			a.err = a.catalogView.Err()
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewMatch:
			a.matchView.Reset()
			return a, a.matchView.Init()
		case messages.ViewCatalog:
			return a, a.catalogView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewMatch {
			a.matchView, cmd = a.matchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit

	case messages.SettingsLoaded, messages.SettingsSaved:
		// Forward to settings view
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewMatch:
		a.matchView, cmd = a.matchView.Update(msg)
	case messages.ViewCatalog:
		a.catalogView, cmd = a.catalogView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewMatch:
		return a.matchView.View()
	case messages.ViewCatalog:
		return a.catalogView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Match:
  (type)      Describe what you are looking for
  enter       Detect the intent and find the best product
  n           New query
  esc         Back to Menu

Catalog:
  j/k, ↑/↓    Browse products
  c           Cycle category filter
  o           Open a catalog file
  r           Reload from the source file
  esc         Back to Menu

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Result returns the last match outcome.
func (a *App) Result() *domain.MatchResult {
	return a.result
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.matchView.SetDimensions(width, height)
	a.catalogView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
