package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Match:   &MockMatchService{},
		Catalog: &MockCatalogService{},
	}
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		ID:             "cat-1",
		Source:         "/data/products.csv",
		EmbeddingModel: "all-minilm",
		Dimensions:     2,
		Products: []domain.Product{
			{ID: "row-0", Name: "electric kettle", Category: "kitchen", Embedding: []float32{1, 0}},
			{ID: "row-1", Name: "gaming laptop", Category: "electronics", Embedding: []float32{0, 1}},
		},
	}
}

// goToMatchView navigates the app from menu to the match view for testing.
func goToMatchView(app *App) {
	app.SetDimensions(100, 40)
	app.Update(messages.ViewChanged{View: messages.ViewMatch})
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Catalog: &MockCatalogService{}})

	assert.ErrorIs(t, err, ErrMissingMatchService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 80, app.width)
	assert.Equal(t, 24, app.height)
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_View_MenuView(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	output := app.View()

	assert.Contains(t, output, "intentmatch")
	assert.Contains(t, output, "Match")
	assert.Contains(t, output, "Catalog")
}

func TestApp_Update_KeyMsg_Quit(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	// 'q' quits from the menu
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	goToMatchView(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_Quit(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Menu_EnterOpensMatch(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewMatch, app.CurrentView())
}

func TestApp_Match_EndToEnd(t *testing.T) {
	product := &domain.Product{ID: "row-0", Name: "electric kettle", Category: "kitchen"}
	ports := newTestPorts()
	ports.Match = &MockMatchService{
		MatchFunc: func(_ context.Context, query string) (*domain.MatchResult, error) {
			return &domain.MatchResult{
				Query: query, Intent: "kitchen", Confidence: 0.7,
				Mode: domain.MatchModeSubstring, Candidates: 1, Product: product, Score: 0.88,
			}, nil
		},
	}
	app, _ := NewApp(ports)
	goToMatchView(app)

	typeText(app, "kettle")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.NotNil(t, app.Result())
	assert.True(t, app.Result().Found())
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "electric kettle")
}

func TestApp_Match_Error(t *testing.T) {
	ports := newTestPorts()
	ports.Match = &MockMatchService{
		MatchFunc: func(_ context.Context, _ string) (*domain.MatchResult, error) {
			return nil, domain.ErrModelUnavailable
		},
	}
	app, _ := NewApp(ports)
	goToMatchView(app)

	typeText(app, "kettle")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrModelUnavailable)
	assert.Nil(t, app.Result())
}

func TestApp_MatchRequested_SwitchesView(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.MatchRequested{Query: "yoga mat"})

	assert.Equal(t, messages.ViewMatch, app.CurrentView())
	assert.Equal(t, "yoga mat", app.matchView.Query())
	assert.NotNil(t, cmd)
}

func TestApp_Match_EscapeReturnsToMenu(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	goToMatchView(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Match_QKeyIsTyped(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	goToMatchView(app)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.Equal(t, messages.ViewMatch, app.CurrentView())
	assert.Equal(t, "q", app.matchView.Query())
}

func TestApp_ViewChanged_ToCatalog_LoadsCurrent(t *testing.T) {
	ports := newTestPorts()
	ports.Catalog = &MockCatalogService{
		CurrentFunc: func(_ context.Context) (*domain.Catalog, error) {
			return testCatalog(), nil
		},
	}
	app, _ := NewApp(ports)
	app.SetDimensions(100, 40)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewCatalog})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewCatalog, app.CurrentView())
	output := app.View()
	assert.Contains(t, output, "/data/products.csv")
	assert.Contains(t, output, "electric kettle")
}

func TestApp_CatalogLoadRequested(t *testing.T) {
	var loaded string
	ports := newTestPorts()
	ports.Catalog = &MockCatalogService{
		LoadFunc: func(_ context.Context, path string) (*domain.Catalog, error) {
			loaded = path
			return nil, domain.ErrData
		},
	}
	app, _ := NewApp(ports)

	_, cmd := app.Update(messages.CatalogLoadRequested{Path: "bad.csv"})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, "bad.csv", loaded)
	assert.ErrorIs(t, app.Err(), domain.ErrData)
}

func TestApp_ViewChanged_ToSettings(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	output := app.View()
	assert.Contains(t, output, "Settings")
	assert.Contains(t, output, "settings service not available")
}

func TestApp_SettingsMessages_IgnoredElsewhere(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	_, cmd := app.Update(messages.SettingsSaved{})

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	output := app.View()
	assert.Contains(t, output, "Help")
	assert.Contains(t, output, "Cycle category filter")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	goToMatchView(app)
	boom := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: boom})

	assert.ErrorIs(t, app.Err(), boom)
	assert.ErrorIs(t, app.matchView.Err(), boom)
}

func TestApp_ErrorOccurred_InMenu(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	boom := errors.New("boom")

	_, cmd := app.Update(messages.ErrorOccurred{Err: boom})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, app.Err(), boom)
}

func TestApp_View_DefaultView(t *testing.T) {
	app, _ := NewApp(newTestPorts())
	app.SetDimensions(80, 24)
	app.currentView = messages.ViewType(99)

	assert.Contains(t, app.View(), "intentmatch")
}

func TestApp_Update_WindowSize_AllViewsNotified(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.True(t, app.matchView.Ready())
	assert.Contains(t, app.View(), "intentmatch")
}

func TestApp_Menu_ShowsLoadedCatalog(t *testing.T) {
	ports := newTestPorts()
	ports.Catalog = &MockCatalogService{
		LoadFunc: func(_ context.Context, _ string) (*domain.Catalog, error) {
			return testCatalog(), nil
		},
	}
	app, _ := NewApp(ports)
	app.SetDimensions(100, 40)
	assert.Contains(t, app.View(), "No catalog loaded")

	_, cmd := app.Update(messages.CatalogLoadRequested{Path: "/data/products.csv"})
	require.NotNil(t, cmd)
	app.Update(cmd())
	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	output := app.View()
	assert.Contains(t, output, "2 products in 2 categories, all-minilm (2d)")
	assert.NotContains(t, output, "load a catalog first")
}
