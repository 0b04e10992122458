package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
)

type mockCatalogService struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	loadErr error
	loads   []string
}

func (m *mockCatalogService) Load(_ context.Context, path string) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, path)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.catalog == nil {
		m.catalog = testCatalog()
	}
	m.catalog.Source = path
	return m.catalog, nil
}

func (m *mockCatalogService) Current(_ context.Context) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.catalog == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return m.catalog, nil
}

func (m *mockCatalogService) Categories(ctx context.Context) ([]string, error) {
	c, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

type mockMatchService struct {
	mu        sync.Mutex
	result    *domain.MatchResult
	err       error
	queries   []string
	catalogID string
	// notLoaded makes Match fail as if no catalog were published.
	notLoaded bool
}

func (m *mockMatchService) Match(_ context.Context, query string) (*domain.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.notLoaded {
		return nil, domain.ErrCatalogNotLoaded
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.resultFor(query), nil
}

func (m *mockMatchService) MatchCatalog(
	_ context.Context, query string, catalog *domain.Catalog,
) (*domain.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	m.catalogID = catalog.ID
	if m.err != nil {
		return nil, m.err
	}
	return m.resultFor(query), nil
}

func (m *mockMatchService) resultFor(query string) *domain.MatchResult {
	if m.result == nil {
		return &domain.MatchResult{Query: query, Intent: "kitchen", Confidence: 0.9, Mode: domain.MatchModeSubstring}
	}
	r := *m.result
	r.Query = query
	return &r
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	validateErr error
	mode        domain.MatchMode
	strategy    domain.ClassifierStrategy
	floor       float64
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetMatchMode(mode domain.MatchMode) error {
	m.mode = mode
	return nil
}

func (m *mockSettingsService) SetClassifier(strategy domain.ClassifierStrategy, floor float64) error {
	m.strategy = strategy
	m.floor = floor
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) RequiresLLM() bool {
	return m.strategy.RequiresLLM()
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		ID:             "cat-1",
		Source:         "products.csv",
		EmbeddingModel: "all-minilm",
		Dimensions:     2,
		Skipped:        1,
		Products: []domain.Product{
			{
				ID: "row-0", Row: 0, Name: "electric kettle", Category: "kitchen", Brand: "acme",
				PriceRetail: 29.99, HasPrice: true, Currency: "usd",
				WebsiteURL: "https://shop.example/kettle", Promotion: domain.DefaultPromotion,
				Embedding: []float32{1, 0},
			},
			{
				ID: "row-1", Row: 1, Name: "gaming laptop", Category: "electronics",
				Promotion: "10% off", Embedding: []float32{0, 1},
			},
		},
	}
}

// setupTestServices installs mock services and resets command flags.
// It returns a function restoring the previous state.
func setupTestServices() func() {
	oldCatalog, oldMatch, oldSettings := catalogService, matchService, settingsService
	oldBootstrap := bootstrap

	catalogService = &mockCatalogService{catalog: testCatalog()}
	matchService = &mockMatchService{}
	settingsService = &mockSettingsService{}
	bootstrap = nil
	resetFlags()

	return func() {
		catalogService, matchService, settingsService = oldCatalog, oldMatch, oldSettings
		bootstrap = oldBootstrap
		resetFlags()
	}
}

func resetFlags() {
	matchCatalogPath = ""
	matchJSON = false
	catalogJSON = false
	rootOpts = Options{LogFormat: "console"}
}
