package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intentmatch/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "intentmatch", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "log-format", "config-dir", "data-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"match", "catalog", "settings", "mcp", "tui", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	catalogs := &mockCatalogService{}
	matcher := &mockMatchService{}
	settings := &mockSettingsService{}
	SetServices(&Services{Catalog: catalogs, Match: matcher, Settings: settings})

	assert.Same(t, catalogs, catalogService)
	assert.Same(t, matcher, matchService)
	assert.Same(t, settings, settingsService)

	SetServices(nil)
	assert.Nil(t, catalogService)
	assert.Nil(t, matchService)
	assert.Nil(t, settingsService)
}

func TestExecute_BootstrapsServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)
	defer logger.SetVerbose(false)

	var gotOpts Options
	closed := false
	boot := func(_ context.Context, opts Options) (*Services, error) {
		gotOpts = opts
		return &Services{
			Catalog:  &mockCatalogService{catalog: testCatalog()},
			Match:    &mockMatchService{},
			Settings: &mockSettingsService{},
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}

	rootCmd.SetArgs([]string{"--verbose", "--config-dir", "/tmp/cfg", "catalog", "categories"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, Execute(context.Background(), boot))

	assert.True(t, gotOpts.Verbose)
	assert.Equal(t, "/tmp/cfg", gotOpts.ConfigDir)
	assert.True(t, closed)
	assert.True(t, logger.IsVerbose())
}

func TestExecute_BootstrapError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	boot := func(context.Context, Options) (*Services, error) {
		return nil, errors.New("open store: disk full")
	}

	rootCmd.SetArgs([]string{"catalog", "show"})
	defer rootCmd.SetArgs(nil)
	err := Execute(context.Background(), boot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialise: open store: disk full")
}

func TestExecute_VersionSkipsBootstrap(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	called := false
	boot := func(context.Context, Options) (*Services, error) {
		called = true
		return &Services{}, nil
	}

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, Execute(context.Background(), boot))
	assert.False(t, called)
}

func TestSkipsBootstrap(t *testing.T) {
	assert.True(t, skipsBootstrap(versionCmd))
	assert.False(t, skipsBootstrap(matchCmd))
	assert.False(t, skipsBootstrap(catalogShowCmd))
}
