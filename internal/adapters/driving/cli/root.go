// Package cli provides the cobra command tree for intentmatch.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intentmatch/internal/core/ports/driving"
	"github.com/custodia-labs/intentmatch/internal/logger"
)

// Services wired in by the bootstrap function before a command runs.
var (
	catalogService  driving.CatalogService
	matchService    driving.MatchService
	settingsService driving.SettingsService
)

// version is set at build time via SetVersion.
var version = "dev"

// annotationSkipBootstrap marks commands that run without services.
const annotationSkipBootstrap = "skip-bootstrap"

// Options carries the global flags to the bootstrap function.
type Options struct {
	ConfigDir string
	DataDir   string
	LogFormat string
	Verbose   bool
}

// Services is the set of core services a command may use.
// Close releases stores and model backends; it may be nil.
type Services struct {
	Catalog  driving.CatalogService
	Match    driving.MatchService
	Settings driving.SettingsService
	Close    func() error
}

// BootstrapFunc builds the services for a command invocation.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	rootOpts      Options
	bootstrap     BootstrapFunc
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "intentmatch",
	Short: "Recommend catalog products from free-text intent",
	Long: `intentmatch loads a product catalog, classifies a free-text query into one
of the catalog's categories and returns the most similar product within it.

Get started:
  intentmatch settings embedding     # choose an embedding provider
  intentmatch catalog load products.csv
  intentmatch match "i need something to boil water"`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "enable diagnostic logging")
	flags.StringVar(&rootOpts.LogFormat, "log-format", logger.FormatConsole, "log format (console or json)")
	flags.StringVar(&rootOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.intentmatch)")
	flags.StringVar(&rootOpts.DataDir, "data-dir", "", "data directory (default ~/.intentmatch/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		catalogService, matchService, settingsService = nil, nil, nil
		closeServices = nil
		return
	}
	catalogService = s.Catalog
	matchService = s.Match
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the command tree. boot is called once before any command
// that needs services.
func Execute(ctx context.Context, boot BootstrapFunc) error {
	bootstrap = boot
	defer func() { _ = teardown(nil, nil) }()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(rootOpts.Verbose)
	logger.SetFormat(rootOpts.LogFormat)

	if bootstrap == nil || skipsBootstrap(cmd) {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, err := bootstrap(ctx, rootOpts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	if err := closer(); err != nil {
		logger.Warn("close services: %v", err)
	}
	return nil
}

func skipsBootstrap(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Annotations[annotationSkipBootstrap] == "true" {
			return true
		}
	}
	return false
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var (
	errCatalogServiceMissing  = errors.New("catalog service not configured")
	errMatchServiceMissing    = errors.New("match service not configured; run 'intentmatch settings embedding' to set up a provider")
	errSettingsServiceMissing = errors.New("settings service not configured")
)
