package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/watcher"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
	Long:  `Load, inspect and watch the product catalog used for matching.`,
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load and embed a catalog file",
	Long: `Reads a CSV catalog, normalises it, embeds every product name and makes it
the current catalog. The previous catalog is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogLoad,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current catalog",
	RunE:  runCatalogShow,
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the current catalog",
	RunE:  runCatalogCategories,
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Reload the catalog whenever its file changes",
	Long: `Loads the catalog, then watches the file and reloads it on every change
until interrupted. Without a path the configured catalog.path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogWatch,
}

func init() {
	catalogShowCmd.Flags().BoolVar(&catalogJSON, "json", false, "output as JSON")
	catalogCategoriesCmd.Flags().BoolVar(&catalogJSON, "json", false, "output as JSON")
	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogWatchCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogServiceMissing
	}

	catalog, err := catalogService.Load(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cmd.Printf("Loaded %d products in %d categories from %s\n",
		catalog.Len(), len(catalog.Categories()), catalog.Source)
	if catalog.Skipped > 0 {
		cmd.Printf("Skipped %d rows without a name or category\n", catalog.Skipped)
	}
	cmd.Printf("Embedded with %s (%d dimensions)\n", catalog.EmbeddingModel, catalog.Dimensions)
	return nil
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errCatalogServiceMissing
	}

	catalog, err := catalogService.Current(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}
	summary := catalog.Summary()

	if catalogJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Current Catalog")
	cmd.Println("===============")
	cmd.Printf("  ID:         %s\n", summary.ID)
	cmd.Printf("  Source:     %s\n", summary.Source)
	cmd.Printf("  Products:   %d\n", summary.Products)
	cmd.Printf("  Categories: %d\n", summary.Categories)
	cmd.Printf("  Skipped:    %d\n", summary.Skipped)
	cmd.Printf("  Model:      %s (%d dimensions)\n", summary.EmbeddingModel, summary.Dimensions)
	cmd.Printf("  Loaded:     %s\n", summary.LoadedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runCatalogCategories(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errCatalogServiceMissing
	}

	categories, err := catalogService.Categories(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	if catalogJSON {
		data, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal categories: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(categories) == 0 {
		cmd.Println("No categories.")
		return nil
	}
	for _, c := range categories {
		cmd.Println(c)
	}
	return nil
}

func runCatalogWatch(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errCatalogServiceMissing
	}

	path := configuredCatalogPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no catalog path given and catalog.path is not set")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := catalogService.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	cmd.Printf("Loaded %d products from %s\n", catalog.Len(), catalog.Source)

	w, err := watcher.New(catalogService, path)
	if err != nil {
		return err
	}
	reloads, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	for r := range reloads {
		if r.Err != nil {
			cmd.PrintErrf("Reload failed: %v\n", r.Err)
			continue
		}
		cmd.Printf("Reloaded %d products in %d categories\n", r.Catalog.Len(), len(r.Catalog.Categories()))
	}
	return nil
}
