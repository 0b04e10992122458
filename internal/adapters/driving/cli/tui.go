package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for intentmatch.

The TUI lets you type what you are looking for and see the detected intent
and best-matching product, browse the loaded catalog by category, and
change match and provider settings.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Match / Select
  Esc      - Back / Cancel
  q        - Quit (from the menu)`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIPorts builds the TUI ports from the installed services.
func newTUIPorts() *tui.Ports {
	return tui.NewPorts(matchService, catalogService, settingsService)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if matchService == nil {
		return errMatchServiceMissing
	}
	if catalogService == nil {
		return errCatalogServiceMissing
	}

	app, err := tui.NewApp(newTUIPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
