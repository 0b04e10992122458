package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intentmatch/internal/adapters/driving/mcp"
	"github.com/custodia-labs/intentmatch/internal/adapters/driving/watcher"
	"github.com/custodia-labs/intentmatch/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the match_product tool and the intentmatch://categories,
intentmatch://catalog and intentmatch://products/{id} resources.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --watch to reload the catalog whenever the given file changes.

Examples:
  # Stdio mode (default, for Claude Desktop)
  intentmatch mcp serve

  # HTTP mode with live catalog reloads
  intentmatch mcp serve --port 8080 --watch products.csv

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "intentmatch": {
        "command": "/path/to/intentmatch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("watch", "", "catalog file to load and reload on change")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchPath, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ports := &mcp.Ports{
		Match:   matchService,
		Catalog: catalogService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if watchPath != "" {
		if catalogService == nil {
			return errCatalogServiceMissing
		}
		if _, err := catalogService.Load(ctx, watchPath); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		w, err := watcher.New(catalogService, watchPath)
		if err != nil {
			return err
		}
		reloads, err := w.Watch(ctx)
		if err != nil {
			return err
		}
		// Stdout carries JSON-RPC in stdio mode, so reload outcomes are only logged.
		go func() {
			for r := range reloads {
				if r.Err != nil {
					logger.Warn("mcp: catalog reload failed: %v", r.Err)
				}
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
