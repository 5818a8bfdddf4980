package main

import (
	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running bookshelf server via HTTP.

These commands require a running server (bookshelf serve).
Use --server to specify a custom server URL.

Examples:
  bookshelf api health               # Check server health
  bookshelf api search "夏目漱石"     # Search the catalog
  bookshelf api hand list            # List books in hand
  bookshelf api shelf                # Show the shelf grid`,
}

var handCmd = &cobra.Command{
	Use:   "hand",
	Short: "Manage the staged book list",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Catalog search and shelf view
	apiCmd.AddCommand((&endpoints.SearchEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ShelfEndpoint{}).Command(getServerURL))

	// Hand as subcommand group
	handCmd.AddCommand(renamed((&endpoints.HandListEndpoint{}).Command(getServerURL), "list"))
	handCmd.AddCommand(renamed((&endpoints.AddToHandEndpoint{}).Command(getServerURL), "add <isbn>"))
	handCmd.AddCommand(renamed((&endpoints.RemoveFromHandEndpoint{}).Command(getServerURL), "remove <isbn>"))
	handCmd.AddCommand((&endpoints.AddFromHandEndpoint{}).Command(getServerURL))

	// Swagger spec
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerUIEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(handCmd)
	rootCmd.AddCommand(apiCmd)
}

// renamed shortens an endpoint command's Use line for its group.
func renamed(cmd *cobra.Command, use string) *cobra.Command {
	cmd.Use = use
	return cmd
}
