package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/config"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/home"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bookshelf server",
	Long: `Start the bookshelf HTTP server.

When neo4j.manage_container is enabled the Neo4j container is started
alongside the server and stopped again on shutdown (via Ctrl+C or
SIGTERM).

The server provides:
  - /health - Basic server health check
  - /ready  - Readiness check (includes Neo4j status)
  - /search - Catalog search
  - /shelf  - The packed shelf grid

Examples:
  bookshelf serve                    # Start on default port 8080
  bookshelf serve --port 3000        # Start on custom port
  bookshelf serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config with hot reload
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
