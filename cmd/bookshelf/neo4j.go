package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/config"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/graph"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/home"
)

var neo4jCmd = &cobra.Command{
	Use:   "neo4j",
	Short: "Manage the Neo4j container",
	Long: `Manage the Neo4j container lifecycle.

Neo4j holds the classification graph. The database runs in a Docker
container with data persisted to ~/.growth-bookshelf/neo4j/.

Examples:
  bookshelf neo4j start   # Start the Neo4j container
  bookshelf neo4j stop    # Stop the container (data preserved)
  bookshelf neo4j status  # Check container status
  bookshelf neo4j logs    # View container logs`,
}

var neo4jStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Neo4j container",
	Long: `Start the Neo4j container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.

Data is persisted to ~/.growth-bookshelf/neo4j/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting Neo4j...")
		if err := mgr.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start Neo4j: %w", err)
		}

		fmt.Printf("Neo4j is running at %s\n", mgr.BoltURL())
		return nil
	},
}

var neo4jStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Neo4j container",
	Long: `Stop the Neo4j container.

This stops the container but preserves data. Use 'bookshelf neo4j start'
to restart it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping Neo4j...")
		if err := mgr.Stop(cmd.Context()); err != nil {
			return fmt.Errorf("failed to stop Neo4j: %w", err)
		}

		fmt.Println("Neo4j stopped")
		return nil
	},
}

var neo4jStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Neo4j container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case graph.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("Bolt: %s\n", mgr.BoltURL())
		case graph.StatusStopped:
			fmt.Printf("Status: %s (use 'bookshelf neo4j start' to start)\n", status)
		case graph.StatusNotFound:
			fmt.Printf("Status: %s (use 'bookshelf neo4j start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var neo4jLogsTail string

var neo4jLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show Neo4j container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), neo4jLogsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var neo4jRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the Neo4j container",
	Long: `Remove the Neo4j container.

This stops and removes the container. Data in ~/.growth-bookshelf/neo4j/
is NOT deleted - only the container is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing Neo4j container...")
		if err := mgr.Remove(cmd.Context()); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Neo4j container removed (data preserved)")
		return nil
	},
}

var neo4jWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for Neo4j to be ready",
	Long: `Wait for Neo4j to be ready to accept connections.

This is useful in scripts to ensure Neo4j is fully started before
running other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := neo4jManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for Neo4j (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(cmd.Context(), timeout); err != nil {
			return fmt.Errorf("Neo4j not ready: %w", err)
		}

		fmt.Println("Neo4j is ready")
		return nil
	},
}

func init() {
	neo4jCmd.AddCommand(neo4jStartCmd)
	neo4jCmd.AddCommand(neo4jStopCmd)
	neo4jCmd.AddCommand(neo4jStatusCmd)
	neo4jCmd.AddCommand(neo4jLogsCmd)
	neo4jCmd.AddCommand(neo4jRemoveCmd)
	neo4jCmd.AddCommand(neo4jWaitCmd)

	neo4jLogsCmd.Flags().StringVar(&neo4jLogsTail, "tail", "100", "Number of lines to show from the end")
	neo4jWaitCmd.Flags().Duration("timeout", 60*time.Second, "Timeout waiting for Neo4j")

	rootCmd.AddCommand(neo4jCmd)
}

// getHome returns the home directory manager.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// neo4jManager creates a DockerManager from the loaded configuration.
func neo4jManager() (*graph.DockerManager, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	if err := h.EnsureNeo4jDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	conf := cm.Get()

	return graph.NewDockerManager(graph.DockerConfig{
		ContainerName: conf.Neo4j.Container.Name,
		Image:         conf.Neo4j.Container.Image,
		DataPath:      h.Neo4jDataPath(),
		BoltPort:      conf.Neo4j.Container.BoltPort,
		HTTPPort:      conf.Neo4j.Container.HTTPPort,
		Username:      conf.Neo4j.Username,
		Password:      conf.Neo4jPassword(),
	})
}
