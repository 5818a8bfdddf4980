package main

import (
	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Personal bookshelf with an NDC classification graph",
	Long: `Growth Bookshelf searches Japan's National Diet Library catalog and
organizes the books you own on a virtual shelf.

Books are classified into the NDC (Nippon Decimal Classification)
hierarchy stored in Neo4j, and the shelf layout groups neighbors by
classification so related books sit side by side.

Typical flow:
  - Search the catalog and stage books "in hand"
  - Shelve the staged books, optionally with a note on why you own them
  - View the packed shelf grid`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.growth-bookshelf/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookshelf home directory (default: ~/.growth-bookshelf)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
