package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bookshelf configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default configuration to the home directory.

Secrets reference environment variables (${GOOGLE_BOOKS_API_KEY},
${NEO4J_PASSWORD}) so the file itself stays safe to commit or share.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		path := h.ConfigPath()
		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		return api.Output(cm.Get())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
