package cmd

import (
	"fmt"
	"strings"

	"github.com/budgie-app/budgie/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", newClient(cfg).BaseURL())
	if cfg.API.Token != "" {
		fmt.Printf("    Token:    %s\n", maskToken(cfg.API.Token))
	} else {
		fmt.Println("    Token:    not configured")
	}
	fmt.Printf("    Timeout:  %s\n", cfg.Timeout())
	fmt.Println()

	fmt.Println("  [Grid]")
	fmt.Printf("    Page size:   %d\n", cfg.Grid.PageSize)
	fmt.Printf("    Latest only: %v\n", cfg.Grid.LatestOnly)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Printf("  Environment overrides use the %s_ prefix, e.g. %s.\n",
		config.EnvPrefix, strings.Join([]string{config.EnvPrefix + "_API_URL", config.EnvPrefix + "_API_TOKEN"}, ", "))
	fmt.Println("  Run `budgie setup` to reconfigure.")
	return nil
}
