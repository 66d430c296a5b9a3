// Package cmd implements the budgie CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/budgie-app/budgie/internal/api"
	"github.com/budgie-app/budgie/internal/config"
	"github.com/budgie-app/budgie/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagAPIURL   string
	flagToken    string
	flagLogLevel string
	flagNoColor  bool
)

// appCfg is the resolved configuration, set before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "budgie",
	Short: "Terminal client for a budgeting REST API",
	Long:  "Browse and edit budgets, wallets, deposits, categories, transfers and expense predictions.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appCfg = cfg
		_, err = logging.Setup(logging.Options{Level: cfg.Log.Level, NoColor: flagNoColor})
		return err
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "  Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides config and "+config.EnvPrefix+"_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API bearer token")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored log output")
}

// loadConfig resolves file, .env, environment and flag settings, in that
// order of increasing precedence.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagToken != "" {
		cfg.API.Token = flagToken
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func newClient(cfg config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, cfg.API.Token, api.WithTimeout(cfg.Timeout()))
}

func maskToken(token string) string {
	if len(token) > 12 {
		return token[:4] + "..." + token[len(token)-4:]
	}
	if len(token) > 4 {
		return token[:2] + "..."
	}
	return "****"
}
