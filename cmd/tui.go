package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgie-app/budgie/internal/config"
	"github.com/budgie-app/budgie/internal/logging"
	"github.com/budgie-app/budgie/internal/notify"
	"github.com/budgie-app/budgie/internal/store"
	"github.com/budgie-app/budgie/internal/tui"
	"github.com/budgie-app/budgie/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive grids",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	// First run: ask for the API location before opening the grids.
	if !config.Exists() {
		var err error
		cfg, err = tui.RunSetup(cfg)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("setup incomplete, continuing with current settings")
		}
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The TUI owns the terminal: log to a file or not at all.
	if cfg.Log.File != "" {
		closeLog, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()
	} else {
		logging.Discard()
	}

	views, err := store.Open(store.DefaultPath())
	if err != nil {
		log.Warn().Err(err).Msg("saved views unavailable")
		views = nil
	} else {
		defer func() { _ = views.Close() }()
	}

	hub := notify.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.NewApp(ctx, tui.Options{
		Client:     newClient(cfg),
		Hub:        hub,
		Views:      views,
		PageSize:   cfg.Grid.PageSize,
		LatestOnly: cfg.Grid.LatestOnly,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
