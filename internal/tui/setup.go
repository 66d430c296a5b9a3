package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/budgie-app/budgie/internal/config"
	"github.com/budgie-app/budgie/internal/grid"
	"github.com/budgie-app/budgie/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues are the fields the setup wizard edits.
type setupValues struct {
	BaseURL    string
	Token      string
	Theme      string
	PageSize   int
	LatestOnly bool
}

func valuesFrom(cfg config.Config) setupValues {
	return setupValues{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		Theme:      cfg.Appearance.Theme,
		PageSize:   cfg.Grid.PageSize,
		LatestOnly: cfg.Grid.LatestOnly,
	}
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("enter an http(s) URL, e.g. http://127.0.0.1:8000/api")
	}
	return nil
}

func newSetupForm(vals *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgie").
				Description("Connect to your budgeting API.\nRun `budgie setup` anytime to reconfigure."),
			huh.NewInput().
				Title("API base URL").
				Value(&vals.BaseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("API token").
				Description("Sent as a bearer token. Leave blank if the API is open.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.Token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
			huh.NewSelect[int]().
				Title("Rows per page").
				Options(huh.NewOptions(grid.DefaultPageSizes...)...).
				Value(&vals.PageSize),
			huh.NewConfirm().
				Title("Cancel a running fetch when a newer one starts?").
				Value(&vals.LatestOnly),
		),
	).WithShowHelp(true)
}

// applySetup returns cfg with the wizard values applied.
func applySetup(cfg config.Config, vals setupValues) config.Config {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(vals.BaseURL), "/")
	cfg.API.Token = strings.TrimSpace(vals.Token)
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
	}
	if vals.PageSize > 0 {
		cfg.Grid.PageSize = vals.PageSize
	}
	cfg.Grid.LatestOnly = vals.LatestOnly
	return cfg
}

// RunSetup runs the interactive setup wizard and saves the result.
// The returned config is usable even when saving fails.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := valuesFrom(cfg)
	if err := newSetupForm(&vals).Run(); err != nil {
		return cfg, fmt.Errorf("setup: %w", err)
	}

	cfg = applySetup(cfg, vals)
	theme.SetActive(cfg.Appearance.Theme)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}
