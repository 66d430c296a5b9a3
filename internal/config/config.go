// Package config loads budgie settings from a TOML file, a .env file and
// BUDGIE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/budgie-app/budgie/internal/grid"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BUDGIE_API_URL.
const EnvPrefix = "BUDGIE"

// Config holds all budgie configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Grid       GridConfig       `toml:"grid"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig holds the REST backend settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// GridConfig holds grid defaults.
type GridConfig struct {
	PageSize int `toml:"page_size"`
	// LatestOnly cancels an in-flight fetch when a newer one starts.
	LatestOnly bool `toml:"latest_only"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    "http://127.0.0.1:8000/api",
			TimeoutSec: 15,
		},
		Grid: GridConfig{
			PageSize: grid.DefaultPageSizes[0],
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the per-request API timeout.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// Validate reports settings that would break the client.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q: want an http(s) URL", c.API.BaseURL))
	}
	if !slices.Contains(grid.DefaultPageSizes, c.Grid.PageSize) {
		errs = append(errs, fmt.Errorf("grid.page_size %d: want one of %v", c.Grid.PageSize, grid.DefaultPageSizes))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q: %w", c.Log.Level, err))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgie")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgie")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, loads .env from the working directory and
// applies environment overrides. A missing file yields defaults.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	_ = godotenv.Load() // .env is optional
	return ApplyEnv(cfg), nil
}

// LoadFile reads the config at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays BUDGIE_API_URL, BUDGIE_API_TOKEN, BUDGIE_API_TIMEOUT_SEC,
// BUDGIE_PAGE_SIZE, BUDGIE_LATEST_ONLY, BUDGIE_THEME, BUDGIE_LOG_LEVEL and
// BUDGIE_LOG_FILE onto cfg.
func ApplyEnv(cfg Config) Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if s := strings.TrimSpace(v.GetString("api_url")); s != "" {
		cfg.API.BaseURL = s
	}
	if s := strings.TrimSpace(v.GetString("api_token")); s != "" {
		cfg.API.Token = s
	}
	if v.IsSet("api_timeout_sec") {
		if n := v.GetInt("api_timeout_sec"); n > 0 {
			cfg.API.TimeoutSec = n
		}
	}
	if v.IsSet("page_size") {
		if n := v.GetInt("page_size"); n > 0 {
			cfg.Grid.PageSize = n
		}
	}
	if v.IsSet("latest_only") {
		cfg.Grid.LatestOnly = v.GetBool("latest_only")
	}
	if s := strings.TrimSpace(v.GetString("theme")); s != "" {
		cfg.Appearance.Theme = s
	}
	if s := strings.TrimSpace(v.GetString("log_level")); s != "" {
		cfg.Log.Level = s
	}
	if s := strings.TrimSpace(v.GetString("log_file")); s != "" {
		cfg.Log.File = s
	}
	return cfg
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path. The file holds the API token and is
// created with mode 0600.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
