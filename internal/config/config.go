// Package config loads and saves meshroi settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

// Config holds all meshroi configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Defaults   costmodel.Params `toml:"defaults"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Store      StoreConfig      `toml:"store"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	HorizonMonths int    `toml:"horizon_months" env:"MESHROI_HORIZON"`
	Currency      string `toml:"currency" env:"MESHROI_CURRENCY"`
	Unit          string `toml:"unit" env:"MESHROI_UNIT"`
	TableEvery    int    `toml:"table_every"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"MESHROI_THEME"`
}

// DaemonConfig holds HTTP service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr" env:"MESHROI_DAEMON_ADDR"`
	EventsBuffer int    `toml:"events_buffer"`
}

// StoreConfig holds the scenario database location. An empty path means
// the default under the cache directory.
type StoreConfig struct {
	Path string `toml:"path,omitempty" env:"MESHROI_STORE_PATH"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HorizonMonths: projection.DefaultHorizonMonths,
			Currency:      "₹",
			Unit:          "L",
			TableEvery:    3,
		},
		Defaults: costmodel.Defaults(),
		Appearance: AppearanceConfig{
			Theme: "ledger",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
	}
}

// pathOverride is set by the --config flag.
var pathOverride string

// SetPath points Load and Save at an explicit file.
func SetPath(p string) {
	pathOverride = p
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "meshroi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "meshroi")
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment variables override file values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if cfg.General.HorizonMonths <= 0 {
		cfg.General.HorizonMonths = projection.DefaultHorizonMonths
	}
	if cfg.General.TableEvery <= 0 {
		cfg.General.TableEvery = 1
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(Path()), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
