// Package daemon holds the service configuration: store location and
// backend, API listen address, ingestion settings, and the roster.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/deltap/pledgepoints/internal/domain"
)

// Config is the full service configuration, loaded from TOML.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	API     APIConfig     `toml:"api"`
	Ingest  IngestConfig  `toml:"ingest"`
	Roster  RosterConfig  `toml:"roster"`
	Metrics MetricsConfig `toml:"metrics"`
}

// StoreConfig selects and locates the ledger store.
type StoreConfig struct {
	// Backend is "sqlite" or "csv".
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	// LegacyCSV writes the boolean-flag CSV layout instead of the
	// tri-state one. Reads accept either.
	LegacyCSV bool `toml:"legacy_csv"`
}

// APIConfig configures the HTTP presentation layer.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// IngestConfig configures chat-history ingestion.
type IngestConfig struct {
	// ChannelID is the chat channel the collaborator reads from.
	ChannelID int64 `toml:"channel_id"`
	// AckIntervalMS is the minimum gap between acknowledgements.
	AckIntervalMS int `toml:"ack_interval_ms"`
	// DefaultLookbackDays is used when a command gives no window.
	DefaultLookbackDays int `toml:"default_lookback_days"`
}

// RosterConfig is the per-semester pledge whitelist and alias table.
// Empty values fall back to the seed roster.
type RosterConfig struct {
	Pledges []string          `toml:"pledges"`
	Aliases map[string]string `toml:"aliases"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    defaultStorePath(),
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8321,
		},
		Ingest: IngestConfig{
			AckIntervalMS:       200,
			DefaultLookbackDays: 7,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the config file at path over the defaults. A missing file
// is not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case "sqlite", "csv":
	default:
		return fmt.Errorf("store.backend must be \"sqlite\" or \"csv\", got %q", c.Store.Backend)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	return nil
}

// RosterOrDefault materializes the configured roster, falling back to
// the seed lists when a section is empty.
func (c Config) RosterOrDefault() domain.Roster {
	roster := domain.DefaultRoster()
	if len(c.Roster.Pledges) > 0 {
		roster.Pledges = c.Roster.Pledges
	}
	if len(c.Roster.Aliases) > 0 {
		roster.Aliases = c.Roster.Aliases
	}
	return roster
}

// DefaultConfigPath returns ~/.pledgepoints/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".pledgepoints", "config.toml")
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "points.db"
	}
	return filepath.Join(home, ".pledgepoints", "points.db")
}
