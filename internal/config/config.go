// Package config loads the sousdeck configuration from a TOML file,
// applies defaults, and validates it. Endpoints and the service mode
// can also come from flags/env in main; this file is the single source
// of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Service modes.
const (
	ModeLocal = "local" // in-process timer service, simulated probe, sqlite pantry
	ModeHub   = "hub"   // kitchen-hub HTTP gateway for timers and probe
)

// Config is the full application configuration.
type Config struct {
	Session  SessionConfig  `toml:"session"`
	Poll     PollConfig     `toml:"poll"`
	Services ServicesConfig `toml:"services"`
	Storage  StorageConfig  `toml:"storage"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// SessionConfig covers the cooking session itself.
type SessionConfig struct {
	Servings int `toml:"servings"`
}

// PollConfig holds the two independent poll cadences. They are never
// coupled: a slow probe poll must not delay timer updates.
type PollConfig struct {
	TimerSeconds int `toml:"timer_seconds"`
	ProbeSeconds int `toml:"probe_seconds"`
}

// TimerInterval returns the timer poll cadence as a duration.
func (p PollConfig) TimerInterval() time.Duration {
	return time.Duration(p.TimerSeconds) * time.Second
}

// ProbeInterval returns the probe poll cadence as a duration.
func (p PollConfig) ProbeInterval() time.Duration {
	return time.Duration(p.ProbeSeconds) * time.Second
}

// ServicesConfig selects and locates the external services.
type ServicesConfig struct {
	Mode     string `toml:"mode"`
	HubURL   string `toml:"hub_url"`
	HubToken string `toml:"hub_token"`
}

// StorageConfig locates the sqlite pantry/meal database.
type StorageConfig struct {
	Path string `toml:"path"`
}

// MetricsConfig controls the optional prometheus listener.
type MetricsConfig struct {
	Addr string `toml:"addr"` // empty disables the listener
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Session:  SessionConfig{Servings: 4},
		Poll:     PollConfig{TimerSeconds: 1, ProbeSeconds: 3},
		Services: ServicesConfig{Mode: ModeLocal},
		Storage:  StorageConfig{Path: ".sousdeck/sousdeck.db"},
	}
}

// Load reads the config file at path. A missing file is not an error:
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Session.Servings == 0 {
		cfg.Session.Servings = def.Session.Servings
	}
	if cfg.Poll.TimerSeconds == 0 {
		cfg.Poll.TimerSeconds = def.Poll.TimerSeconds
	}
	if cfg.Poll.ProbeSeconds == 0 {
		cfg.Poll.ProbeSeconds = def.Poll.ProbeSeconds
	}
	if cfg.Services.Mode == "" {
		cfg.Services.Mode = def.Services.Mode
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = def.Storage.Path
	}
}

// Validate rejects configurations the session loop cannot run with.
func (c Config) Validate() error {
	if c.Session.Servings < 1 {
		return fmt.Errorf("session.servings must be at least 1, got %d", c.Session.Servings)
	}
	if c.Poll.TimerSeconds < 1 {
		return fmt.Errorf("poll.timer_seconds must be at least 1, got %d", c.Poll.TimerSeconds)
	}
	if c.Poll.ProbeSeconds < 1 {
		return fmt.Errorf("poll.probe_seconds must be at least 1, got %d", c.Poll.ProbeSeconds)
	}
	switch c.Services.Mode {
	case ModeLocal:
	case ModeHub:
		if c.Services.HubURL == "" {
			return errors.New("services.hub_url is required in hub mode")
		}
	default:
		return fmt.Errorf("services.mode must be %q or %q, got %q", ModeLocal, ModeHub, c.Services.Mode)
	}
	return nil
}
