// Package daemon manages the buddy process lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // Timezone names resolve without a system zoneinfo

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Logging   LoggingConfig   `toml:"logging"`
	Buddy     BuddyConfig     `toml:"buddy"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxFiles   int    `toml:"max_files"`
	MaxAgeDays int    `toml:"max_age_days"`
	Console    bool   `toml:"console"`
}

// BuddyConfig controls onboarding defaults and the calendar used for days.
type BuddyConfig struct {
	DefaultUserName  string `toml:"default_user_name"`
	DefaultBuddyName string `toml:"default_buddy_name"`
	// FoundingUntil is the last local date (YYYY-MM-DD) on which onboarding
	// grants the founding-member achievement. Empty disables it.
	FoundingUntil string `toml:"founding_until"`
	// Timezone is an IANA name, or "Local".
	Timezone string `toml:"timezone"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := buddyHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7878,
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       filepath.Join(homeDir, "buddy.log"),
			MaxSizeMB:  20,
			MaxFiles:   5,
			MaxAgeDays: 30,
		},
		Buddy: BuddyConfig{
			DefaultUserName:  "AI Enthusiast",
			DefaultBuddyName: "Buddy",
			Timezone:         "Local",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.buddy/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	return loadConfigFile(ConfigPath())
}

func loadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot start with.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Buddy.FoundingUntil != "" {
		if _, err := time.Parse(time.DateOnly, c.Buddy.FoundingUntil); err != nil {
			return fmt.Errorf("buddy.founding_until: %w", err)
		}
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	switch c.Buddy.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Buddy.Timezone)
	if err != nil {
		return nil, fmt.Errorf("buddy.timezone: %w", err)
	}
	return loc, nil
}

// Addr is the listen address of the API server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// SaveConfig writes the config to ~/.buddy/config.toml.
func SaveConfig(cfg Config) error {
	return saveConfigFile(ConfigPath(), cfg)
}

func saveConfigFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigPath is the location of config.toml inside the data directory.
func ConfigPath() string {
	return filepath.Join(buddyHome(), "config.toml")
}

// buddyHome returns the buddy data directory.
func buddyHome() string {
	if env := os.Getenv("BUDDY_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".buddy")
}

// BuddyHome is exported for use by other packages.
func BuddyHome() string {
	return buddyHome()
}
