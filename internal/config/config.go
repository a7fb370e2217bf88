// Package config handles configuration loading from files, defaults, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the console configuration.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig holds connection settings for the timetable backend.
type BackendConfig struct {
	BaseURL     string `toml:"base_url"`     // e.g., "https://api.example.edu"
	Token       string `toml:"token"`        // bearer token for every request
	InstituteID string `toml:"institute_id"` // institute whose timetables are managed
	Timeout     string `toml:"timeout"`      // e.g., "15s"
}

// SnapshotConfig holds the offline cache settings.
type SnapshotConfig struct {
	Path string `toml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Timeout: "15s",
		},
		Snapshot: SnapshotConfig{
			Path: defaultSnapshotPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timetable.db"
	}
	return filepath.Join(home, ".local", "share", "timetable-console", "timetable.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timetable-console", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and
// environment variables.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path. It starts with
// defaults, overlays the file if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	cfg.Snapshot.Path = expandPath(cfg.Snapshot.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_BASE_URL")); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_TOKEN")); v != "" {
		cfg.Backend.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_INSTITUTE_ID")); v != "" {
		cfg.Backend.InstituteID = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_TIMEOUT")); v != "" {
		cfg.Backend.Timeout = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_SNAPSHOT_PATH")); v != "" {
		cfg.Snapshot.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMETABLE_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks required values and reports every missing or malformed
// entry at once.
func (c *Config) Validate() error {
	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		missing = append(missing, "backend.base_url")
	} else if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		invalid = append(invalid, "backend.base_url")
	}
	if strings.TrimSpace(c.Backend.Token) == "" {
		missing = append(missing, "backend.token")
	}
	if strings.TrimSpace(c.Backend.InstituteID) == "" {
		missing = append(missing, "backend.institute_id")
	}
	if c.Backend.Timeout != "" {
		if timeout, err := time.ParseDuration(c.Backend.Timeout); err != nil || timeout <= 0 {
			invalid = append(invalid, "backend.timeout")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log.level")
	}
	if strings.TrimSpace(c.Snapshot.Path) == "" {
		missing = append(missing, "snapshot.path")
	}

	if len(missing) > 0 {
		return fmt.Errorf("required settings are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("settings have invalid values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// RequestTimeout returns the backend timeout as a duration. Validate must
// have accepted the config first.
func (c *Config) RequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || timeout <= 0 {
		return 15 * time.Second
	}
	return timeout
}
