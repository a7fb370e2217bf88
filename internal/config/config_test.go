package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TIMETABLE_BASE_URL",
		"TIMETABLE_TOKEN",
		"TIMETABLE_INSTITUTE_ID",
		"TIMETABLE_TIMEOUT",
		"TIMETABLE_SNAPSHOT_PATH",
		"TIMETABLE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFrom_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[backend]
base_url = "https://api.example.edu"
token = "token-1"
institute_id = "inst-1"
timeout = "30s"

[snapshot]
path = "/tmp/timetable.db"

[log]
level = "debug"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.edu" {
		t.Errorf("expected base URL from file, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.InstituteID != "inst-1" {
		t.Errorf("expected institute from file, got %q", cfg.Backend.InstituteID)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMETABLE_BASE_URL", "https://api.example.edu")
	t.Setenv("TIMETABLE_TOKEN", "token-1")
	t.Setenv("TIMETABLE_INSTITUTE_ID", "inst-1")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Log.Level)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.Snapshot.Path == "" {
		t.Error("expected a default snapshot path")
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[backend]
base_url = "https://file.example.edu"
token = "file-token"
institute_id = "inst-1"
`)
	t.Setenv("TIMETABLE_BASE_URL", "https://env.example.edu")
	t.Setenv("TIMETABLE_TOKEN", "env-token")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend.BaseURL != "https://env.example.edu" {
		t.Errorf("expected env base URL to win, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Token != "env-token" {
		t.Errorf("expected env token to win, got %q", cfg.Backend.Token)
	}
}

func TestLoadFrom_ReportsEveryMissingSetting(t *testing.T) {
	clearEnv(t)

	_, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("expected an error for empty config")
	}
	for _, key := range []string{"backend.base_url", "backend.token", "backend.institute_id"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to mention %s, got %q", key, err)
		}
	}
}

func TestLoadFrom_ReportsInvalidValues(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[backend]
base_url = "ftp://api.example.edu"
token = "token-1"
institute_id = "inst-1"
timeout = "soon"

[log]
level = "loud"
`)

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected an error for invalid values")
	}
	for _, key := range []string{"backend.base_url", "backend.timeout", "log.level"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected error to mention %s, got %q", key, err)
		}
	}
}

func TestLoadFrom_RejectsMalformedTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `base_url = `)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConfig_ExpandsSnapshotPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMETABLE_BASE_URL", "https://api.example.edu")
	t.Setenv("TIMETABLE_TOKEN", "token-1")
	t.Setenv("TIMETABLE_INSTITUTE_ID", "inst-1")
	t.Setenv("TIMETABLE_SNAPSHOT_PATH", "~/cache/timetable.db")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if strings.HasPrefix(cfg.Snapshot.Path, "~") {
		t.Errorf("expected ~ to be expanded, got %q", cfg.Snapshot.Path)
	}
	if !strings.HasSuffix(cfg.Snapshot.Path, filepath.Join("cache", "timetable.db")) {
		t.Errorf("expected expanded path to keep the suffix, got %q", cfg.Snapshot.Path)
	}
}
