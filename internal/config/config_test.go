//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	// Should have at least one path
	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	// If we have home dir, first path should be ~/.config/airwaves/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "airwaves", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_LayeredFiles(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.toml", `
icons = "unicode"

[playback]
response_timeout = "15s"
stall_grace = "30s"
max_recoveries = 0

[catalog]
base_url = "https://nl1.api.radio-browser.info/json/"
user_agent = "custom/1.0"

[log]
level = "debug"
`)
	local := writeConfig(t, dir, "local.toml", `
icons = "none"

[theme]
accent = "#00aaff"

[verify]
concurrency = 4
cache_ttl = "1h"
`)

	cfg, err := loadFrom([]string{global, filepath.Join(dir, "missing.toml"), local})
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}

	if cfg.Icons != "none" {
		t.Errorf("Icons = %q, want none (local wins)", cfg.Icons)
	}
	if cfg.Theme.Accent != "#00aaff" {
		t.Errorf("Theme.Accent = %q, want #00aaff", cfg.Theme.Accent)
	}
	pb := cfg.GetPlaybackConfig()
	if pb.ResponseTimeout != 15*time.Second {
		t.Errorf("ResponseTimeout = %v, want 15s", pb.ResponseTimeout)
	}
	if pb.StallGrace != 30*time.Second {
		t.Errorf("StallGrace = %v, want 30s", pb.StallGrace)
	}
	if *pb.MaxRecoveries != 0 {
		t.Errorf("MaxRecoveries = %d, want 0", *pb.MaxRecoveries)
	}
	if cfg.Catalog.BaseURL != "https://nl1.api.radio-browser.info/json" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.UserAgent != "custom/1.0" {
		t.Errorf("UserAgent = %q", cfg.Catalog.UserAgent)
	}
	v := cfg.GetVerifyConfig()
	if v.Concurrency != 4 || v.CacheTTL != time.Hour {
		t.Errorf("verify = %+v, want concurrency 4 and 1h ttl", v)
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.toml", "[playback\nresponse_timeout = ")
	if _, err := loadFrom([]string{path}); err == nil {
		t.Error("loadFrom() error = nil, want parse error")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	pb := cfg.GetPlaybackConfig()
	if pb.ResponseTimeout != 20*time.Second || pb.StallGrace != 20*time.Second {
		t.Errorf("timeouts = %v/%v, want 20s/20s", pb.ResponseTimeout, pb.StallGrace)
	}
	if pb.MaxRecoveries == nil || *pb.MaxRecoveries != 1 {
		t.Errorf("MaxRecoveries = %v, want 1", pb.MaxRecoveries)
	}
	if pb.InitialVolume != nil {
		t.Errorf("InitialVolume = %v, want nil", *pb.InitialVolume)
	}
	if cfg.FFmpegPath() != "ffmpeg" {
		t.Errorf("FFmpegPath() = %q, want ffmpeg", cfg.FFmpegPath())
	}
	if got := cfg.GetCatalogConfig().Timeout; got != 10*time.Second {
		t.Errorf("catalog Timeout = %v, want 10s", got)
	}
	v := cfg.GetVerifyConfig()
	if v.Timeout != 8*time.Second || v.Concurrency != 8 || v.CacheTTL != 10*time.Minute {
		t.Errorf("verify defaults = %+v", v)
	}
	if cfg.AlarmPollInterval() != 30*time.Second {
		t.Errorf("AlarmPollInterval() = %v, want 30s", cfg.AlarmPollInterval())
	}
	if cfg.HistoryLimit() != 50 {
		t.Errorf("HistoryLimit() = %d, want 50", cfg.HistoryLimit())
	}
	if cfg.LogLevel() != "info" {
		t.Errorf("LogLevel() = %q, want info", cfg.LogLevel())
	}
}

func TestGetPlaybackConfig_InvalidValues(t *testing.T) {
	negative := -3
	loud := 1.5
	cfg := &Config{Playback: PlaybackConfig{
		ResponseTimeout: -time.Second,
		MaxRecoveries:   &negative,
		InitialVolume:   &loud,
	}}

	pb := cfg.GetPlaybackConfig()
	if pb.ResponseTimeout != 20*time.Second {
		t.Errorf("ResponseTimeout = %v, want default", pb.ResponseTimeout)
	}
	if *pb.MaxRecoveries != 1 {
		t.Errorf("MaxRecoveries = %d, want default 1", *pb.MaxRecoveries)
	}
	if pb.InitialVolume != nil {
		t.Errorf("InitialVolume = %v, want nil for out-of-range value", *pb.InitialVolume)
	}
}

func TestGetVerifyConfig_ConcurrencyBounds(t *testing.T) {
	for _, n := range []int{-1, 0, 33, 1000} {
		cfg := &Config{Verify: VerifyConfig{Concurrency: n}}
		if got := cfg.GetVerifyConfig().Concurrency; got != 8 {
			t.Errorf("Concurrency(%d) = %d, want 8", n, got)
		}
	}
	cfg := &Config{Verify: VerifyConfig{Concurrency: 32}}
	if got := cfg.GetVerifyConfig().Concurrency; got != 32 {
		t.Errorf("Concurrency(32) = %d, want 32", got)
	}
}
