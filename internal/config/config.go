package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Icons string `koanf:"icons"` // "nerd", "unicode", or "none"

	Theme    ThemeConfig    `koanf:"theme"`

	Playback PlaybackConfig `koanf:"playback"`
	FFmpeg   FFmpegConfig   `koanf:"ffmpeg"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Verify   VerifyConfig   `koanf:"verify"`
	Alarm    AlarmConfig    `koanf:"alarm"`
	History  HistoryConfig  `koanf:"history"`
	Log      LogConfig      `koanf:"log"`
}

// ThemeConfig overrides the accent colors as "#rrggbb".
type ThemeConfig struct {
	Accent    string `koanf:"accent"`
	Secondary string `koanf:"secondary"`
}

// PlaybackConfig holds playback session tuning.
type PlaybackConfig struct {
	ResponseTimeout time.Duration `koanf:"response_timeout"` // wait for first audio (default: 20s)
	StallGrace      time.Duration `koanf:"stall_grace"`      // wait after audio stops (default: 20s)
	MaxRecoveries   *int          `koanf:"max_recoveries"`   // in-place retries per attempt (default: 1)
	InitialVolume   *float64      `koanf:"initial_volume"`   // used when no volume was saved (0.0-1.0)
}

// FFmpegConfig locates the ffmpeg binary used for HLS and AAC streams.
type FFmpegConfig struct {
	Path string `koanf:"path"` // default: "ffmpeg" from PATH
}

// CatalogConfig holds Radio Browser settings.
type CatalogConfig struct {
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"` // default: 10s
}

// VerifyConfig holds stream verification settings.
type VerifyConfig struct {
	Timeout     time.Duration `koanf:"timeout"`     // per probe (default: 8s)
	Concurrency int           `koanf:"concurrency"` // parallel probes (default: 8)
	CacheTTL    time.Duration `koanf:"cache_ttl"`   // default: 10m
}

// AlarmConfig holds wake alarm settings. The alarm itself lives in the database.
type AlarmConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"` // default: 30s
}

// HistoryConfig holds play history settings.
type HistoryConfig struct {
	Limit int `koanf:"limit"` // default: 50
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: xdg state dir
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Catalog.BaseURL = strings.TrimSuffix(cfg.Catalog.BaseURL, "/")
	if cfg.FFmpeg.Path != "" {
		cfg.FFmpeg.Path = expandPath(cfg.FFmpeg.Path)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/airwaves/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "airwaves", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = 20 * time.Second
	}
	if cfg.StallGrace <= 0 {
		cfg.StallGrace = 20 * time.Second
	}
	if cfg.MaxRecoveries == nil || *cfg.MaxRecoveries < 0 {
		n := 1
		cfg.MaxRecoveries = &n
	}
	if cfg.InitialVolume != nil && (*cfg.InitialVolume < 0 || *cfg.InitialVolume > 1) {
		cfg.InitialVolume = nil
	}

	return cfg
}

// FFmpegPath returns the configured ffmpeg binary, "ffmpeg" by default.
func (c *Config) FFmpegPath() string {
	if c.FFmpeg.Path == "" {
		return "ffmpeg"
	}
	return c.FFmpeg.Path
}

// GetCatalogConfig returns the catalog configuration with defaults applied.
// Empty BaseURL and UserAgent mean the catalog client defaults.
func (c *Config) GetCatalogConfig() CatalogConfig {
	cfg := c.Catalog
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg
}

// GetVerifyConfig returns the verification configuration with defaults applied.
func (c *Config) GetVerifyConfig() VerifyConfig {
	cfg := c.Verify
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Concurrency <= 0 || cfg.Concurrency > 32 {
		cfg.Concurrency = 8
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return cfg
}

// AlarmPollInterval returns the alarm poll interval, 30s by default.
func (c *Config) AlarmPollInterval() time.Duration {
	if c.Alarm.PollInterval <= 0 {
		return 30 * time.Second
	}
	return c.Alarm.PollInterval
}

// HistoryLimit returns the history size, 50 by default.
func (c *Config) HistoryLimit() int {
	if c.History.Limit <= 0 {
		return 50
	}
	return c.History.Limit
}

// LogLevel returns the configured log level name, "info" by default.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Log.Level)
}
