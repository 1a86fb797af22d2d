// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Discovery DiscoveryConfig `toml:"discovery"`
	View      ViewConfig      `toml:"view"`
	Chat      ChatConfig      `toml:"chat"`
	Pen       PenConfig       `toml:"pen"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig locates the canvas server. URL is the page location the
// canvas is served from; empty falls back to discovery.
type ServerConfig struct {
	URL              string `toml:"url"`
	ReconnectDelayMS int    `toml:"reconnect_delay_ms"`
}

// DiscoveryConfig controls mDNS lookup when no URL is set.
type DiscoveryConfig struct {
	Enabled   bool   `toml:"enabled"`
	Service   string `toml:"service"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// ViewConfig holds view transform and gesture settings.
type ViewConfig struct {
	Padding        float64 `toml:"padding"`
	MinScale       float64 `toml:"min_scale"`
	ClickTolerance float64 `toml:"click_tolerance"`
	ZoomStep       float64 `toml:"zoom_step"`
}

// ChatConfig holds chat settings.
type ChatConfig struct {
	LogMessages bool `toml:"log_messages"`
}

// PenConfig throttles pen mode.
type PenConfig struct {
	PixelsPerSecond float64 `toml:"pixels_per_second"`
	Burst           int     `toml:"burst"`
}

// LogConfig selects the log level and sink. An empty File logs to stderr.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ReconnectDelayMS: 1000,
		},
		Discovery: DiscoveryConfig{
			Enabled:   true,
			Service:   "_place._tcp",
			TimeoutMS: 1500,
		},
		View: ViewConfig{
			Padding:        20,
			MinScale:       0.1,
			ClickTolerance: 4,
			ZoomStep:       1.25,
		},
		Pen: PenConfig{
			PixelsPerSecond: 60,
			Burst:           20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ReconnectDelay returns the fixed wait between connection attempts.
func (c ServerConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMS) * time.Millisecond
}

// Timeout returns how long discovery listens for answers.
func (c DiscoveryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Load reads configuration from a TOML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("PLACE_SERVER_URL"); ok {
		cfg.Server.URL = v
	}

	if v := os.Getenv("PLACE_RECONNECT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.ReconnectDelayMS = n
		}
	}

	if v := os.Getenv("PLACE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("PLACE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	if v := os.Getenv("PLACE_CHAT_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chat.LogMessages = b
		}
	}

	if v := os.Getenv("PLACE_DISCOVERY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Discovery.Enabled = b
		}
	}
}
