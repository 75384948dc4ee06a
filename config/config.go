package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds every tunable of the lobby client. Values come from
// config.yaml (optional), environment variables prefixed with DUOLOBBY,
// and the defaults in defaults.go, in that order of precedence.
type AppConfig struct {
	Server   ServerConfig
	Realtime RealtimeConfig
	Health   HealthConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	BaseURL        string
	RequestTimeout int // Seconds
	LobbyPage      string
}

type RealtimeConfig struct {
	URL              string // Derived from Server.BaseURL when empty
	HandshakeTimeout int    // Seconds
	ReconnectMin     int    // Milliseconds
	ReconnectMax     int    // Milliseconds
}

type HealthConfig struct {
	Interval int // Seconds
	Timeout  int // Seconds
}

type StorageConfig struct {
	Dir string
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// Load reads the configuration from the given directory (and the working
// directory), applies defaults and environment overrides, and validates the
// result.
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("DUOLOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// The config file is optional; env vars and defaults are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// RealtimeURL returns the websocket endpoint, deriving it from the REST base
// URL when no explicit realtime URL was configured.
func (c *AppConfig) RealtimeURL() string {
	if c.Realtime.URL != "" {
		return c.Realtime.URL
	}

	url := c.Server.BaseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return strings.TrimSuffix(url, "/") + "/ws"
}
