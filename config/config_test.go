package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("Unexpected default baseURL: %q", cfg.Server.BaseURL)
	}
	if cfg.Server.RequestTimeout != 10 {
		t.Errorf("Unexpected default request timeout: %d", cfg.Server.RequestTimeout)
	}
	if cfg.Server.LobbyPage != "menu.html" {
		t.Errorf("Unexpected default lobby page: %q", cfg.Server.LobbyPage)
	}
	if cfg.Health.Interval != 5 || cfg.Health.Timeout != 5 {
		t.Errorf("Unexpected health defaults: interval=%d timeout=%d", cfg.Health.Interval, cfg.Health.Timeout)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled by default")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  baseurl: https://lobby.example.com
health:
  interval: 3
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "https://lobby.example.com" {
		t.Errorf("Expected baseURL from file, got %q", cfg.Server.BaseURL)
	}
	if cfg.Health.Interval != 3 {
		t.Errorf("Expected health interval from file, got %d", cfg.Health.Interval)
	}

	// Untouched values keep their defaults.
	if cfg.Health.Timeout != 5 {
		t.Errorf("Expected default health timeout, got %d", cfg.Health.Timeout)
	}
}

func validConfig() *AppConfig {
	return &AppConfig{
		Server:   ServerConfig{BaseURL: "http://localhost:8080", RequestTimeout: 10, LobbyPage: "menu.html"},
		Realtime: RealtimeConfig{HandshakeTimeout: 10, ReconnectMin: 500, ReconnectMax: 15000},
		Health:   HealthConfig{Interval: 5, Timeout: 5},
		Storage:  StorageConfig{Dir: ".duolobby"},
		Metrics:  MetricsConfig{Enabled: false},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid defaults", func(c *AppConfig) {}, false},
		{"missing baseURL", func(c *AppConfig) { c.Server.BaseURL = "" }, true},
		{"bad baseURL scheme", func(c *AppConfig) { c.Server.BaseURL = "ftp://host" }, true},
		{"baseURL without host", func(c *AppConfig) { c.Server.BaseURL = "http://" }, true},
		{"realtime URL wrong scheme", func(c *AppConfig) { c.Realtime.URL = "http://host/ws" }, true},
		{"realtime URL ws ok", func(c *AppConfig) { c.Realtime.URL = "ws://host/ws" }, false},
		{"realtime URL wss ok", func(c *AppConfig) { c.Realtime.URL = "wss://host/ws" }, false},
		{"zero request timeout", func(c *AppConfig) { c.Server.RequestTimeout = 0 }, true},
		{"zero handshake timeout", func(c *AppConfig) { c.Realtime.HandshakeTimeout = 0 }, true},
		{"inverted backoff bounds", func(c *AppConfig) { c.Realtime.ReconnectMax = 100; c.Realtime.ReconnectMin = 500 }, true},
		{"zero health interval", func(c *AppConfig) { c.Health.Interval = 0 }, true},
		{"zero health timeout", func(c *AppConfig) { c.Health.Timeout = 0 }, true},
		{"missing storage dir", func(c *AppConfig) { c.Storage.Dir = "" }, true},
		{"metrics enabled bad port", func(c *AppConfig) { c.Metrics.Enabled = true; c.Metrics.Port = 0; c.Metrics.Path = "/metrics" }, true},
		{"metrics enabled bad path", func(c *AppConfig) { c.Metrics.Enabled = true; c.Metrics.Port = 9090; c.Metrics.Path = "metrics" }, true},
		{"metrics enabled ok", func(c *AppConfig) { c.Metrics.Enabled = true; c.Metrics.Port = 9090; c.Metrics.Path = "/metrics" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRealtimeURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		explicit string
		want     string
	}{
		{"derived from http", "http://localhost:8080", "", "ws://localhost:8080/ws"},
		{"derived from https", "https://lobby.example.com", "", "wss://lobby.example.com/ws"},
		{"trailing slash trimmed", "http://localhost:8080/", "", "ws://localhost:8080/ws"},
		{"explicit wins", "http://localhost:8080", "wss://other.example.com/socket", "wss://other.example.com/socket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.BaseURL = tt.baseURL
			cfg.Realtime.URL = tt.explicit
			if got := cfg.RealtimeURL(); got != tt.want {
				t.Errorf("RealtimeURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
