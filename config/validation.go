package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func (c *AppConfig) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.New("server baseURL must be specified")
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server baseURL: %s", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server baseURL must use http or https, got %s", u.Scheme)
	}

	if c.Realtime.URL != "" && !strings.HasPrefix(c.Realtime.URL, "ws://") &&
		!strings.HasPrefix(c.Realtime.URL, "wss://") {
		return fmt.Errorf("realtime URL must use ws or wss: %s", c.Realtime.URL)
	}

	if c.Server.RequestTimeout < 1 {
		return errors.New("request timeout must be at least 1 second")
	}

	if c.Realtime.HandshakeTimeout < 1 {
		return errors.New("handshake timeout must be at least 1 second")
	}

	if c.Realtime.ReconnectMin < 1 || c.Realtime.ReconnectMax < c.Realtime.ReconnectMin {
		return errors.New("reconnect backoff bounds must be positive and ordered")
	}

	if c.Health.Interval < 1 {
		return errors.New("health interval must be at least 1 second")
	}

	if c.Health.Timeout < 1 {
		return errors.New("health timeout must be at least 1 second")
	}

	if c.Storage.Dir == "" {
		return errors.New("storage dir must be specified")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return errors.New("invalid metrics port")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return errors.New("metrics path must start with /")
		}
	}

	return nil
}
