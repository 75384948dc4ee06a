package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.baseURL", "http://localhost:8080")
	v.SetDefault("server.requestTimeout", 10)
	v.SetDefault("server.lobbyPage", "menu.html")

	// Realtime channel
	v.SetDefault("realtime.url", "")
	v.SetDefault("realtime.handshakeTimeout", 10)
	v.SetDefault("realtime.reconnectMin", 500)
	v.SetDefault("realtime.reconnectMax", 15000)

	// Connectivity monitor
	v.SetDefault("health.interval", 5)
	v.SetDefault("health.timeout", 5)

	// Local storage
	v.SetDefault("storage.dir", ".duolobby")

	// Metrics
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
