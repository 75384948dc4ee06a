package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	// Connectivity monitor metrics
	HealthChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lobby_health_checks_total",
		Help: "The total number of server health checks, by result.",
	}, []string{"result"})
	OnlineStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lobby_online_status",
		Help: "Whether online play is currently available (1 online, 0 offline).",
	})

	// Session coordinator metrics
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobby_rooms_created_total",
		Help: "The total number of rooms created by this client.",
	})
	RoomsJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobby_rooms_joined_total",
		Help: "The total number of rooms joined by this client.",
	})
	RequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lobby_request_failures_total",
		Help: "The total number of failed lobby requests, by operation and kind.",
	}, []string{"operation", "kind"})

	// Realtime channel metrics
	ChannelReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobby_channel_reconnects_total",
		Help: "The total number of realtime channel redials.",
	})
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lobby_channel_events_received_total",
		Help: "The total number of server-pushed events received, by event name.",
	}, []string{"event"})
)

// StartServer starts the HTTP server for Prometheus metrics.
func StartServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logrus.WithField("addr", addr+path).Info("Starting metrics server")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logrus.WithError(err).Error("Metrics server stopped")
		}
	}()
}
