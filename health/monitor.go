package health

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmoreno/duolobby/metrics"
	"github.com/lmoreno/duolobby/storage"
)

// Status is the monitor's two-valued view of whether online play is possible.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// LocalKeyOnlineStatus is the local-store key caching the last known status.
// The cached value is advisory; the monitor re-derives it on every check.
const LocalKeyOnlineStatus = "onlineStatus"

// Hint and indicator texts for the online-play affordance.
const (
	hintOnline       = "Click to play online (Requires internet)"
	hintOffline      = "You must be online to play online games."
	indicatorOnline  = "You are online."
	indicatorOffline = "You are offline."
)

// Checker probes server liveness. *rest.Client satisfies it.
type Checker interface {
	Healthcheck(ctx context.Context) error
}

// LinkProber reports whether the machine has any network link at all, the
// analog of the browser's navigator.onLine. When it says no, the monitor goes
// offline without bothering the server.
type LinkProber interface {
	Reachable() bool
}

// Affordance is the UI surface the monitor drives.
type Affordance interface {
	// SetOnlinePlay enables or disables the online-play entry point and
	// updates its hint text.
	SetOnlinePlay(enabled bool, hint string)

	// CollapseOnlineOptions force-closes the expanded online options panel.
	CollapseOnlineOptions()

	// SetIndicator updates the persistent status indicator.
	SetIndicator(text string, online bool)
}

// Options tunes the monitor. Zero values fall back to the 5-second defaults.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Monitor polls network reachability and server liveness.
type Monitor struct {
	checker  Checker
	prober   LinkProber
	cache    *storage.LocalStore
	ui       Affordance
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry

	poke chan struct{}

	mu     sync.Mutex
	status Status
}

// NewMonitor creates a monitor. It does not evaluate until Run or Evaluate is
// called.
func NewMonitor(checker Checker, prober LinkProber, cache *storage.LocalStore, ui Affordance, opts Options) *Monitor {
	if opts.Interval == 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}

	return &Monitor{
		checker:  checker,
		prober:   prober,
		cache:    cache,
		ui:       ui,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      logrus.WithField("component", "health"),
		poke:     make(chan struct{}, 1),
		status:   StatusOffline,
	}
}

// Status returns the last applied status.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Poke requests an immediate re-evaluation, the analog of a browser
// online/offline transition event. It never blocks; a pending poke is enough.
func (m *Monitor) Poke() {
	select {
	case m.poke <- struct{}{}:
	default:
	}
}

// Run evaluates once immediately and then keeps evaluating on pokes and on
// the fixed interval, re-arming the timer after each evaluation. It returns
// when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.Evaluate(ctx)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.poke:
			m.Evaluate(ctx)
		case <-timer.C:
			m.Evaluate(ctx)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(m.interval)
	}
}

// Evaluate derives the current status and applies it. With no link, it goes
// offline without issuing a probe. Otherwise it probes the server under the
// configured timeout; a timeout, a transport failure, and a non-success
// status all count as offline.
func (m *Monitor) Evaluate(ctx context.Context) {
	if !m.prober.Reachable() {
		m.apply(StatusOffline)
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.checker.Healthcheck(probeCtx); err != nil {
		m.log.WithError(err).Debug("Server is offline or unreachable")
		metrics.HealthChecks.WithLabelValues("failure").Inc()
		m.apply(StatusOffline)
		return
	}

	metrics.HealthChecks.WithLabelValues("success").Inc()
	m.apply(StatusOnline)
}

// apply persists the status and updates the UI. Every evaluation branch ends
// here.
func (m *Monitor) apply(status Status) {
	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if err := m.cache.Set(LocalKeyOnlineStatus, string(status)); err != nil {
		m.log.WithError(err).Warn("Failed to cache connectivity status")
	}

	switch status {
	case StatusOnline:
		metrics.OnlineStatus.Set(1)
		m.ui.SetOnlinePlay(true, hintOnline)
		m.ui.SetIndicator(indicatorOnline, true)
	case StatusOffline:
		metrics.OnlineStatus.Set(0)
		m.ui.SetOnlinePlay(false, hintOffline)
		m.ui.CollapseOnlineOptions()
		m.ui.SetIndicator(indicatorOffline, false)
	}

	if previous != status {
		m.log.WithFields(logrus.Fields{
			"from": previous,
			"to":   status,
		}).Info("Connectivity status changed")
	}
}
