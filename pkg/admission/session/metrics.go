package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tokengate/pkg/admission/slidingwindow"
	"github.com/vnykmshr/tokengate/pkg/metrics"
)

// MetricsStore wraps a Store with Prometheus metrics collection.
type MetricsStore struct {
	store    Store
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new session store with metrics enabled.
func NewWithMetrics(limits slidingwindow.Limits, name string) Store {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{Limits: limits}, name, config)
}

// NewWithConfigAndMetrics creates a new session store with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Store {
	baseStore := NewWithConfig(config)

	if !metricsConfig.Enabled {
		return baseStore
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsStore{
		store:    baseStore,
		name:     name,
		registry: registry,
		enabled:  true,
	}
}

// Get returns the limiter bound to the given session, creating an empty
// one on first sight.
func (ms *MetricsStore) Get(sessionID string) slidingwindow.Limiter {
	before := ms.store.Len()
	limiter := ms.store.Get(sessionID)

	if ms.enabled {
		after := ms.store.Len()
		if after > before {
			ms.registry.SessionsCreated.WithLabelValues(ms.name).Inc()
		}
		ms.registry.SessionsActive.WithLabelValues(ms.name).Set(float64(after))
	}

	return limiter
}

// Check runs an admission check against the session's limiter.
func (ms *MetricsStore) Check(sessionID string, tokens int) slidingwindow.Decision {
	return ms.Get(sessionID).Check(tokens)
}

// Len returns the number of sessions currently tracked.
func (ms *MetricsStore) Len() int {
	n := ms.store.Len()

	if ms.enabled {
		ms.registry.SessionsActive.WithLabelValues(ms.name).Set(float64(n))
	}

	return n
}

// Sessions returns the identifiers of all tracked sessions.
func (ms *MetricsStore) Sessions() []string {
	return ms.store.Sessions()
}

// Remove drops the given session and its ledger.
func (ms *MetricsStore) Remove(sessionID string) {
	ms.store.Remove(sessionID)

	if ms.enabled {
		ms.registry.SessionsActive.WithLabelValues(ms.name).Set(float64(ms.store.Len()))
	}
}

// PurgeIdle drops sessions not seen for longer than maxIdle.
func (ms *MetricsStore) PurgeIdle(maxIdle time.Duration) int {
	purged := ms.store.PurgeIdle(maxIdle)

	if ms.enabled {
		ms.registry.SessionsPurged.WithLabelValues(ms.name).Add(float64(purged))
		ms.registry.SessionsActive.WithLabelValues(ms.name).Set(float64(ms.store.Len()))
	}

	return purged
}

// StartSweeper begins purging idle sessions on the given interval.
func (ms *MetricsStore) StartSweeper(every time.Duration) error {
	return ms.store.StartSweeper(every)
}

// StopSweeper stops the sweeper if it is running.
func (ms *MetricsStore) StopSweeper() {
	ms.store.StopSweeper()
}

// EnableMetrics enables metrics collection.
func (ms *MetricsStore) EnableMetrics(config metrics.Config) error {
	ms.enabled = config.Enabled

	if config.Registry != nil {
		ms.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ms *MetricsStore) DisableMetrics() {
	ms.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ms *MetricsStore) MetricsEnabled() bool {
	return ms.enabled
}
