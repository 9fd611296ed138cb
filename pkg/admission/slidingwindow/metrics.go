package slidingwindow

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tokengate/pkg/metrics"
)

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
type MetricsLimiter struct {
	limiter  Limiter
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new sliding window limiter with metrics enabled.
func NewWithMetrics(limits Limits, name string) Limiter {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		Limits: limits,
		Clock:  SystemClock{},
	}, name, config)
}

// NewWithConfigAndMetrics creates a new sliding window limiter with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Limiter {
	baseLimiter := NewWithConfig(config)

	if !metricsConfig.Enabled {
		return baseLimiter
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsLimiter{
		limiter:  baseLimiter,
		name:     name,
		registry: registry,
		enabled:  true,
	}
}

// Check decides whether a call with the given token cost may proceed.
func (ml *MetricsLimiter) Check(tokens int) Decision {
	if ml.enabled {
		ml.registry.AdmissionChecks.WithLabelValues("sliding_window", ml.name).Inc()
		ml.registry.AdmissionTokens.WithLabelValues("sliding_window", ml.name).Observe(float64(tokens))
	}

	decision := ml.limiter.Check(tokens)

	if ml.enabled {
		if decision.Admitted() {
			ml.registry.AdmissionAdmitted.WithLabelValues("sliding_window", ml.name).Inc()
		} else {
			ml.registry.AdmissionRejected.WithLabelValues("sliding_window", ml.name).Inc()
		}

		// Update window occupancy
		ml.registry.WindowRequests.WithLabelValues("sliding_window", ml.name).Set(float64(ml.limiter.Len()))
		ml.registry.WindowTokens.WithLabelValues("sliding_window", ml.name).Set(float64(ml.limiter.TokensUsed()))
	}

	return decision
}

// Allow is shorthand for Check(tokens).Admitted().
func (ml *MetricsLimiter) Allow(tokens int) bool {
	return ml.Check(tokens).Admitted()
}

// Len returns the number of admitted calls currently in the window.
func (ml *MetricsLimiter) Len() int {
	n := ml.limiter.Len()

	if ml.enabled {
		ml.registry.WindowRequests.WithLabelValues("sliding_window", ml.name).Set(float64(n))
	}

	return n
}

// TokensUsed returns the token volume currently in the window.
func (ml *MetricsLimiter) TokensUsed() int {
	sum := ml.limiter.TokensUsed()

	if ml.enabled {
		ml.registry.WindowTokens.WithLabelValues("sliding_window", ml.name).Set(float64(sum))
	}

	return sum
}

// Limits returns the limits the limiter enforces.
func (ml *MetricsLimiter) Limits() Limits {
	return ml.limiter.Limits()
}

// Snapshot returns a copy of the ledger as stored.
func (ml *MetricsLimiter) Snapshot() []Record {
	return ml.limiter.Snapshot()
}

// Reset discards all recorded calls.
func (ml *MetricsLimiter) Reset() {
	ml.limiter.Reset()

	if ml.enabled {
		ml.registry.WindowRequests.WithLabelValues("sliding_window", ml.name).Set(0)
		ml.registry.WindowTokens.WithLabelValues("sliding_window", ml.name).Set(0)
	}
}

// EnableMetrics enables metrics collection.
func (ml *MetricsLimiter) EnableMetrics(config metrics.Config) error {
	ml.enabled = config.Enabled

	if config.Registry != nil {
		ml.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ml *MetricsLimiter) DisableMetrics() {
	ml.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ml *MetricsLimiter) MetricsEnabled() bool {
	return ml.enabled
}
