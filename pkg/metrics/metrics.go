// Package metrics provides Prometheus instrumentation for tokengate components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for tokengate components.
type Registry struct {
	// Admission Metrics
	AdmissionChecks   *prometheus.CounterVec
	AdmissionAdmitted *prometheus.CounterVec
	AdmissionRejected *prometheus.CounterVec
	AdmissionTokens   *prometheus.HistogramVec
	WindowRequests    *prometheus.GaugeVec
	WindowTokens      *prometheus.GaugeVec

	// Session Store Metrics
	SessionsActive  *prometheus.GaugeVec
	SessionsCreated *prometheus.CounterVec
	SessionsPurged  *prometheus.CounterVec

	// Gate Metrics
	GateRequests *prometheus.CounterVec
	GateRejected *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by tokengate components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Admission Metrics
		AdmissionChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "checks_total",
				Help:      "Total number of admission checks",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionAdmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "admitted_total",
				Help:      "Total number of admitted calls",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "rejected_total",
				Help:      "Total number of rejected calls",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		AdmissionTokens: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "tokens_requested",
				Help:      "Token cost distribution of admission checks",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"limiter_type", "limiter_name"},
		),

		WindowRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "window_requests",
				Help:      "Number of admitted calls currently in the trailing window",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		WindowTokens: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tokengate",
				Subsystem: "admission",
				Name:      "window_tokens",
				Help:      "Token volume currently in the trailing window",
			},
			[]string{"limiter_type", "limiter_name"},
		),

		// Session Store Metrics
		SessionsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tokengate",
				Subsystem: "session",
				Name:      "active",
				Help:      "Number of sessions currently tracked by the store",
			},
			[]string{"store_name"},
		),

		SessionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "session",
				Name:      "created_total",
				Help:      "Total number of session ledgers created",
			},
			[]string{"store_name"},
		),

		SessionsPurged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "session",
				Name:      "purged_total",
				Help:      "Total number of idle sessions purged",
			},
			[]string{"store_name"},
		),

		// Gate Metrics
		GateRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "gate",
				Name:      "requests_total",
				Help:      "Total number of requests seen by the gate middleware",
			},
			[]string{"gate_name"},
		),

		GateRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Subsystem: "gate",
				Name:      "rejected_total",
				Help:      "Total number of requests answered with 429",
			},
			[]string{"gate_name"},
		),
	}
}
