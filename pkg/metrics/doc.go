// Package metrics provides Prometheus instrumentation for tokengate components.
//
// This package enables monitoring and observability for tokengate's admission
// control, session store, and HTTP gate components through Prometheus metrics.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Admission checks (checks, admits, rejects, token cost distribution)
//   - Sliding window occupancy (requests and token volume in window)
//   - Session store activity (active, created, purged sessions)
//   - Gate middleware traffic (requests, 429 responses)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Admission limiter with metrics
//	limiter := slidingwindow.NewWithMetrics(limits, "chat_sessions")
//
//	// Session store with metrics
//	store := session.NewWithMetrics(limits, "gateway")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	limiter := slidingwindow.NewWithConfigAndMetrics(
//		slidingwindow.Config{Limits: limits},
//		"custom_limiter",
//		config,
//	)
//
// # Available Metrics
//
// ## Admission Metrics
//
//   - tokengate_admission_checks_total: Total number of admission checks
//   - tokengate_admission_admitted_total: Total number of admitted calls
//   - tokengate_admission_rejected_total: Total number of rejected calls
//   - tokengate_admission_tokens_requested: Token cost distribution of checks
//   - tokengate_admission_window_requests: Admitted calls currently in the window
//   - tokengate_admission_window_tokens: Token volume currently in the window
//
// ## Session Store Metrics
//
//   - tokengate_session_active: Number of sessions currently tracked
//   - tokengate_session_created_total: Total number of session ledgers created
//   - tokengate_session_purged_total: Total number of idle sessions purged
//
// ## Gate Metrics
//
//   - tokengate_gate_requests_total: Total requests seen by the gate middleware
//   - tokengate_gate_rejected_total: Total requests answered with 429
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - limiter_type: "sliding_window"
//   - limiter_name: User-provided name for the limiter instance
//   - store_name: User-provided name for the session store
//   - gate_name: User-provided name for the gate instance
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	limiter := slidingwindow.NewWithMetrics(limits, "api")
//	limiter.DisableMetrics()            // Stop collecting metrics
//	limiter.EnableMetrics(config)       // Re-enable with new config
//	enabled := limiter.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when checks occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
