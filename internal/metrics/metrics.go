package metrics

// Package metrics defines the process-wide Prometheus instrumentation for
// conversion sessions.

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts conversion sessions by output format.
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytconv_sessions_total",
		Help: "Conversion sessions started, by output format.",
	}, []string{"format"})

	// SessionsCompleted counts sessions that delivered a complete artifact.
	SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytconv_sessions_completed_total",
		Help: "Conversion sessions completed successfully, by output format.",
	}, []string{"format"})

	// SessionFailures counts terminal session failures by taxonomy reason.
	SessionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytconv_session_failures_total",
		Help: "Conversion sessions failed, by failure reason.",
	}, []string{"reason"})

	// OutputBytes counts bytes of encoded output streamed to callers.
	OutputBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytconv_output_bytes_total",
		Help: "Encoded output bytes streamed to callers.",
	})
)
