package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcome label values.
const (
	OutcomeRendered     = "rendered"
	OutcomeUnrecognized = "unrecognized"
	OutcomeAuthRequired = "auth_required"
	OutcomeFailed       = "failed"
	OutcomeInFlight     = "in_flight"
)

var (
	// SubmissionsTotal counts submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factview_submissions_total",
		Help: "Total number of query submissions by outcome",
	}, []string{"outcome"})

	// BackendErrorsTotal counts failed backend calls by phase and status.
	BackendErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factview_backend_errors_total",
		Help: "Total number of failed backend calls",
	}, []string{"phase", "status"})

	// QueryLatency measures the credential and query phases together.
	QueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "factview_query_latency_seconds",
		Help:    "Latency of authenticated query submissions",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})
)
