package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Denial reasons.
const (
	ReasonRateLimited = "rate_limited"
	ReasonInFlight    = "in_flight"
)

var (
	// RequestsTotal counts requests by route and HTTP status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factview_http_requests_total",
		Help: "Total number of front end requests",
	}, []string{"route", "status"})

	// DeniedTotal counts rejected submissions by reason.
	DeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factview_http_denied_total",
		Help: "Total number of rejected front end submissions",
	}, []string{"reason"})

	// ShareTotal counts share and restore outcomes.
	ShareTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factview_share_total",
		Help: "Total number of share and restore operations by outcome",
	}, []string{"op", "outcome"})

	// LatencyHistogram measures request latency.
	LatencyHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "factview_http_request_duration_seconds",
		Help:    "Latency of front end requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
