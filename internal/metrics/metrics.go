// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yamdb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PolicyDecisions counts access-control outcomes; decision is one of
	// allow, unauthenticated, deny.
	PolicyDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_policy_decisions_total",
			Help: "Access policy decisions by policy and outcome",
		},
		[]string{"policy", "decision"},
	)

	ConfirmationCodesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_confirmation_codes_issued_total",
			Help: "Confirmation codes generated and handed to the mailer",
		},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_tokens_issued_total",
			Help: "Bearer tokens issued by the token exchange",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)
