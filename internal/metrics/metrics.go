package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	PipelineTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_transitions_total",
			Help: "Total number of submission status transitions",
		},
		[]string{"submission_type", "status"},
	)

	SyncEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_events_total",
			Help: "Total number of source synchronization attempts",
		},
		[]string{"outcome"},
	)

	ContributionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contributions_recorded_total",
			Help: "Total number of contributions written to the ledger",
		},
		[]string{"contribution_type"},
	)
)
