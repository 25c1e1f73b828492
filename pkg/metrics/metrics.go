package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_upstream_requests_total",
			Help: "Requests sent to the search-interest provider, by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trends_upstream_request_duration_seconds",
			Help:    "Latency of single provider requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_search_requests_total",
			Help: "Search volume lookups served, by result",
		},
		[]string{"result"},
	)

	SearchRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trends_search_records",
			Help:    "Number of records returned per lookup",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_http_requests_total",
			Help: "HTTP requests handled by the web server",
		},
		[]string{"route", "status"},
	)
)

// Outcome labels shared by the counters above
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeCacheHit    = "cache_hit"
	OutcomeInvalid     = "invalid"
	OutcomeBreakerOpen = "breaker_open"
)
