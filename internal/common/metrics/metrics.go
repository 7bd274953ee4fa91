// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unit_api_requests_total",
			Help: "Total number of Unit API requests by outcome",
		},
		[]string{"method", "endpoint", "status"},
	)

	ResourcesDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unit_resources_decoded_total",
			Help: "Total number of JSON:API resources decoded",
		},
		[]string{"resource_type", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unit_cache_lookups_total",
			Help: "Resource cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "unit_api_requests_in_flight",
			Help: "Number of Unit API requests currently in flight",
		},
	)
)

// Decode outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
