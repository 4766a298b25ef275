package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests to the remote product catalog",
		},
		[]string{"operation", "status"},
	)

	catalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Remote catalog request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeRequest(operation, status string, duration time.Duration) {
	catalogRequestsTotal.WithLabelValues(operation, status).Inc()
	catalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
