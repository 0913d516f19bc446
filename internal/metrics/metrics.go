// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP requests by route pattern and client country
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whoami_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "http_status", "country"},
	)

	// Time spent reading and building a collection from disk
	CollectionLoad = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whoami_collection_load_seconds",
			Help:    "Collection load duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"kind"},
	)

	// Documents in the most recent load
	Documents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "whoami_documents",
			Help: "Number of documents in the last loaded collection",
		},
		[]string{"kind"},
	)
)

// RecordRequest counts one served request.
func RecordRequest(method, endpoint, status, country string) {
	HTTPRequests.WithLabelValues(method, endpoint, status, country).Inc()
}

// RecordLoad records a collection load of n documents.
func RecordLoad(kind string, n int, duration time.Duration) {
	CollectionLoad.WithLabelValues(kind).Observe(duration.Seconds())
	Documents.WithLabelValues(kind).Set(float64(n))
}
