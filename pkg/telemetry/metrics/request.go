package metrics

import (
	"strconv"
	"time"

	"instructions-hq/extractor/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks every request the server answers.
//
// Metrics:
//   - <ns>_<sub>_http_requests_total{path,method,status}
//   - <ns>_<sub>_http_request_duration_seconds{path,method}
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path, method and status code",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"path", "method"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)
	return hm
}

// RecordRequest records one completed request.
func (hm *HTTPMetrics) RecordRequest(path, method string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}
