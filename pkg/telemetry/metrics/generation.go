package metrics

import (
	"time"

	"instructions-hq/extractor/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics tracks /generate outcomes and upstream model calls.
//
// Metrics:
//   - <ns>_<sub>_generate_requests_total{outcome}
//   - <ns>_<sub>_generation_duration_seconds{status}
//   - <ns>_<sub>_generation_failures_total{kind}
type GenerationMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewGenerationMetrics creates and registers generation metrics.
func NewGenerationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	gm := &GenerationMetrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generate_requests_total",
				Help:      "Total number of /generate requests by outcome",
			},
			[]string{"outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generation_duration_seconds",
				Help:      "Duration of model generation calls in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"status"},
		),

		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generation_failures_total",
				Help:      "Total number of failed generation calls by failure kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(gm.outcomes, gm.duration, gm.failures)
	return gm
}

// RecordCall records the duration of a generation call.
func (gm *GenerationMetrics) RecordCall(status string, duration time.Duration) {
	gm.duration.WithLabelValues(status).Observe(duration.Seconds())
}
