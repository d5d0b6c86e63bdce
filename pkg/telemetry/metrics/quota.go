package metrics

import (
	"instructions-hq/extractor/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QuotaMetrics tracks quota decisions and the size of the usage table.
//
// Metrics:
//   - <ns>_<sub>_quota_decisions_total{decision}
//   - <ns>_<sub>_quota_evicted_records_total
//   - <ns>_<sub>_quota_tracked_users (registered by RegisterTrackedUsers)
type QuotaMetrics struct {
	decisions *prometheus.CounterVec
	evicted   prometheus.Counter
}

// NewQuotaMetrics creates and registers quota metrics.
func NewQuotaMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QuotaMetrics {
	qm := &QuotaMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_decisions_total",
				Help:      "Total number of quota decisions by result",
			},
			[]string{"decision"},
		),

		evicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_evicted_records_total",
				Help:      "Total number of usage records removed by the quota sweeper",
			},
		),
	}

	registry.MustRegister(qm.decisions, qm.evicted)
	return qm
}

// RegisterTrackedUsers registers a gauge that samples size on every scrape.
func (qm *QuotaMetrics) RegisterTrackedUsers(cfg *config.MetricsConfig, registry *prometheus.Registry, size func() int) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "quota_tracked_users",
			Help:      "Number of users with a usage record in memory",
		},
		func() float64 { return float64(size()) },
	)
	return registry.Register(gauge)
}
