package metrics

import (
	"sync"
	"time"

	"instructions-hq/extractor/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// otherLabel replaces label values past the cardinality limit.
const otherLabel = "other"

// Collector owns the service's Prometheus registry and every metric the
// extractor exports. All methods are safe on a nil *Collector and become
// no-ops when metrics are disabled, so callers never need to guard them.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	httpMetrics       *HTTPMetrics
	generationMetrics *GenerationMetrics
	quotaMetrics      *QuotaMetrics

	// Paths are caller-controlled, so unknown ones fold into "other".
	pathLimiter *CardinalityLimiter
}

// NewCollector creates a collector with the given configuration. If registry
// is nil a fresh registry is created; the global default registry is never
// touched, so tests can build as many collectors as they like.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
	}

	c := &Collector{
		config:      cfg,
		registry:    registry,
		pathLimiter: NewCardinalityLimiter(64),
	}

	c.httpMetrics = NewHTTPMetrics(&c.config, registry)
	c.generationMetrics = NewGenerationMetrics(&c.config, registry)
	c.quotaMetrics = NewQuotaMetrics(&c.config, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordHTTPRequest records a completed HTTP request.
func (c *Collector) RecordHTTPRequest(path, method string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	if !c.pathLimiter.Allow(path) {
		path = otherLabel
	}
	c.httpMetrics.RecordRequest(path, method, status, duration)
}

// RecordGenerateOutcome counts a /generate request by its outcome
// (success, invalid, quota_exceeded, generation_failed, ...).
func (c *Collector) RecordGenerateOutcome(outcome string) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.outcomes.WithLabelValues(outcome).Inc()
}

// RecordGeneration records the duration of one generation call.
// Together with RecordGenerationFailure it satisfies generation.Observer.
func (c *Collector) RecordGeneration(duration time.Duration, status string) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.RecordCall(status, duration)
}

// RecordGenerationFailure counts a failed generation by failure kind.
func (c *Collector) RecordGenerationFailure(kind string) {
	if !c.enabled() {
		return
	}
	c.generationMetrics.failures.WithLabelValues(kind).Inc()
}

// RecordQuotaDecision counts a quota decision ("allowed" or "denied").
func (c *Collector) RecordQuotaDecision(decision string) {
	if !c.enabled() {
		return
	}
	c.quotaMetrics.decisions.WithLabelValues(decision).Inc()
}

// RecordQuotaEviction counts records removed by a quota sweep.
// It satisfies quota.SweepObserver.
func (c *Collector) RecordQuotaEviction(count int) {
	if !c.enabled() || count <= 0 {
		return
	}
	c.quotaMetrics.evicted.Add(float64(count))
}

// TrackQuotaSize exposes the number of tracked quota records as a gauge
// sampled from size on every scrape. It may be called once per collector.
func (c *Collector) TrackQuotaSize(size func() int) error {
	if !c.enabled() {
		return nil
	}
	return c.quotaMetrics.RegisterTrackedUsers(&c.config, c.registry, size)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// CardinalityLimiter bounds the number of distinct values a label may take.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already admitted or fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
