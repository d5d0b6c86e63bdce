// Package metrics exports the extractor's Prometheus metrics.
//
// A Collector owns a private registry holding HTTP request counters and
// latencies, /generate outcome counts, generation latency and failure kinds,
// quota decisions, sweeper evictions and the number of tracked users. Go
// runtime and process collectors are registered alongside.
//
// The collector satisfies generation.Observer and quota.SweepObserver, and
// every method tolerates a nil receiver:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	_ = collector.TrackQuotaSize(store.Len)
//	gen, _ := generation.NewClient(provider, genCfg, collector)
//	mux.Handle("/metrics", collector.Handler())
package metrics
