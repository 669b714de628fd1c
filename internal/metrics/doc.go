// Package metrics provides Prometheus instrumentation for the Lumina gallery.
//
// All metrics are prefixed with "lumina_" and registered with the default
// registry through promauto.
//
// # Metric Categories
//
//   - HTTP: request counts, durations and in-flight gauge
//   - Database: query counts and durations, transaction durations, snapshot writes
//   - Insight: gateway requests by operation and outcome, breaker state,
//     description cache hits and misses
//   - Import: files by type and outcome, AI thumbnail outcomes, frame sampling,
//     temporary resource handles
//   - Tasks: in-flight and completed asynchronous tasks by kind
//   - Navigation: remote keys by key and section, source probes
//   - Catalog: items by type, user items, described items, favorites,
//     albums, sources by status (refreshed by the Collector)
//
// # Usage
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// # Collector
//
// The Collector periodically reads a StatsProvider (the catalog state) and
// refreshes the catalog gauges:
//
//	collector := metrics.NewCollector(state, db, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Gateway fallback ratio:
//
//	sum(rate(lumina_insight_requests_total{status!="success"}[5m])) /
//	sum(rate(lumina_insight_requests_total[5m]))
//
// Description cache hit rate:
//
//	rate(lumina_description_cache_hits_total[5m]) /
//	(rate(lumina_description_cache_hits_total[5m]) + rate(lumina_description_cache_misses_total[5m]))
package metrics
