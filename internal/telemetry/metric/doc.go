// Package metric provides Prometheus metrics for chainmap.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, operation counters, lock-wait histogram and
//     HTTP handler; the Registry is a cmap.Observer
//   - collector.go: per-bucket entry counts read from a live map
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
