package metric

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

const namespace = "chainmap"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Map operation metrics
	Operations *prometheus.CounterVec
	LockWait   *prometheus.HistogramVec

	// Workload metrics
	WorkloadRuns     prometheus.Counter
	WorkloadDuration prometheus.Histogram
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Map operations by operation and result.",
		}, []string{"op", "result"}),
		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for a bucket lock.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"bucket"}),
		WorkloadRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workload_runs_total",
			Help:      "Completed workload runs.",
		}),
		WorkloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workload_duration_seconds",
			Help:      "Wall-clock duration of workload runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(r.Operations, r.LockWait, r.WorkloadRuns, r.WorkloadDuration)
	return r
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the /metrics endpoint of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Unregister removes a collector from the registry.
func (r *Registry) Unregister(c prometheus.Collector) bool {
	return r.registry.Unregister(c)
}

// Gatherer exposes the registry for tests and custom exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveOp implements cmap.Observer.
func (r *Registry) ObserveOp(op cmap.Op, _ int, hit bool) {
	r.Operations.WithLabelValues(string(op), resultLabel(op, hit)).Inc()
}

// ObserveLockWait implements cmap.Observer.
func (r *Registry) ObserveLockWait(bucket int, wait time.Duration) {
	r.LockWait.WithLabelValues(strconv.Itoa(bucket)).Observe(wait.Seconds())
}

// RecordWorkload records one finished workload run.
func (r *Registry) RecordWorkload(elapsed time.Duration) {
	r.WorkloadRuns.Inc()
	r.WorkloadDuration.Observe(elapsed.Seconds())
}

// resultLabel names the outcome of an operation.
func resultLabel(op cmap.Op, hit bool) string {
	switch op {
	case cmap.OpPut:
		if hit {
			return "replaced"
		}
		return "inserted"
	case cmap.OpRemove:
		if hit {
			return "removed"
		}
		return "absent"
	default:
		if hit {
			return "hit"
		}
		return "miss"
	}
}

var _ cmap.Observer = (*Registry)(nil)
