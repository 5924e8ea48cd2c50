package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/chainmap-go/internal/config"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/internal/telemetry/metric"
	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// Runner executes workload runs.
type Runner struct {
	mapCfg   config.MapSection
	benchCfg config.BenchSection
	hash     cmap.HashFunc[string]
	metrics  *metric.Registry
	seed     uint64
	seeded   bool

	// progress counts operations issued by the current or last run.
	progress atomic.Int64
}

// progressBatch is how many operations a worker issues between updates of
// the shared progress counter.
const progressBatch = 256

// Option configures a Runner.
type Option func(*Runner)

// WithMetrics reports map operations, lock waits, bucket sizes and run
// durations to reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// WithSeed fixes the random source so operation mixes are reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
		r.seeded = true
	}
}

// New creates a runner. The configuration must already have passed
// config.Verify.
func New(mapCfg config.MapSection, benchCfg config.BenchSection, opts ...Option) (*Runner, error) {
	hash, err := cmap.HasherByName(mapCfg.Hasher, mapCfg.Buckets)
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}
	if benchCfg.Workers < 1 {
		return nil, errors.New("workload: at least one worker is required")
	}
	if benchCfg.Duration <= 0 && benchCfg.Operations <= 0 {
		return nil, errors.New("workload: duration or operation budget is required")
	}

	r := &Runner{
		mapCfg:   mapCfg,
		benchCfg: benchCfg,
		hash:     hash,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.seeded {
		r.seed = rand.Uint64()
	}
	return r, nil
}

// Run executes one workload run. It returns when the duration elapses, the
// operation budget is spent, or ctx is done. Cancellation of ctx is not an
// error; the partial result is returned with Interrupted set.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := ulid.Make().String()
	r.progress.Store(0)
	ctx = logger.WithRunID(ctx, runID)
	log := logger.L(ctx)

	var keysReleased, valuesReleased atomic.Int64
	cb := cmap.Callbacks[string, string]{
		Hash:         r.hash,
		Equal:        cmap.Equal[string](),
		DestroyKey:   func(string) { keysReleased.Add(1) },
		DestroyValue: func(string) { valuesReleased.Add(1) },
		ValidKey:     func(k string) bool { return k != "" },
	}

	opts := []cmap.Option{
		cmap.WithBucketCount(r.mapCfg.Buckets),
		cmap.WithLogger(log.Slog()),
	}
	if r.metrics != nil {
		opts = append(opts, cmap.WithObserver(r.metrics))
	}

	m, err := cmap.New(cb, opts...)
	if err != nil {
		return nil, fmt.Errorf("workload: create map: %w", err)
	}

	var collector *metric.Collector
	if r.metrics != nil {
		collector = metric.NewCollector(m)
		if err := r.metrics.Register(collector); err != nil {
			m.Destroy()
			return nil, fmt.Errorf("workload: register collector: %w", err)
		}
	}

	log.Info("workload started",
		"buckets", r.mapCfg.Buckets,
		"hasher", r.mapCfg.Hasher,
		"workers", r.benchCfg.Workers,
		"duration", r.benchCfg.Duration,
		"operations", r.benchCfg.Operations,
		"keys", r.benchCfg.Keys,
		"rate", r.benchCfg.Rate,
	)

	start := time.Now()
	runCtx := ctx
	if r.benchCfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.benchCfg.Duration)
		defer cancel()
	}

	var limiter *rate.Limiter
	if r.benchCfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.benchCfg.Rate), r.benchCfg.Workers)
	}

	var budget *atomic.Int64
	if r.benchCfg.Operations > 0 {
		budget = new(atomic.Int64)
		budget.Store(int64(r.benchCfg.Operations))
	}

	var (
		total counts
		mu    sync.Mutex
	)
	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < r.benchCfg.Workers; w++ {
		wk := &worker{
			id:       w,
			m:        m,
			cfg:      &r.benchCfg,
			rng:      rand.New(rand.NewPCG(r.seed, uint64(w))),
			limiter:  limiter,
			budget:   budget,
			progress: &r.progress,
		}
		g.Go(func() error {
			c, err := wk.run(gctx)
			mu.Lock()
			total.add(c)
			mu.Unlock()
			return err
		})
	}
	err = g.Wait()
	elapsed := time.Since(start)

	res := &Result{
		RunID:       runID,
		Puts:        total.puts,
		Gets:        total.gets,
		Hits:        total.hits,
		Removes:     total.removes,
		Elapsed:     elapsed,
		Buckets:     m.Stats(),
		Entries:     m.Len(),
		Interrupted: ctx.Err() != nil,
	}
	if elapsed > 0 {
		res.OpsPerSecond = float64(res.Operations()) / elapsed.Seconds()
	}

	if collector != nil {
		r.metrics.Unregister(collector)
	}
	m.Destroy()
	res.KeysReleased = keysReleased.Load()
	res.ValuesReleased = valuesReleased.Load()

	if r.metrics != nil {
		r.metrics.RecordWorkload(elapsed)
	}

	if err != nil {
		return res, fmt.Errorf("workload: %w", err)
	}

	log.Info("workload finished",
		"operations", res.Operations(),
		"elapsed", elapsed,
		"ops_per_second", res.OpsPerSecond,
		"entries", res.Entries,
		"interrupted", res.Interrupted,
	)
	return res, nil
}

// Progress returns the number of operations issued so far by the current
// run, or by the last one once it has finished. It lags by up to a few
// hundred operations per worker while a run is in flight.
func (r *Runner) Progress() int64 {
	return r.progress.Load()
}

// worker issues operations until its context ends or the shared budget is
// spent.
type worker struct {
	id       int
	m        *cmap.Map[string, string]
	cfg      *config.BenchSection
	rng      *rand.Rand
	limiter  *rate.Limiter
	budget   *atomic.Int64
	progress *atomic.Int64

	// last is the most recent fresh key put by this worker, used as the
	// get/remove target when the key space is unbounded.
	last string
	seq  int
}

func (w *worker) run(ctx context.Context) (counts, error) {
	var c counts
	unreported := int64(0)
	defer func() { w.progress.Add(unreported) }()

	for {
		if ctx.Err() != nil {
			return c, nil
		}
		if w.budget != nil && w.budget.Add(-1) < 0 {
			return c, nil
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				// Wait fails once ctx is done or would exceed its deadline.
				return c, nil
			}
		}
		w.step(&c)

		if unreported++; unreported == progressBatch {
			w.progress.Add(unreported)
			unreported = 0
		}
	}
}

func (w *worker) step(c *counts) {
	p := w.rng.Float64()
	switch {
	case p < w.cfg.Reads:
		c.gets++
		if _, ok := w.m.Get(w.target()); ok {
			c.hits++
		}
	case p < w.cfg.Reads+w.cfg.Removes:
		c.removes++
		w.m.Remove(w.target())
	default:
		c.puts++
		w.seq++
		w.m.Put(w.putKey(), "v"+strconv.Itoa(w.id)+"-"+strconv.Itoa(w.seq))
	}
}

func (w *worker) putKey() string {
	if w.cfg.Keys > 0 {
		return keyName(w.rng.IntN(w.cfg.Keys))
	}
	w.last = ulid.Make().String()
	return w.last
}

func (w *worker) target() string {
	if w.cfg.Keys > 0 {
		return keyName(w.rng.IntN(w.cfg.Keys))
	}
	return w.last
}

func keyName(i int) string {
	return "key-" + strconv.Itoa(i)
}
