package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/output"
	"github.com/yndnr/chainmap-go/internal/config"
	"github.com/yndnr/chainmap-go/internal/infra/confloader"
	"github.com/yndnr/chainmap-go/internal/infra/shutdown"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/internal/telemetry/metric"
	"github.com/yndnr/chainmap-go/internal/workload"
)

const shutdownTimeout = 5 * time.Second

// benchFlags maps each bench flag to the configuration key it overrides.
var benchFlags = map[string]string{
	"workers":      "bench.workers",
	"duration":     "bench.duration",
	"operations":   "bench.operations",
	"keys":         "bench.keys",
	"rate":         "bench.rate",
	"read-ratio":   "bench.reads",
	"remove-ratio": "bench.removes",
	"buckets":      "map.buckets",
	"hasher":       "map.hasher",
	"metrics-addr": "metrics.addr",
}

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Drive a concurrent workload against the map",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Usage: "Concurrent workers"},
			&cli.DurationFlag{Name: "duration", Usage: "Run length (0 to run until --operations)"},
			&cli.IntFlag{Name: "operations", Usage: "Total operation budget (0 for unbounded)"},
			&cli.IntFlag{Name: "keys", Usage: "Key space size (0 for fresh unique keys)"},
			&cli.Float64Flag{Name: "rate", Usage: "Operations per second across workers (0 for unlimited)"},
			&cli.IntFlag{Name: "buckets", Usage: "Bucket count"},
			&cli.StringFlag{Name: "hasher", Usage: "Key hash function: murmur3, xxhash, additive"},
			&cli.Float64Flag{Name: "read-ratio", Usage: "Fraction of operations that are gets"},
			&cli.Float64Flag{Name: "remove-ratio", Usage: "Fraction of operations that are removes"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address while running"},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed for a reproducible operation mix"},
			&cli.BoolFlag{Name: "watch", Usage: "Re-apply log.level when the --config file changes"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a spinner while running"},
		},
		Action: benchRun,
	}
}

// benchOverrides collects the flags the user set as configuration overrides.
func benchOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range benchFlags {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}
	return overrides
}

func benchRun(c *cli.Context) error {
	cfg, loader, err := loadConfig(c, benchOverrides(c))
	if err != nil {
		return err
	}
	if err := setupLogger(c, cfg.Log); err != nil {
		return err
	}
	log := logger.Default().Named("bench")

	h := shutdown.NewHandler(shutdownTimeout)
	runCtx, cancelRun := context.WithCancel(c.Context)
	defer cancelRun()
	h.OnShutdown(func(context.Context) error {
		cancelRun()
		return nil
	})

	var opts []workload.Option
	if c.IsSet("seed") {
		opts = append(opts, workload.WithSeed(c.Uint64("seed")))
	}
	if cfg.Metrics.Addr != "" {
		addr, stop, err := serveMetrics(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		h.OnShutdown(stop)
		opts = append(opts, workload.WithMetrics(metric.Global()))
		log.Info("metrics endpoint listening", "addr", addr)
	}

	if c.Bool("watch") && loader.FilePath() != "" {
		stop, err := watchLogLevel(loader)
		if err != nil {
			return err
		}
		h.OnShutdown(func(context.Context) error { return stop() })
	}

	runner, err := workload.New(cfg.Map, cfg.Bench, opts...)
	if err != nil {
		return err
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- h.Wait(runCtx)
	}()

	var spin *output.Spinner
	if c.Bool("progress") {
		spin = output.NewSpinner(errWriter(c), "running workload").WithStatus(func() string {
			return fmt.Sprintf("(%d ops)", runner.Progress())
		})
		spin.Start()
	}

	res, runErr := runner.Run(logger.WithLogger(runCtx, log))
	h.Trigger()
	hookErr := <-waitErr

	if spin != nil {
		if runErr != nil {
			spin.Fail(runErr.Error())
		} else {
			spin.Success(fmt.Sprintf("%d operations in %s", res.Operations(), res.Elapsed.Round(time.Millisecond)))
		}
	}

	if runErr != nil {
		return runErr
	}
	if hookErr != nil {
		log.Warn("shutdown hooks failed", "error", hookErr)
	}
	return render(c, res, benchView{res})
}

// serveMetrics starts the Prometheus endpoint and returns the bound
// address and a shutdown hook.
func serveMetrics(addr string) (string, shutdown.Hook, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metric.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return ln.Addr().String(), srv.Shutdown, nil
}

// watchLogLevel reloads the configuration whenever the file changes and
// applies the new log level. Other settings take effect on the next run.
func watchLogLevel(loader *confloader.Loader) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Default().Slog()))
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		w.Stop()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	w.OnChange(func(path string) {
		fresh := config.Default()
		if err := loader.Reload(fresh); err != nil {
			logger.Warn("config reload failed", "file", path, "error", err)
			return
		}
		if err := config.Verify(fresh); err != nil {
			logger.Warn("config reload rejected", "file", path, "error", err)
			return
		}
		if err := logger.SetLevel(fresh.Log.Level); err != nil {
			logger.Warn("config reload rejected", "file", path, "error", err)
			return
		}
		logger.Info("log level reloaded", "level", logger.GetLevel())
	})
	w.StartAsync()
	return w.Stop, nil
}

// benchView renders a workload result as a summary table, with one row
// per bucket in wide mode.
type benchView struct {
	res *workload.Result
}

func (v benchView) Table(wide bool) *output.Table {
	r := v.res
	t := &output.Table{Headers: []string{"METRIC", "VALUE"}}
	t.AddRow("run_id", r.RunID)
	t.AddRow("operations", strconv.FormatInt(r.Operations(), 10))
	t.AddRow("puts", strconv.FormatInt(r.Puts, 10))
	t.AddRow("gets", strconv.FormatInt(r.Gets, 10))
	t.AddRow("hits", strconv.FormatInt(r.Hits, 10))
	t.AddRow("removes", strconv.FormatInt(r.Removes, 10))
	t.AddRow("elapsed", r.Elapsed.Round(time.Microsecond).String())
	t.AddRow("ops_per_second", output.FormatFloat(r.OpsPerSecond))
	t.AddRow("entries", strconv.Itoa(r.Entries))
	t.AddRow("keys_released", strconv.FormatInt(r.KeysReleased, 10))
	t.AddRow("values_released", strconv.FormatInt(r.ValuesReleased, 10))
	t.AddRow("interrupted", strconv.FormatBool(r.Interrupted))

	if wide {
		for _, b := range r.Buckets {
			t.AddRow("bucket["+strconv.Itoa(b.Index)+"]", strconv.Itoa(b.Entries))
		}
	}
	return t
}
