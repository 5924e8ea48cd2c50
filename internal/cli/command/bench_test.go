package command

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/chainmap-go/internal/config"
	"github.com/yndnr/chainmap-go/internal/telemetry/metric"
	"github.com/yndnr/chainmap-go/internal/workload"
)

func decodeResult(t *testing.T, stdout string) workload.Result {
	t.Helper()
	var res workload.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, stdout)
	}
	return res
}

func TestBenchCommand_JSON(t *testing.T) {
	stdout, _, err := runApp(t, "-o", "json", "bench",
		"--operations", "1000", "--duration", "0",
		"--workers", "2", "--keys", "32", "--seed", "1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := decodeResult(t, stdout)
	if res.Operations() != 1000 {
		t.Errorf("Operations() = %d, want 1000", res.Operations())
	}
	if res.KeysReleased != res.Puts {
		t.Errorf("KeysReleased = %d, want %d", res.KeysReleased, res.Puts)
	}
	if len(res.Buckets) != config.Default().Map.Buckets {
		t.Errorf("len(Buckets) = %d, want %d", len(res.Buckets), config.Default().Map.Buckets)
	}
}

func TestBenchCommand_Table(t *testing.T) {
	stdout, _, err := runApp(t, "--wide", "bench",
		"--operations", "200", "--duration", "0", "--buckets", "3")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"METRIC", "ops_per_second", "keys_released", "bucket[2]"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "bucket[3]") {
		t.Errorf("output lists a bucket beyond --buckets:\n%s", stdout)
	}
}

func TestBenchCommand_ConfigFile(t *testing.T) {
	path := writeFile(t, "bench.yaml", `
map:
  buckets: 5
  hasher: xxhash
bench:
  workers: 1
  duration: 0
  operations: 300
  reads: 0
  removes: 0
  keys: 0
log:
  level: error
`)

	stdout, _, err := runApp(t, "-c", path, "-o", "json", "bench")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	res := decodeResult(t, stdout)
	if res.Puts != 300 {
		t.Errorf("Puts = %d, want 300", res.Puts)
	}
	if res.Entries != 300 {
		t.Errorf("Entries = %d, want 300", res.Entries)
	}
	if len(res.Buckets) != 5 {
		t.Errorf("len(Buckets) = %d, want 5", len(res.Buckets))
	}
}

func TestBenchCommand_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "bench.yaml", "bench:\n  operations: 300\n  duration: 0\n")

	stdout, _, err := runApp(t, "-c", path, "-o", "json", "bench", "--operations", "50")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res := decodeResult(t, stdout); res.Operations() != 50 {
		t.Errorf("Operations() = %d, want 50", res.Operations())
	}
}

func TestBenchCommand_InvalidConfig(t *testing.T) {
	_, _, err := runApp(t, "bench", "--read-ratio", "0.9", "--remove-ratio", "0.5")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Run() error = %v, want ErrInvalid", err)
	}
}

func TestBenchCommand_Metrics(t *testing.T) {
	before := testutil.ToFloat64(metric.Global().WorkloadRuns)

	_, _, err := runApp(t, "--log-level", "error", "bench",
		"--operations", "100", "--duration", "0", "--metrics-addr", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := testutil.ToFloat64(metric.Global().WorkloadRuns); got != before+1 {
		t.Errorf("workload runs = %v, want %v", got, before+1)
	}
}

func TestBenchCommand_Progress(t *testing.T) {
	_, stderr, err := runApp(t, "--log-level", "error", "bench",
		"--operations", "100", "--duration", "0", "--progress")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stderr, "✓ 100 operations") {
		t.Errorf("stderr = %q, want spinner success line", stderr)
	}
}

func TestBenchCommand_Watch(t *testing.T) {
	path := writeFile(t, "bench.yaml", "bench:\n  duration: 50ms\nlog:\n  level: error\n")

	if _, _, err := runApp(t, "-c", path, "bench", "--watch"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
