package workload

import (
	"time"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// Result summarizes one workload run.
type Result struct {
	RunID string `json:"run_id" yaml:"run_id"`

	Puts    int64 `json:"puts" yaml:"puts"`
	Gets    int64 `json:"gets" yaml:"gets"`
	Hits    int64 `json:"hits" yaml:"hits"`
	Removes int64 `json:"removes" yaml:"removes"`

	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
	OpsPerSecond float64       `json:"ops_per_second" yaml:"ops_per_second"`

	// Entries and Buckets describe the map just before it was destroyed.
	Entries int                `json:"entries" yaml:"entries"`
	Buckets []cmap.BucketStats `json:"buckets" yaml:"buckets"`

	// KeysReleased and ValuesReleased count destructor calls over the
	// whole run, including overwrites, removes and the final teardown.
	KeysReleased   int64 `json:"keys_released" yaml:"keys_released"`
	ValuesReleased int64 `json:"values_released" yaml:"values_released"`

	// Interrupted is set when the parent context ended the run early.
	Interrupted bool `json:"interrupted" yaml:"interrupted"`
}

// Operations returns the total operation count.
func (r *Result) Operations() int64 {
	return r.Puts + r.Gets + r.Removes
}

// counts is a per-worker tally merged into the Result after the run.
type counts struct {
	puts, gets, hits, removes int64
}

func (c *counts) add(o counts) {
	c.puts += o.puts
	c.gets += o.gets
	c.hits += o.hits
	c.removes += o.removes
}
