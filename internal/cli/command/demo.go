package command

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/output"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// suits is the reference data set, inserted in this order.
var suits = []cmap.Entry[string, string]{
	{Key: "Mike Ross", Value: "Associate"},
	{Key: "Rachel Zane", Value: "Paralegal"},
	{Key: "Harvey Spectre", Value: "Closer"},
	{Key: "Donna", Value: "Secretary"},
	{Key: "Jessica Pearson", Value: "The Boss"},
	{Key: "Rory", Value: "Ace"},
}

const (
	demoLookup = "Donna"
	demoRemove = "Rory"
)

// DemoCommand returns the demo command.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run the reference scenario and dump the map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hasher",
				Usage: "Key hash function: additive, murmur3, xxhash",
				Value: cmap.HasherAdditive,
			},
			&cli.IntFlag{
				Name:  "buckets",
				Usage: "Bucket count",
				Value: cmap.DefaultBucketCount,
			},
		},
		Action: demoRun,
	}
}

// DemoResult records one run of the reference scenario.
type DemoResult struct {
	Hasher  string                                `json:"hasher" yaml:"hasher"`
	Buckets []cmap.BucketSnapshot[string, string] `json:"buckets" yaml:"buckets"`
	Lookup  cmap.Entry[string, string]            `json:"lookup" yaml:"lookup"`
	Removed string                                `json:"removed" yaml:"removed"`
	Entries int                                   `json:"entries" yaml:"entries"`

	// Released counts key destructor calls during teardown.
	Released int `json:"released" yaml:"released"`

	dump []byte
}

// Table implements output.Tabler. The plain view is the map dump followed
// by the scenario steps; the wide view lists every bucket as a row.
func (r *DemoResult) Table(wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("BUCKET", "POS", "KEY", "VALUE")
		for _, b := range r.Buckets {
			for i, e := range b.Entries {
				t.AddRow(strconv.Itoa(b.Index), strconv.Itoa(i), e.Key, e.Value)
			}
		}
		return t
	}

	for _, line := range bytes.Split(bytes.TrimSuffix(r.dump, []byte("\n")), []byte("\n")) {
		t.AddRow(string(line))
	}
	t.AddRow(fmt.Sprintf("Getting the value of %s: %s", r.Lookup.Key, r.Lookup.Value))
	t.AddRow(fmt.Sprintf("Removing %s", r.Removed))
	t.AddRow(fmt.Sprintf("Entries: %d", r.Entries))
	return t
}

func demoRun(c *cli.Context) error {
	res, err := runDemo(c.String("hasher"), c.Int("buckets"))
	if err != nil {
		return err
	}
	return render(c, res, res)
}

// runDemo inserts the reference entries, dumps the map, looks one key up,
// removes another and tears the map down.
func runDemo(hasher string, buckets int) (*DemoResult, error) {
	hash, err := cmap.HasherByName(hasher, buckets)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	released := 0
	m, err := cmap.New(cmap.Callbacks[string, string]{
		Hash:         hash,
		Equal:        cmap.Equal[string](),
		DestroyKey:   func(string) { released++ },
		DestroyValue: cmap.Noop[string](),
	},
		cmap.WithBucketCount(buckets),
		cmap.WithLogger(logger.Default().Slog()),
	)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	for _, e := range suits {
		m.Put(e.Key, e.Value)
	}

	res := &DemoResult{
		Hasher:  hasher,
		Buckets: m.Buckets(),
		Removed: demoRemove,
	}

	var dump bytes.Buffer
	if err := m.Dump(&dump); err != nil {
		m.Destroy()
		return nil, fmt.Errorf("demo: %w", err)
	}
	res.dump = dump.Bytes()

	m.GetFunc(demoLookup, func(v string) {
		res.Lookup = cmap.Entry[string, string]{Key: demoLookup, Value: v}
	})

	m.Remove(demoRemove)
	res.Entries = m.Len()

	// Only teardown releases are reported.
	released = 0
	m.Destroy()
	res.Released = released

	return res, nil
}
