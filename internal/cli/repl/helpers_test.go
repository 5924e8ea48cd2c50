package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

func newTestMap(t *testing.T) *cmap.Map[string, string] {
	t.Helper()
	m, err := cmap.New(cmap.Callbacks[string, string]{
		Hash:         cmap.Murmur3String,
		Equal:        cmap.Equal[string](),
		DestroyKey:   cmap.Noop[string](),
		DestroyValue: cmap.Noop[string](),
	}, cmap.WithBucketCount(4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(m.Destroy)
	return m
}

// runScript feeds input to a fresh shell and returns its output.
func runScript(t *testing.T, m *cmap.Map[string, string], h *History, input string) string {
	t.Helper()
	var out bytes.Buffer
	r := New(m, WithIO(strings.NewReader(input), &out), WithHistory(h))
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}
