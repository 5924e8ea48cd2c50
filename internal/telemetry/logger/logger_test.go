package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// newBuffered returns a logger writing to a buffer and restores the shared
// level when the test ends.
func newBuffered(t *testing.T, cfg Config) (Logger, *bytes.Buffer) {
	t.Helper()
	prev := level.Level()
	t.Cleanup(func() { level.Set(prev) })

	var buf bytes.Buffer
	cfg.Output = &buf
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"bad level", Config{Level: "trace"}, ErrInvalidLevel},
		{"bad format", Config{Format: "xml"}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format string
		json   bool
	}{
		{"", true},
		{"json", true},
		{"JSON", true},
		{"text", false},
		{"console", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			l, buf := newBuffered(t, Config{Format: tt.format})
			l.Info("bucket scanned", "bucket", 7)

			isJSON := json.Valid(bytes.TrimSpace(buf.Bytes()))
			if isJSON != tt.json {
				t.Errorf("format %q produced JSON = %v, want %v: %s", tt.format, isJSON, tt.json, buf.String())
			}
			if !tt.json && !strings.Contains(buf.String(), "bucket=7") {
				t.Errorf("text output missing attribute: %s", buf.String())
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBuffered(t, Config{Level: "debug"})

	tests := []struct {
		level string
		log   func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log("entry", "key", "Donna")

			entry := decode(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["key"] != "Donna" {
				t.Errorf("key = %v, want Donna", entry["key"])
			}
		})
	}
}

func TestLogger_Filtering(t *testing.T) {
	l, buf := newBuffered(t, Config{Level: "warn"})

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() > 0 {
		t.Fatalf("debug/info logged at warn level: %s", buf.String())
	}

	l.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}

func TestLogger_WithAndNamed(t *testing.T) {
	l, buf := newBuffered(t, Config{})

	l.Named("workload").With("workers", 4).Info("run started")

	entry := decode(t, buf)
	if entry["component"] != "workload" {
		t.Errorf("component = %v, want workload", entry["component"])
	}
	if entry["workers"] != float64(4) {
		t.Errorf("workers = %v, want 4", entry["workers"])
	}
}

func TestLogger_DurationAttr(t *testing.T) {
	l, buf := newBuffered(t, Config{})

	l.Info("run finished", "elapsed", 1500*time.Millisecond)

	if got := decode(t, buf)["elapsed"]; got != "1.5s" {
		t.Errorf("elapsed = %v, want 1.5s", got)
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBuffered(t, Config{Level: "error"})

	l.Info("hidden")
	if buf.Len() > 0 {
		t.Fatal("info logged at error level")
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("info not logged after SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}

	if err := SetLevel("loud"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("SetLevel(loud) error = %v, want ErrInvalidLevel", err)
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("invalid SetLevel changed level to %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, buf := newBuffered(t, Config{Level: "debug"})
	SetDefault(l)

	for name, log := range map[string]func(string, ...any){
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	} {
		buf.Reset()
		log("package level")
		if buf.Len() == 0 {
			t.Errorf("%s() produced no output", name)
		}
	}

	buf.Reset()
	slog.Info("through slog default")
	if !strings.Contains(buf.String(), "through slog default") {
		t.Errorf("slog.Default not redirected: %q", buf.String())
	}
}

func TestLogger_Slog(t *testing.T) {
	l, buf := newBuffered(t, Config{Level: "debug"})

	l.Slog().Debug("from slog", "bucket", 3)

	if got := decode(t, buf)["bucket"]; got != float64(3) {
		t.Errorf("bucket = %v, want 3", got)
	}
}
