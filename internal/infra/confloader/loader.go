package confloader

import (
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "CHAINMAP_"

// Source names reported by Origin, in increasing priority.
const (
	SourceDefault  = "default"
	SourceFile     = "file"
	SourceEnv      = "env"
	SourceOverride = "flag"
)

// Loader merges configuration from a YAML file, the environment and
// explicit overrides, and remembers which source set each key.
type Loader struct {
	mu        sync.Mutex
	k         *koanf.Koanf
	origins   map[string]string
	envPrefix string
	filePath  string
	overrides map[string]any
	loaded    bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets flat, dot-delimited values applied after the file and
// the environment, typically from CLI flags.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		origins:   make(map[string]string),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// source is one layer of configuration.
type source struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// sources returns the configured layers, lowest priority first. Values
// already present in the target passed to Load act as the bottom layer.
func (l *Loader) sources() []source {
	var out []source
	if l.filePath != "" {
		out = append(out, source{SourceFile, file.Provider(l.filePath), yaml.Parser()})
	}
	out = append(out, source{SourceEnv, env.Provider(l.envPrefix, ".", l.envKey), nil})
	if len(l.overrides) > 0 {
		out = append(out, source{SourceOverride, mapProvider(maps.Unflatten(l.overrides, ".")), nil})
	}
	return out
}

// envKey maps CHAINMAP_MAP_BUCKETS to map.buckets.
func (l *Loader) envKey(s string) string {
	s = strings.TrimPrefix(s, l.envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

// Load merges every source and unmarshals the result into target, which
// should already hold the defaults.
func (l *Loader) Load(target any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(target)
}

// Reload discards everything loaded so far and loads all sources again
// into target. The bench command calls it when the Watcher reports a file
// change.
func (l *Loader) Reload(target any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.k = koanf.New(".")
	l.origins = make(map[string]string)
	l.loaded = false
	return l.load(target)
}

func (l *Loader) load(target any) error {
	for _, src := range l.sources() {
		if err := l.apply(src); err != nil {
			if src.name == SourceFile {
				return fmt.Errorf("load file %s: %w", l.filePath, err)
			}
			return fmt.Errorf("load %s: %w", src.name, err)
		}
	}

	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	l.loaded = true
	return nil
}

// apply loads src on its own first so the keys it sets can be attributed
// to it, then merges it over the previous layers.
func (l *Loader) apply(src source) error {
	layer := koanf.New(".")
	if err := layer.Load(src.provider, src.parser); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		l.origins[key] = src.name
	}
	return l.k.Merge(layer)
}

// Origin reports which source last set key: SourceFile, SourceEnv,
// SourceOverride, or SourceDefault when no source mentioned it.
func (l *Loader) Origin(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if src, ok := l.origins[key]; ok {
		return src
	}
	return SourceDefault
}

// Get returns the merged value for a dot-delimited key, or nil.
func (l *Loader) Get(key string) any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.k.Get(key)
}

// IsLoaded reports whether the last Load or Reload succeeded.
func (l *Loader) IsLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// FilePath returns the configuration file path, if any.
func (l *Loader) FilePath() string {
	return l.filePath
}
