// Package config defines the chainmap tool configuration.
package config

import "time"

// Config is the root configuration for the chainmap CLI.
//
// Keys are single words per level so the CHAINMAP_SECTION_KEY environment
// form maps back onto them unambiguously.
type Config struct {
	Map     MapSection     `koanf:"map" json:"map" yaml:"map"`
	Bench   BenchSection   `koanf:"bench" json:"bench" yaml:"bench"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
}

// MapSection configures the map under test.
type MapSection struct {
	// Buckets is the fixed bucket count.
	Buckets int `koanf:"buckets" json:"buckets" yaml:"buckets"`

	// Hasher names a string hash function: murmur3, xxhash or additive.
	Hasher string `koanf:"hasher" json:"hasher" yaml:"hasher"`
}

// BenchSection configures the workload driver.
type BenchSection struct {
	Workers int `koanf:"workers" json:"workers" yaml:"workers"`

	// Duration bounds the run. Zero means run until Operations is reached.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`

	// Operations caps the total operation count across workers. Zero means
	// unbounded.
	Operations int `koanf:"operations" json:"operations" yaml:"operations"`

	// Keys is the size of the key space. Zero means every put uses a fresh
	// unique key.
	Keys int `koanf:"keys" json:"keys" yaml:"keys"`

	// Rate limits operations per second across all workers. Zero disables
	// limiting.
	Rate float64 `koanf:"rate" json:"rate" yaml:"rate"`

	// Reads and Removes are the fractions of operations that are gets and
	// removes. The remainder are puts.
	Reads   float64 `koanf:"reads" json:"reads" yaml:"reads"`
	Removes float64 `koanf:"removes" json:"removes" yaml:"removes"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}
