package config

import (
	"time"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// Default returns the configuration used when no source sets a value.
func Default() *Config {
	return &Config{
		Map: MapSection{
			Buckets: 64,
			Hasher:  cmap.HasherMurmur3,
		},
		Bench: BenchSection{
			Workers:  4,
			Duration: 5 * time.Second,
			Keys:     1024,
			Reads:    0.5,
			Removes:  0.1,
		},
		Log: LogSection{
			Level:  "info",
			Format: "json",
		},
	}
}
