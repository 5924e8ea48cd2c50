package config

import (
	"errors"
	"fmt"

	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// ErrInvalid is wrapped by every verification failure.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyMap(&cfg.Map); err != nil {
		return err
	}
	if err := verifyBench(&cfg.Bench); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyMap(cfg *MapSection) error {
	if cfg.Buckets < 1 {
		return fmt.Errorf("%w: map.buckets must be at least 1, got %d", ErrInvalid, cfg.Buckets)
	}
	if _, err := cmap.HasherByName(cfg.Hasher, cfg.Buckets); err != nil {
		return fmt.Errorf("%w: map.hasher: %w", ErrInvalid, err)
	}
	return nil
}

func verifyBench(cfg *BenchSection) error {
	switch {
	case cfg.Workers < 1:
		return fmt.Errorf("%w: bench.workers must be at least 1, got %d", ErrInvalid, cfg.Workers)
	case cfg.Duration < 0:
		return fmt.Errorf("%w: bench.duration must not be negative", ErrInvalid)
	case cfg.Operations < 0:
		return fmt.Errorf("%w: bench.operations must not be negative", ErrInvalid)
	case cfg.Duration == 0 && cfg.Operations == 0:
		return fmt.Errorf("%w: one of bench.duration or bench.operations must be set", ErrInvalid)
	case cfg.Keys < 0:
		return fmt.Errorf("%w: bench.keys must not be negative", ErrInvalid)
	case cfg.Rate < 0:
		return fmt.Errorf("%w: bench.rate must not be negative", ErrInvalid)
	case cfg.Reads < 0 || cfg.Reads > 1:
		return fmt.Errorf("%w: bench.reads must be within [0, 1]", ErrInvalid)
	case cfg.Removes < 0 || cfg.Removes > 1:
		return fmt.Errorf("%w: bench.removes must be within [0, 1]", ErrInvalid)
	case cfg.Reads+cfg.Removes > 1:
		return fmt.Errorf("%w: bench.reads + bench.removes must not exceed 1", ErrInvalid)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch cfg.Format {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalid, cfg.Format)
	}
	return nil
}
