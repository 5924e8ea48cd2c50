package cmap

import "log/slog"

// DefaultBucketCount is the bucket count used when WithBucketCount is not given.
const DefaultBucketCount = 10

type options struct {
	bucketCount int
	logger      *slog.Logger
	observer    Observer
}

// Option configures a Map at construction.
type Option func(*options)

// WithBucketCount sets the fixed number of buckets. It must be positive.
func WithBucketCount(n int) Option {
	return func(o *options) {
		o.bucketCount = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver reports operations and lock waits to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
