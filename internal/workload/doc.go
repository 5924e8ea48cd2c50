// Package workload drives a concurrent mix of puts, gets and removes
// against a cmap.Map and reports what happened.
//
// A run builds a fresh map[string]string from the map configuration, starts
// bench.workers goroutines under an errgroup, optionally paces them with a
// shared token-bucket limiter, and stops at the configured duration or
// operation budget, whichever comes first. The map is destroyed at the end
// of the run and the destructor counts are part of the Result.
package workload
