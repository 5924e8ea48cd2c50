// Package benchmark measures the concurrent map under contention.
//
// The suites vary one factor at a time: chain length at a fixed bucket
// count, the hash function, the number of goroutines, and memory per
// entry. The workload suite drives full bench runs through the runner.
//
//	go test -run=^$ -bench=. -benchmem ./internal/tests/benchmark/...
//	go test -run=^$ -bench=BenchmarkHashers -count=10 ./internal/tests/benchmark/... > new.txt
//	benchstat old.txt new.txt
package benchmark
