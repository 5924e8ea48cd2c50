// Package logger provides structured logging for chainmap on top of
// log/slog.
//
// Every logger built by New shares one level, so SetLevel (used when the
// bench command reloads its config file) affects all of them. Durations
// are written as "1.5s" in both JSON and text output.
//
// Context helpers carry the logger and the workload run ID:
//
//	ctx = logger.WithRunID(logger.WithLogger(ctx, l), runID)
//	logger.L(ctx).Info("workload started") // tagged with run_id
package logger
