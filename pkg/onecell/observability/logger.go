// Package observability provides logging, metrics, and tracing for
// onecell initialization races.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds race-run context to a logger.
// Returns a new logger with run_id and cell fields.
func EnrichLogger(logger *slog.Logger, runID, cell string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("cell", cell),
	)
}

// LogRunStart logs the start of a race run.
func LogRunStart(logger *slog.Logger, runID string, callers int) {
	if logger == nil {
		return
	}
	logger.Info("race run starting",
		slog.String("run_id", runID),
		slog.Int("callers", callers),
	)
}

// LogRunComplete logs a completed race run and its winner.
func LogRunComplete(logger *slog.Logger, runID, winner string, callers int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("race run completed",
		slog.String("run_id", runID),
		slog.String("winner", winner),
		slog.Int("callers", callers),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogWinner logs the caller whose construction populated the slot.
func LogWinner(logger *slog.Logger, cell, payload string, caller int) {
	if logger == nil {
		return
	}
	logger.Debug("initialization won",
		slog.String("cell", cell),
		slog.String("payload", payload),
		slog.Int("caller", caller),
	)
}

// LogDiscarded logs a payload that lost the race and was dropped.
func LogDiscarded(logger *slog.Logger, cell, payload string) {
	if logger == nil {
		return
	}
	logger.Debug("payload discarded",
		slog.String("cell", cell),
		slog.String("payload", payload),
	)
}

// LogUninitializedAccess logs a fail-fast read of an empty slot.
func LogUninitializedAccess(logger *slog.Logger, cell string, err error) {
	if logger == nil {
		return
	}
	logger.Error("uninitialized access",
		slog.String("cell", cell),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
