package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records initialization race metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInitialization records one GetOrInitialize call: whether it
	// won the race and how long it took (lock wait included).
	RecordInitialization(ctx context.Context, cell string, won bool, duration time.Duration)

	// RecordRaceRun records a completed stress run.
	RecordRaceRun(ctx context.Context, cell string, callers int, duration time.Duration)

	// RecordUninitializedAccess records a fail-fast read of an empty slot.
	RecordUninitializedAccess(ctx context.Context, cell string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	initAttempts  metric.Int64Counter
	initWinners   metric.Int64Counter
	initDiscarded metric.Int64Counter
	initLatency   metric.Float64Histogram
	raceRuns      metric.Int64Counter
	raceLatency   metric.Float64Histogram
	uninitReads   metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("onecell")

	initAttempts, err := meter.Int64Counter("onecell.init.attempts",
		metric.WithDescription("Number of GetOrInitialize calls"),
	)
	if err != nil {
		return nil, err
	}

	initWinners, err := meter.Int64Counter("onecell.init.winners",
		metric.WithDescription("Number of calls that constructed the instance"),
	)
	if err != nil {
		return nil, err
	}

	initDiscarded, err := meter.Int64Counter("onecell.init.discarded",
		metric.WithDescription("Number of payloads discarded by first-writer-wins"),
	)
	if err != nil {
		return nil, err
	}

	initLatency, err := meter.Float64Histogram("onecell.init.latency_ms",
		metric.WithDescription("GetOrInitialize latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	raceRuns, err := meter.Int64Counter("onecell.race.runs",
		metric.WithDescription("Number of stress runs"),
	)
	if err != nil {
		return nil, err
	}

	raceLatency, err := meter.Float64Histogram("onecell.race.latency_ms",
		metric.WithDescription("Stress run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	uninitReads, err := meter.Int64Counter("onecell.access.uninitialized",
		metric.WithDescription("Number of reads of an empty slot"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		initAttempts:  initAttempts,
		initWinners:   initWinners,
		initDiscarded: initDiscarded,
		initLatency:   initLatency,
		raceRuns:      raceRuns,
		raceLatency:   raceLatency,
		uninitReads:   uninitReads,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInitialization records one GetOrInitialize call.
func (m *otelMetrics) RecordInitialization(ctx context.Context, cell string, won bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("cell", cell),
	}

	m.initAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.initLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if won {
		m.initWinners.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		m.initDiscarded.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRaceRun records a completed stress run.
func (m *otelMetrics) RecordRaceRun(ctx context.Context, cell string, callers int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("cell", cell),
		attribute.Int("callers", callers),
	}
	m.raceRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.raceLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordUninitializedAccess records a fail-fast empty-slot read.
func (m *otelMetrics) RecordUninitializedAccess(ctx context.Context, cell string) {
	m.uninitReads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cell", cell),
	))
}
