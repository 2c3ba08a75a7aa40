package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the onecell tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("onecell")

// SpanManager handles trace span lifecycle for race runs.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span covering an entire race run.
	StartRunSpan(ctx context.Context, cell, runID string) (context.Context, trace.Span)

	// StartCallerSpan starts a span for one contending caller.
	// The caller span should be a child of the run span.
	StartCallerSpan(ctx context.Context, caller int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span covering an entire race run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, cell, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "onecell.race",
		trace.WithAttributes(
			attribute.String("cell", cell),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCallerSpan starts a span for one contending caller.
func (m *otelSpanManager) StartCallerSpan(ctx context.Context, caller int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "onecell.caller",
		trace.WithAttributes(
			attribute.Int("caller", caller),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
