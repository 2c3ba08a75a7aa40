package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("onecell")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartRunSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	_, span := sm.StartRunSpan(context.Background(), "default", "run-123")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "onecell.race", s.Name)

	var cell, runID string
	for _, attr := range s.Attributes {
		switch attr.Key {
		case "cell":
			cell = attr.Value.AsString()
		case "run.id":
			runID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "default", cell)
	assert.Equal(t, "run-123", runID)
}

func TestStartCallerSpanIsChildOfRun(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	ctx, runSpan := sm.StartRunSpan(context.Background(), "default", "run-1")
	_, callerSpan := sm.StartCallerSpan(ctx, 7)
	callerSpan.End()
	runSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Exporter records in end order: caller first.
	caller := spans[0]
	run := spans[1]
	assert.Equal(t, "onecell.caller", caller.Name)
	assert.Equal(t, run.SpanContext.SpanID(), caller.Parent.SpanID())

	var idx int64 = -1
	for _, attr := range caller.Attributes {
		if attr.Key == "caller" {
			idx = attr.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(7), idx)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("success status", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartRunSpan(context.Background(), "c", "r")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("error status with recorded error", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartRunSpan(context.Background(), "c", "r")
		sm.EndSpanWithError(span, errors.New("divergent instances"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "divergent instances", spans[0].Status.Description)
		assert.NotEmpty(t, spans[0].Events)
	})

	t.Run("nil span tolerated", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("x"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	ctx, span := sm.StartRunSpan(context.Background(), "c", "r")
	sm.AddSpanEvent(ctx, "winner decided", attribute.String("payload", "Data-3"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "winner decided", spans[0].Events[0].Name)
}

func TestAddSpanEventNoSpanInContext(t *testing.T) {
	_, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(context.Background(), "orphan event")
	})
}
