package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestStartSpanAndCarrierRoundTrip(t *testing.T) {
	tr, err := NewClient(Config{ServiceName: "test"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer func() {
		_ = tr.Shutdown(context.Background())
	}()

	ctx, span := tr.StartSpan(context.Background(), "parent")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	if carrier["traceparent"] == "" {
		t.Fatalf("carrier has no traceparent: %v", carrier)
	}

	extracted := trace.SpanContextFromContext(tr.SetCarrierOnContext(context.Background(), carrier))
	if extracted.TraceID() != span.SpanContext().TraceID() {
		t.Fatalf("trace id %s, want %s", extracted.TraceID(), span.SpanContext().TraceID())
	}
	if !extracted.IsRemote() {
		t.Fatal("extracted span context should be remote")
	}
}

func TestNewClientInstallsGlobalProvider(t *testing.T) {
	tr, err := NewClient(Config{ServiceName: "test"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer func() {
		_ = tr.Shutdown(context.Background())
	}()

	if otel.GetTracerProvider() != trace.TracerProvider(tr.tracer) {
		t.Fatal("global provider not installed")
	}
}

func TestRecordErrorAndAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tr, err := NewClient(Config{ServiceName: "test"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tr.tracer.RegisterSpanProcessor(recorder)
	defer func() {
		_ = tr.Shutdown(context.Background())
	}()

	_, span := tr.StartSpan(context.Background(), "op")
	tr.SetAttributes(span, map[string]interface{}{
		"subject": "users-value",
		"version": 3,
		"ok":      false,
		"other":   []string{"a"},
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d", len(ended))
	}
	if got := ended[0].Status().Description; got != "boom" {
		t.Fatalf("status = %q", got)
	}
	if n := len(ended[0].Attributes()); n != 4 {
		t.Fatalf("attributes = %d, want 4", n)
	}
	if n := len(ended[0].Events()); n != 1 {
		t.Fatalf("events = %d, want the recorded error", n)
	}
}
