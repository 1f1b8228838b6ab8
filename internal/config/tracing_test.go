package config

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupTracing_Disabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), &TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("SetupTracing() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestSetupTracing_NilConfig(t *testing.T) {
	if _, err := SetupTracing(context.Background(), nil, "test"); err == nil {
		t.Fatal("SetupTracing(nil) expected error, got nil")
	}
}

func TestNewTracerProvider_RecordsResource(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider(&TracingConfig{ServiceName: "fleetbase", SampleRatio: 1}, "1.2.3", sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans; want 1", len(spans))
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Resource().Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["service.name"] != "fleetbase" || attrs["service.version"] != "1.2.3" {
		t.Errorf("resource attributes = %v", attrs)
	}
}

func TestNewTracerProvider_ZeroRatioDropsRootSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider(&TracingConfig{ServiceName: "fleetbase", SampleRatio: 0}, "dev", sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	if n := len(recorder.Ended()); n != 0 {
		t.Errorf("recorded %d spans; want 0", n)
	}
}
