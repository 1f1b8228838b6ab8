package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTracingRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := gin.New()
	r.Use(RequestID(RequestIDConfig{}), Tracing(tp))
	r.GET("/vehicles/:id", func(c *gin.Context) {
		if !trace.SpanFromContext(c.Request.Context()).SpanContext().IsValid() {
			t.Error("handler context should carry the request span")
		}
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r, rec
}

func spanAttr(s sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanPerRequest(t *testing.T) {
	r, rec := setupTracingRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vehicles/7", nil))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d; want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "GET /vehicles/:id" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v; want server", s.SpanKind())
	}
	if v, _ := spanAttr(s, "http.response.status_code"); v.AsInt64() != http.StatusOK {
		t.Errorf("status attribute = %v", v.AsInt64())
	}
	if v, _ := spanAttr(s, "request.id"); v.AsString() != w.Header().Get(RequestIDHeader) {
		t.Errorf("request.id = %q; want response header %q", v.AsString(), w.Header().Get(RequestIDHeader))
	}
	if s.Status().Code == codes.Error {
		t.Error("2xx span should not be marked as error")
	}
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	r, rec := setupTracingRouter(t)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d; want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v; want error", spans[0].Status().Code)
	}
}

func TestTracing_ContinuesPropagatedTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	r, rec := setupTracingRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/vehicles/1", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d; want 1", len(spans))
	}
	if got := spans[0].SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id = %s", got)
	}
	if got := spans[0].Parent().SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("parent span id = %s", got)
	}
}
