package tracing

import (
	"context"
	"testing"

	"github.com/SkynetNext/writeresult/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

func TestInit_Disabled(t *testing.T) {
	if err := Init(context.Background(), config.TracingConfig{}, "test"); err != nil {
		t.Fatalf("Expected no error with tracing disabled, got %v", err)
	}
	if tracerProvider != nil {
		t.Error("Expected no tracer provider when endpoint is empty")
	}

	// Spans still work against the no-op provider
	ctx, span := StartSpan(context.Background(), "worker", attribute.Int("worker", 1))
	defer span.End()
	if ctx == nil {
		t.Error("Expected a context from StartSpan")
	}

	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Expected no error on shutdown, got %v", err)
	}
}
