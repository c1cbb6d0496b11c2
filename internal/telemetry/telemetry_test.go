package telemetry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

// TestInitializeDisabled verifies a disabled config installs nothing.
func TestInitializeDisabled(t *testing.T) {
	before := otel.GetTracerProvider()
	p, err := Initialize(context.Background(), Config{}, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Error("expected nil provider")
	}
	if otel.GetTracerProvider() != before {
		t.Error("global tracer provider changed")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Shutdown: %v", err)
	}
}

// TestInitializeEnabled verifies the exporter is built lazily and shuts down cleanly.
func TestInitializeEnabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	p, err := Initialize(context.Background(), Config{
		Enabled:     true,
		ServiceName: "netgains-test",
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
	}, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || otel.GetTracerProvider() != p.TracerProvider {
		t.Fatal("provider not installed globally")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}
