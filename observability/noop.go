package observability

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	metricznoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// noopProvider is used when telemetry is off.
type noopProvider struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func newNoopProvider() *noopProvider {
	return &noopProvider{
		tracerProvider: noop.NewTracerProvider(),
		meterProvider:  metricznoop.NewMeterProvider(),
	}
}

// NewNoop returns a provider whose tracers and meters discard everything.
func NewNoop() Provider {
	return newNoopProvider()
}

func (n *noopProvider) TracerProvider() trace.TracerProvider {
	return n.tracerProvider
}

func (n *noopProvider) MeterProvider() metric.MeterProvider {
	return n.meterProvider
}

func (n *noopProvider) Shutdown(context.Context) error {
	return nil
}

func (n *noopProvider) ForceFlush(context.Context) error {
	return nil
}
