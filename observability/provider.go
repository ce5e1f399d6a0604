// Package observability builds the OpenTelemetry providers used by the
// client: stdout exporters for local inspection, or no-ops.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider is the interface for observability providers.
// It manages the lifecycle of tracing and metrics providers.
type Provider interface {
	// TracerProvider returns the configured trace provider.
	TracerProvider() trace.TracerProvider

	// MeterProvider returns the configured meter provider.
	MeterProvider() metric.MeterProvider

	// Shutdown flushes pending data and releases exporters.
	Shutdown(ctx context.Context) error

	// ForceFlush immediately flushes any pending telemetry data.
	ForceFlush(ctx context.Context) error
}

// provider implements Provider with the OpenTelemetry SDK.
type provider struct {
	config         Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	mu             sync.Mutex
	shutdown       bool
}

// NewProvider creates a provider for cfg. When observability is disabled,
// or the exporter is "none", a no-op provider is returned.
func NewProvider(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	safeCfg := *cfg // Copy to avoid mutating caller's config
	safeCfg.ApplyDefaults()

	if err := safeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if !safeCfg.Enabled || safeCfg.Exporter == ExporterNone {
		return newNoopProvider(), nil
	}

	p := &provider{config: safeCfg}

	if err := p.initTraceProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize trace provider: %w", err)
	}
	if err := p.initMeterProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(p.tracerProvider)
	otel.SetMeterProvider(p.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// MustNewProvider creates a new observability provider and panics on error.
func MustNewProvider(cfg *Config) Provider {
	p, err := NewProvider(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to create observability provider: %w", err))
	}
	return p
}

func (p *provider) writer() io.Writer {
	if p.config.Writer != nil {
		return p.config.Writer
	}
	return os.Stderr
}

// createResource describes the service without a schema URL, so it merges
// with the SDK default resource regardless of semconv version.
func (p *provider) createResource() (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String("service.name", p.config.ServiceName)}
	if p.config.Version != "" {
		attrs = append(attrs, attribute.String("service.version", p.config.Version))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// initTraceProvider initializes the trace provider. Spans are exported
// synchronously so a short CLI run never loses them.
func (p *provider) initTraceProvider() error {
	res, err := p.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(p.writer()),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSyncer(exporter),
	)
	return nil
}

// TracerProvider returns the SDK tracer provider.
func (p *provider) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

// MeterProvider returns the SDK meter provider.
func (p *provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops both providers. Calling it twice is a no-op.
func (p *provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil
	}
	p.shutdown = true

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ForceFlush flushes both providers.
func (p *provider) ForceFlush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil
	}

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
