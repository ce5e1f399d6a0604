package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricznoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewProviderNilConfig(t *testing.T) {
	_, err := NewProvider(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNewProviderDisabledReturnsNoop(t *testing.T) {
	p, err := NewProvider(&Config{Enabled: false})
	require.NoError(t, err)

	assert.IsType(t, noop.NewTracerProvider(), p.TracerProvider())
	assert.IsType(t, metricznoop.NewMeterProvider(), p.MeterProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.ForceFlush(context.Background()))
}

func TestNewProviderExporterNone(t *testing.T) {
	p, err := NewProvider(&Config{Enabled: true, Exporter: ExporterNone, ServiceName: "svc"})
	require.NoError(t, err)
	assert.IsType(t, &noopProvider{}, p)
}

func TestNewProviderInvalidExporter(t *testing.T) {
	_, err := NewProvider(&Config{Enabled: true, Exporter: "otlp", ServiceName: "svc"})
	assert.ErrorIs(t, err, ErrInvalidExporter)
}

func TestNewProviderDoesNotMutateConfig(t *testing.T) {
	cfg := &Config{Enabled: false}
	_, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Empty(t, cfg.Exporter)
	assert.Empty(t, cfg.ServiceName)
}

func TestStdoutProviderWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(&Config{Enabled: true, Exporter: ExporterStdout, ServiceName: "stockdeal-test", Writer: &buf})
	require.NoError(t, err)

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "list-accounts")
	span.End()

	require.NoError(t, Shutdown(p, 0))
	assert.Contains(t, buf.String(), "list-accounts")
	assert.Contains(t, buf.String(), "stockdeal-test")

	// second shutdown is a no-op
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestConfigValidate(t *testing.T) {
	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)

	cfg := Config{Enabled: true, Exporter: ExporterStdout}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingServiceName)

	cfg.ApplyDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, DefaultMetricInterval, cfg.MetricInterval)
}

func TestShutdownNilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(nil, 0))
}
