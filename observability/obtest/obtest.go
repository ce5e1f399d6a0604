// Package obtest provides in-memory OpenTelemetry providers and small
// lookup helpers for asserting on recorded spans and metrics in tests.
package obtest

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TraceProvider records finished spans in memory.
type TraceProvider struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTraceProvider creates a TraceProvider that exports synchronously.
func NewTraceProvider() *TraceProvider {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return &TraceProvider{TracerProvider: tp, Exporter: exporter}
}

// Spans returns the spans ended so far.
func (p *TraceProvider) Spans() tracetest.SpanStubs {
	return p.Exporter.GetSpans()
}

// SpansNamed returns the ended spans called name.
func (p *TraceProvider) SpansNamed(name string) tracetest.SpanStubs {
	var out tracetest.SpanStubs
	for _, s := range p.Exporter.GetSpans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Attribute looks up key on a recorded span.
func Attribute(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// MeterProvider collects metrics on demand through a manual reader.
type MeterProvider struct {
	*sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

// NewMeterProvider creates a MeterProvider backed by a manual reader.
func NewMeterProvider() *MeterProvider {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &MeterProvider{MeterProvider: mp, reader: reader}
}

// Collect reads the current state of every instrument.
func (p *MeterProvider) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	err := p.reader.Collect(ctx, &rm)
	return rm, err
}

// FindMetric returns the metric called name.
func FindMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// SumInt64 totals every data point of an int64 sum, optionally keeping
// only points whose attributes contain all of attrs.
func SumInt64(rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	m, ok := FindMetric(rm, name)
	if !ok {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if hasAttributes(dp.Attributes, attrs) {
			total += dp.Value
		}
	}
	return total
}

// HistogramCount totals the observation count of a float64 histogram.
func HistogramCount(rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) uint64 {
	m, ok := FindMetric(rm, name)
	if !ok {
		return 0
	}
	hist, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		return 0
	}
	var total uint64
	for _, dp := range hist.DataPoints {
		if hasAttributes(dp.Attributes, attrs) {
			total += dp.Count
		}
	}
	return total
}

func hasAttributes(set attribute.Set, want []attribute.KeyValue) bool {
	for _, kv := range want {
		v, ok := set.Value(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}
	return true
}
