package httpclient

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricznoop "go.opentelemetry.io/otel/metric/noop"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gaborage/stockdeal/observability"
)

const instrumentationName = "github.com/gaborage/stockdeal/httpclient"

// Outcome labels recorded on the call counter.
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeCanceled = "canceled"
)

// instruments holds the telemetry for logical calls. Instrument creation
// errors fall back to no-op instruments so calls never fail on telemetry.
type instruments struct {
	tracer   oteltrace.Tracer
	calls    metric.Int64Counter
	attempts metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider, tp oteltrace.TracerProvider) *instruments {
	if mp == nil {
		mp = metricznoop.NewMeterProvider()
	}
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	meter := mp.Meter(instrumentationName)
	fallback := metricznoop.NewMeterProvider().Meter(instrumentationName)

	inst := &instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	if inst.calls, err = observability.CreateCounter(meter, "stockdeal.client.calls", "Logical API calls by outcome"); err != nil {
		inst.calls, _ = fallback.Int64Counter("stockdeal.client.calls")
	}
	if inst.attempts, err = observability.CreateCounter(meter, "stockdeal.client.attempts", "HTTP attempts including retries"); err != nil {
		inst.attempts, _ = fallback.Int64Counter("stockdeal.client.attempts")
	}
	if inst.retries, err = observability.CreateCounter(meter, "stockdeal.client.retries", "Retries scheduled after a retryable failure"); err != nil {
		inst.retries, _ = fallback.Int64Counter("stockdeal.client.retries")
	}
	if inst.duration, err = observability.CreateHistogram(meter, "stockdeal.client.duration", "Logical call duration", metric.WithUnit("s")); err != nil {
		inst.duration, _ = fallback.Float64Histogram("stockdeal.client.duration")
	}
	return inst
}

func (i *instruments) startCall(ctx context.Context, d *Descriptor) (context.Context, oteltrace.Span) {
	return i.tracer.Start(ctx, "stockdeal "+d.Method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.request.method", d.Method),
			attribute.String("url.path", d.Path),
		),
	)
}

func (i *instruments) recordAttempt(ctx context.Context, method string) {
	i.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

func (i *instruments) recordRetry(ctx context.Context, method string, attempt int) {
	i.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
	oteltrace.SpanFromContext(ctx).AddEvent("retry", oteltrace.WithAttributes(attribute.Int("attempt", attempt)))
}

// endCall records the outcome on the span and the call metrics. The
// context may already be canceled, so metrics are recorded without it.
func (i *instruments) endCall(span oteltrace.Span, d *Descriptor, outcome string, status int, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("method", d.Method),
		attribute.String("outcome", outcome),
	}
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	switch outcome {
	case outcomeSuccess:
		span.SetStatus(codes.Ok, "")
	case outcomeFailure:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetStatus(codes.Unset, outcome)
	}
	span.End()

	ctx := context.Background()
	i.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	i.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
}
