// Package httpclient is the request layer for the StockDeal API: a thin
// wrapper around net/http adding linear retry, caller-owned cancellation,
// uniform error normalization and outcome notifications.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/stockdeal/logger"
	"github.com/gaborage/stockdeal/trace"
)

const (
	// DefaultBaseURL is used when no base URL is configured
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default per-attempt timeout
	DefaultTimeout = 8 * time.Second

	// DefaultRetries is the default number of retries for retryable failures
	DefaultRetries = 1

	// DefaultRetryDelay is the base delay between retries
	DefaultRetryDelay = 300 * time.Millisecond

	// DefaultMaxPayloadLogBytes caps logged bodies when payload logging is on
	DefaultMaxPayloadLogBytes = 2048
)

// RequestInterceptor is called before sending each attempt
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor is called after receiving each response
type ResponseInterceptor func(ctx context.Context, req *http.Request, resp *http.Response) error

// Config holds the client configuration. It is copied by Build and never
// changed afterwards.
type Config struct {
	BaseURL              string
	Timeout              time.Duration
	Retries              int
	RetryDelay           time.Duration
	DefaultHeaders       map[string]string
	Notifier             Notifier
	Transport            http.RoundTripper
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	// RateLimiter throttles attempts; nil disables client-side limiting
	RateLimiter *rate.Limiter
	// TraceSource supplies X-Trace-Id when neither the call nor its context set one
	TraceSource trace.Source
	// EnableW3CTrace adds a traceparent header to every attempt
	EnableW3CTrace bool
	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
	MeterProvider      metric.MeterProvider
	TracerProvider     oteltrace.TracerProvider
}

// Response is a successful HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
	Attempts    int
}

// Client executes calls against the StockDeal API. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
	config     Config
	metrics    *instruments
	callCount  int64
}

// Builder provides a fluent interface for configuring the client
type Builder struct {
	config Config
	logger logger.Logger
}

// NewBuilder creates a new client builder with the default configuration
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Builder{
		config: Config{
			BaseURL:    DefaultBaseURL,
			Timeout:    DefaultTimeout,
			Retries:    DefaultRetries,
			RetryDelay: DefaultRetryDelay,
			DefaultHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			MaxPayloadLogBytes: DefaultMaxPayloadLogBytes,
		},
		logger: log,
	}
}

// WithBaseURL sets the API base URL
func (b *Builder) WithBaseURL(base string) *Builder {
	b.config.BaseURL = base
	return b
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetries sets the default retry count and base delay
func (b *Builder) WithRetries(retries int, retryDelay time.Duration) *Builder {
	b.config.Retries = max(retries, 0)
	b.config.RetryDelay = max(retryDelay, 0)
	return b
}

// WithDefaultHeader adds a header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithNotifier sets the outcome observer
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.config.Notifier = n
	return b
}

// WithTransport replaces the HTTP transport
func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.config.Transport = rt
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithRateLimit limits attempts to rps per second with the given burst.
// A non-positive rps disables limiting.
func (b *Builder) WithRateLimit(rps float64, burst int) *Builder {
	if rps <= 0 {
		b.config.RateLimiter = nil
		return b
	}
	b.config.RateLimiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	return b
}

// WithTraceSource sets where X-Trace-Id values come from
func (b *Builder) WithTraceSource(src trace.Source) *Builder {
	b.config.TraceSource = src
	return b
}

// WithW3CTrace toggles traceparent propagation
func (b *Builder) WithW3CTrace(enabled bool) *Builder {
	b.config.EnableW3CTrace = enabled
	return b
}

// WithPayloadLogging enables debug logging of bodies, truncated to maxBytes
func (b *Builder) WithPayloadLogging(enabled bool, maxBytes int) *Builder {
	b.config.LogPayloads = enabled
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithMeterProvider sets the meter provider for call metrics
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.config.MeterProvider = mp
	return b
}

// WithTracerProvider sets the tracer provider for call spans
func (b *Builder) WithTracerProvider(tp oteltrace.TracerProvider) *Builder {
	b.config.TracerProvider = tp
	return b
}

// Build creates the client. Later changes to the builder do not affect it.
func (b *Builder) Build() *Client {
	cfg := b.config
	cfg.DefaultHeaders = maps.Clone(b.config.DefaultHeaders)
	cfg.RequestInterceptors = append([]RequestInterceptor(nil), b.config.RequestInterceptors...)
	cfg.ResponseInterceptors = append([]ResponseInterceptor(nil), b.config.ResponseInterceptors...)
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		logger:  b.logger,
		config:  cfg,
		metrics: newInstruments(cfg.MeterProvider, cfg.TracerProvider),
	}
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.DefaultHeaders = maps.Clone(c.config.DefaultHeaders)
	return cfg
}

// Request performs a call and JSON-decodes a successful body into T. An
// empty body (e.g. 204) yields the zero value.
func Request[T any](ctx context.Context, c *Client, path string, opts ...Option) (T, error) {
	var out T
	decode := func(body []byte) error {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		return json.Unmarshal(body, &out)
	}

	opts = append(opts[:len(opts):len(opts)], withDecoder(decode))
	if _, err := c.Do(ctx, path, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do performs a call. Retryable failures are retried with linear backoff;
// terminal failures are returned as *APIError. If ctx is canceled the
// cancellation cause is returned as-is and nothing is retried or notified.
func (c *Client) Do(ctx context.Context, path string, opts ...Option) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d := c.newDescriptor(path, opts)

	start := time.Now()
	callCount := atomic.AddInt64(&c.callCount, 1)
	ctx, span := c.metrics.startCall(ctx, d)

	if d.bodyErr != nil {
		return nil, c.fail(span, d, start, d.bodyErr)
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.attempt(ctx, d, attempt, start, callCount)
		if err == nil {
			c.metrics.endCall(span, d, outcomeSuccess, resp.StatusCode, time.Since(start), nil)
			c.notifySuccess(d)
			return resp, nil
		}

		if ctx.Err() != nil || IsCanceled(err) {
			return nil, c.canceled(ctx, span, d, start, err)
		}

		if attempt < d.Retries && d.RetryIf(err) {
			delay := backoffDelay(d.RetryDelay, attempt)
			c.logRetry(d, attempt+1, delay, err)
			c.metrics.recordRetry(ctx, d.Method, attempt+1)
			if serr := sleepContext(ctx, delay); serr != nil {
				return nil, c.canceled(ctx, span, d, start, serr)
			}
			continue
		}

		return nil, c.fail(span, d, start, err)
	}
}

// attempt performs one HTTP round trip. It returns a *TransportError for
// failures and the raw cancellation cause if ctx is done.
func (c *Client) attempt(ctx context.Context, d *Descriptor, attempt int, start time.Time, callCount int64) (*Response, error) {
	if c.config.RateLimiter != nil {
		if err := c.config.RateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
			return nil, &TransportError{Code: CodeRateLimit, Err: err}
		}
	}

	httpReq, err := c.buildRequest(ctx, d)
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return nil, err
	}

	c.logRequest(httpReq, d, attempt)
	c.metrics.recordAttempt(ctx, d.Method)
	logger.IncrementHTTPCounter(ctx)
	attemptStart := time.Now()
	defer func() {
		logger.AddHTTPElapsed(ctx, int64(time.Since(attemptStart)))
	}()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		if isTimeout(err) {
			return nil, &TransportError{Code: CodeTimeout, Err: err}
		}
		return nil, &TransportError{Code: CodeNetwork, Err: err}
	}

	resp, err := c.buildResponse(ctx, start, callCount, attempt, httpReq, httpResp)
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return nil, err
	}
	c.logResponse(d, resp)

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, newStatusError(resp.StatusCode, resp.Body)
	}

	if d.decode != nil {
		if err := d.decode(resp.Body); err != nil {
			return nil, &TransportError{Code: CodeDecode, StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
		}
	}
	return resp, nil
}

func (c *Client) fail(span oteltrace.Span, d *Descriptor, start time.Time, err error) error {
	normalized := Normalize(err)
	apiErr, ok := AsAPIError(normalized)
	if !ok {
		return normalized
	}

	event := c.logger.Error()
	if apiErr.Status >= 400 && apiErr.Status < 500 {
		event = c.logger.Warn()
	}
	event.Err(apiErr).
		Str("method", d.Method).
		Str("path", d.Path).
		Int("status", apiErr.Status).
		Str("code", string(apiErr.Code)).
		Msg("REST client call failed")

	c.metrics.endCall(span, d, outcomeFailure, apiErr.Status, time.Since(start), apiErr)
	c.notifyFailure(d, apiErr)
	return apiErr
}

func (c *Client) canceled(ctx context.Context, span oteltrace.Span, d *Descriptor, start time.Time, err error) error {
	if ctx.Err() != nil {
		err = context.Cause(ctx)
	}
	c.logger.Debug().
		Str("method", d.Method).
		Str("path", d.Path).
		Msg("REST client call canceled")
	c.metrics.endCall(span, d, outcomeCanceled, 0, time.Since(start), err)
	return err
}

// resolveURL joins the base URL and path; absolute URLs are used as-is.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(c.config.BaseURL, "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// buildRequest constructs an *http.Request, applies headers, and runs request interceptors.
func (c *Client) buildRequest(ctx context.Context, d *Descriptor) (*http.Request, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, d.Method, c.resolveURL(d.Path), body)
	if err != nil {
		return nil, &TransportError{Code: CodeEncode, Err: err}
	}

	// Defaults first; per-call headers override them
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, values := range d.Headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	c.applyTrace(ctx, httpReq)

	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, &TransportError{Code: CodeInterceptor, Err: err}
		}
	}
	return httpReq, nil
}

// applyTrace sets X-Trace-Id unless the call already carries one. The id
// comes from the context, then the configured source, then a fresh UUID.
func (c *Client) applyTrace(ctx context.Context, req *http.Request) {
	if req.Header.Get(trace.HeaderTraceID) == "" {
		id, ok := trace.IDFromContext(ctx)
		if !ok && c.config.TraceSource != nil {
			var err error
			if id, err = c.config.TraceSource.TraceID(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("Trace id source failed, using a fresh id")
				id = ""
			}
		}
		if id == "" {
			id = trace.NewID()
		}
		req.Header.Set(trace.HeaderTraceID, id)
	}

	if !c.config.EnableW3CTrace || req.Header.Get(trace.HeaderTraceParent) != "" {
		return
	}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))
	if req.Header.Get(trace.HeaderTraceParent) != "" {
		return
	}
	if tp, ok := trace.ParentFromContext(ctx); ok {
		req.Header.Set(trace.HeaderTraceParent, tp)
		return
	}
	req.Header.Set(trace.HeaderTraceParent, trace.GenerateTraceParent())
}

// buildResponse runs response interceptors, reads body, and builds a Response.
func (c *Client) buildResponse(ctx context.Context, start time.Time, callCount int64, attempt int, httpReq *http.Request, httpResp *http.Response) (*Response, error) {
	defer httpResp.Body.Close()

	for _, interceptor := range c.config.ResponseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			return nil, &TransportError{Code: CodeInterceptor, StatusCode: httpResp.StatusCode, Err: err}
		}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Code: CodeNetwork, StatusCode: httpResp.StatusCode, Err: err}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(start),
			CallCount:   callCount,
			Attempts:    attempt + 1,
		},
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// logRequest logs the outgoing attempt
func (c *Client) logRequest(req *http.Request, d *Descriptor, attempt int) {
	event := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("trace_id", req.Header.Get(trace.HeaderTraceID)).
		Int("attempt", attempt+1)

	if c.config.LogPayloads {
		event = event.Interface("headers", map[string][]string(req.Header))
		if len(d.Body) > 0 {
			event = event.Bytes("body", c.truncate(d.Body))
		}
	}

	event.Msg("REST client request")
}

// logResponse logs the incoming response
func (c *Client) logResponse(d *Descriptor, resp *Response) {
	event := c.logger.Debug().
		Str("direction", "inbound").
		Str("method", d.Method).
		Str("path", d.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount)

	if c.config.LogPayloads && len(resp.Body) > 0 {
		event = event.Bytes("body", c.truncate(resp.Body))
	}

	event.Msg("REST client response")
}

func (c *Client) logRetry(d *Descriptor, retry int, delay time.Duration, err error) {
	c.logger.Warn().
		Err(err).
		Str("method", d.Method).
		Str("path", d.Path).
		Int("retry", retry).
		Int("max_retries", d.Retries).
		Dur("delay", delay).
		Msg("Retrying REST client call")
}

func (c *Client) truncate(b []byte) []byte {
	if c.config.MaxPayloadLogBytes > 0 && len(b) > c.config.MaxPayloadLogBytes {
		return b[:c.config.MaxPayloadLogBytes]
	}
	return b
}
