package httpclient

import (
	"encoding/json"
	"net/http"
	"time"
)

// Descriptor is the immutable description of one logical call. It is
// assembled from Options before the first attempt and reused for retries.
type Descriptor struct {
	Path           string
	Method         string
	Body           []byte
	Headers        http.Header
	Retries        int
	RetryDelay     time.Duration
	RetryIf        RetryPredicate
	Notify         bool
	SuccessMessage string

	decode  func([]byte) error
	bodyErr error
}

// Option configures a single call.
type Option func(*Descriptor)

// WithMethod sets the HTTP method (default GET).
func WithMethod(method string) Option {
	return func(d *Descriptor) {
		d.Method = method
	}
}

// WithBody JSON-encodes v as the request body. Encoding happens once; the
// same bytes are sent on every attempt.
func WithBody(v any) Option {
	return func(d *Descriptor) {
		b, err := json.Marshal(v)
		if err != nil {
			d.bodyErr = &TransportError{Code: CodeEncode, Err: err}
			return
		}
		d.Body = b
	}
}

// WithRawBody sends b unchanged.
func WithRawBody(b []byte) Option {
	return func(d *Descriptor) {
		d.Body = b
	}
}

// WithHeader sets a per-call header, overriding any client default.
func WithHeader(key, value string) Option {
	return func(d *Descriptor) {
		if d.Headers == nil {
			d.Headers = make(http.Header)
		}
		d.Headers.Set(key, value)
	}
}

// WithRetries sets how many times a retryable failure is retried.
func WithRetries(n int) Option {
	return func(d *Descriptor) {
		if n < 0 {
			n = 0
		}
		d.Retries = n
	}
}

// WithRetryDelay sets the base delay; retry n waits delay*n.
func WithRetryDelay(delay time.Duration) Option {
	return func(d *Descriptor) {
		if delay < 0 {
			delay = 0
		}
		d.RetryDelay = delay
	}
}

// WithRetryIf replaces the default retry predicate for this call.
func WithRetryIf(pred RetryPredicate) Option {
	return func(d *Descriptor) {
		d.RetryIf = pred
	}
}

// WithNotify toggles outcome notifications for this call (default on).
func WithNotify(enabled bool) Option {
	return func(d *Descriptor) {
		d.Notify = enabled
	}
}

// WithSuccessMessage sets the message passed to the notifier on success.
func WithSuccessMessage(msg string) Option {
	return func(d *Descriptor) {
		d.SuccessMessage = msg
	}
}

func withDecoder(fn func([]byte) error) Option {
	return func(d *Descriptor) {
		d.decode = fn
	}
}

func (c *Client) newDescriptor(path string, opts []Option) *Descriptor {
	d := &Descriptor{
		Path:       path,
		Method:     http.MethodGet,
		Retries:    c.config.Retries,
		RetryDelay: c.config.RetryDelay,
		RetryIf:    IsRetryable,
		Notify:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.RetryIf == nil {
		d.RetryIf = IsRetryable
	}
	return d
}
