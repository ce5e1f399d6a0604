package httpclient

import (
	"context"
	"maps"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gaborage/stockdeal/logger"
)

// Test constants to avoid string duplication
const (
	testContentType       = "application/json"
	testContentTypeHeader = "Content-Type"
	testRequestMsg        = "REST client request"
	testFailedMsg         = "REST client call failed"
	testRetryMsg          = "Retrying REST client call"
)

func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newTestClient builds a client against srv with no retry delay.
func newTestClient(srv *httptest.Server, log logger.Logger) *Builder {
	return NewBuilder(log).
		WithBaseURL(srv.URL).
		WithRetries(DefaultRetries, time.Millisecond)
}

type outcome struct {
	success bool
	message string
}

// recordingNotifier captures notifier calls
type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []outcome
}

func (r *recordingNotifier) OnOutcome(success bool, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome{success: success, message: message})
}

func (r *recordingNotifier) all() []outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outcome(nil), r.outcomes...)
}

type loggedEvent struct {
	level   string
	fields  map[string]any
	message string
}

// fakeLogger implements logger.Logger for testing
type fakeLogger struct {
	mu     sync.Mutex
	events []loggedEvent
	fields map[string]any
}

func newFakeLogger() *fakeLogger {
	return &fakeLogger{fields: make(map[string]any)}
}

func (l *fakeLogger) newEvent(level string) logger.LogEvent {
	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = make(map[string]any)
	}
	return &fakeLogEvent{logger: l, level: level, fields: fields}
}

func (l *fakeLogger) Info() logger.LogEvent  { return l.newEvent("info") }
func (l *fakeLogger) Error() logger.LogEvent { return l.newEvent("error") }
func (l *fakeLogger) Debug() logger.LogEvent { return l.newEvent("debug") }
func (l *fakeLogger) Warn() logger.LogEvent  { return l.newEvent("warn") }

func (l *fakeLogger) WithFields(fields map[string]any) logger.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &fakeLogger{fields: merged}
}

func (l *fakeLogger) find(message string) []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []loggedEvent
	for _, e := range l.events {
		if e.message == message {
			out = append(out, e)
		}
	}
	return out
}

// fakeLogEvent implements logger.LogEvent for testing
type fakeLogEvent struct {
	logger *fakeLogger
	level  string
	fields map[string]any
}

func (e *fakeLogEvent) Msg(msg string) {
	e.logger.mu.Lock()
	defer e.logger.mu.Unlock()
	e.logger.events = append(e.logger.events, loggedEvent{level: e.level, fields: e.fields, message: msg})
}

func (e *fakeLogEvent) Msgf(format string, _ ...any) {
	// For testing, we'll just capture the format as the message
	e.Msg(format)
}

func (e *fakeLogEvent) set(key string, value any) logger.LogEvent {
	e.fields[key] = value
	return e
}

func (e *fakeLogEvent) Err(err error) logger.LogEvent               { return e.set("error", err) }
func (e *fakeLogEvent) Str(key, value string) logger.LogEvent       { return e.set(key, value) }
func (e *fakeLogEvent) Int(key string, value int) logger.LogEvent   { return e.set(key, value) }
func (e *fakeLogEvent) Int64(key string, v int64) logger.LogEvent   { return e.set(key, v) }
func (e *fakeLogEvent) Bool(key string, v bool) logger.LogEvent     { return e.set(key, v) }
func (e *fakeLogEvent) Dur(key string, d time.Duration) logger.LogEvent {
	return e.set(key, d)
}
func (e *fakeLogEvent) Interface(key string, i any) logger.LogEvent { return e.set(key, i) }
func (e *fakeLogEvent) Bytes(key string, val []byte) logger.LogEvent {
	return e.set(key, string(val))
}
