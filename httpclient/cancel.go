package httpclient

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ErrCanceled is the cancellation cause recorded by Token.Cancel.
var ErrCanceled = fmt.Errorf("httpclient: request canceled: %w", context.Canceled)

// Token is a caller-owned cancellation handle. Pass Context() to Do; call
// Cancel to abort the call from anywhere.
type Token struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu    sync.Mutex
	timer *time.Timer
}

// NewToken returns a token derived from parent.
func NewToken(parent context.Context) *Token {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// WithTimeout returns a token that cancels itself after d. Call Clear once
// the call has finished to stop the timer.
func WithTimeout(parent context.Context, d time.Duration) *Token {
	t := NewToken(parent)
	t.mu.Lock()
	t.timer = time.AfterFunc(d, t.Cancel)
	t.mu.Unlock()
	return t
}

// Context returns the context to pass into a request.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Done is closed once the token is canceled.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Cancel aborts any call using the token. It is safe to call repeatedly.
func (t *Token) Cancel() {
	t.cancel(ErrCanceled)
}

// Canceled reports whether the token (or its parent) has been canceled.
func (t *Token) Canceled() bool {
	return t.ctx.Err() != nil
}

// Err returns the cancellation cause, or nil while the token is live.
func (t *Token) Err() error {
	if t.ctx.Err() == nil {
		return nil
	}
	return context.Cause(t.ctx)
}

// Clear stops a pending WithTimeout timer without canceling the token.
func (t *Token) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Latest issues tokens where only the newest is live: Issue cancels the
// previous token before returning a new one. The zero value is ready to use.
type Latest struct {
	mu      sync.Mutex
	current *Token
}

// Issue cancels the previously issued token and returns a fresh one.
func (l *Latest) Issue(parent context.Context) *Token {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		l.current.Cancel()
	}
	l.current = NewToken(parent)
	return l.current
}

// Cancel cancels the current token, if any.
func (l *Latest) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		l.current.Cancel()
		l.current = nil
	}
}

// Release drops t if it is still the current token, freeing its context.
// It is a no-op once a newer token has been issued.
func (l *Latest) Release(t *Token) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == t {
		l.current = nil
		t.cancel(context.Canceled)
	}
}
