package trace

import (
	"context"
	"fmt"
	"sync"

	"github.com/gaborage/stockdeal/store"
)

// StorageKey is the store key holding the persisted session trace id.
const StorageKey = "stockdeal-trace-id"

// Source supplies the trace id for a request context.
type Source interface {
	TraceID(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (string, error)

// TraceID implements Source.
func (f SourceFunc) TraceID(ctx context.Context) (string, error) {
	return f(ctx)
}

// Persistent is a Source returning one id per installation: it is read
// from the store once, generated and written only if absent, then cached
// for the life of the process. A context-scoped id (WithTraceID) wins.
type Persistent struct {
	store store.Store
	key   string
	newID func() string

	mu     sync.Mutex
	cached string
}

var _ Source = (*Persistent)(nil)

// NewPersistent returns a Persistent source over st using StorageKey.
func NewPersistent(st store.Store) *Persistent {
	return &Persistent{store: st, key: StorageKey, newID: NewID}
}

// TraceID implements Source.
func (p *Persistent) TraceID(ctx context.Context) (string, error) {
	if id, ok := IDFromContext(ctx); ok {
		return id, nil
	}
	return p.SessionID(ctx)
}

// SessionID returns the persisted id, creating it on first use.
func (p *Persistent) SessionID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}
	id, _, err := p.store.GetOrSet(ctx, p.key, p.newID())
	if err != nil {
		return "", fmt.Errorf("trace: load session id: %w", err)
	}
	p.cached = id
	return id, nil
}

// Reset forgets the persisted id; the next call generates a new one.
func (p *Persistent) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("trace: reset session id: %w", err)
	}
	p.cached = ""
	return nil
}
