package stockdeal

import (
	"context"
	"errors"

	"github.com/gaborage/stockdeal/httpclient"
)

// EstimateLookup fetches realtime estimates where each lookup supersedes
// the previous one. A superseded call returns an error matching
// httpclient.ErrCanceled and produces no notification.
type EstimateLookup struct {
	client *Client
	latest httpclient.Latest
}

// NewEstimateLookup returns a lookup bound to c.
func NewEstimateLookup(c *Client) *EstimateLookup {
	return &EstimateLookup{client: c}
}

// Lookup cancels any lookup still in flight and fetches code.
func (l *EstimateLookup) Lookup(ctx context.Context, code string, opts ...httpclient.Option) (FundRealtimeEstimate, error) {
	tok := l.latest.Issue(ctx)
	defer l.latest.Release(tok)
	return l.client.GetFundRealtimeEstimate(tok.Context(), code, opts...)
}

// Cancel aborts the lookup in flight, if any.
func (l *EstimateLookup) Cancel() {
	l.latest.Cancel()
}

// IsSuperseded reports whether err came from a lookup replaced by a newer one.
func IsSuperseded(err error) bool {
	return errors.Is(err, httpclient.ErrCanceled)
}
