package stockdeal_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/internal/apitest"
	"github.com/gaborage/stockdeal/stockdeal"
)

func TestEstimateLookupLatestWins(t *testing.T) {
	h := newHarness(t)
	seedFund(h.srv, testFundCode)
	path := "/funds/" + testFundCode + "/realtime-estimate"
	h.srv.Inject(http.MethodGet, path, apitest.Fault{Delay: 5 * time.Second, Times: 1})

	lookup := stockdeal.NewEstimateLookup(h.client)
	errc := make(chan error, 1)
	go func() {
		_, err := lookup.Lookup(context.Background(), testFundCode)
		errc <- err
	}()
	require.Eventually(t, func() bool {
		return len(h.srv.RequestsTo(http.MethodGet, path)) == 1
	}, 2*time.Second, 5*time.Millisecond)

	est, err := lookup.Lookup(context.Background(), testFundCode)
	require.NoError(t, err)
	assert.Equal(t, testFundCode, est.Code)

	select {
	case err := <-errc:
		assert.True(t, stockdeal.IsSuperseded(err))
		assert.ErrorIs(t, err, context.Canceled)
		_, isAPI := httpclient.AsAPIError(err)
		assert.False(t, isAPI)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded lookup did not return")
	}

	// the superseded call was neither retried nor notified
	assert.Len(t, h.srv.RequestsTo(http.MethodGet, path), 2)
	assert.Empty(t, h.notified.Outcomes())
}

func TestEstimateLookupCancel(t *testing.T) {
	h := newHarness(t)
	seedFund(h.srv, testFundCode)
	path := "/funds/" + testFundCode + "/realtime-estimate"
	h.srv.Inject(http.MethodGet, path, apitest.Fault{Delay: 5 * time.Second})

	lookup := stockdeal.NewEstimateLookup(h.client)
	errc := make(chan error, 1)
	go func() {
		_, err := lookup.Lookup(context.Background(), testFundCode)
		errc <- err
	}()
	require.Eventually(t, func() bool {
		return len(h.srv.RequestsTo(http.MethodGet, path)) == 1
	}, 2*time.Second, 5*time.Millisecond)

	lookup.Cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, httpclient.ErrCanceled)
	case <-time.After(2 * time.Second):
		t.Fatal("canceled lookup did not return")
	}
}

func TestEstimateLookupCallerCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stockdeal.NewEstimateLookup(h.client).Lookup(ctx, testFundCode)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, stockdeal.IsSuperseded(err))
}
