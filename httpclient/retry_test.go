package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"timeout", &TransportError{Code: CodeTimeout, Err: errors.New("i/o timeout")}, true},
		{"network", &TransportError{Code: CodeNetwork, Err: errors.New("reset")}, true},
		{"network canceled", &TransportError{Code: CodeNetwork, Err: context.Canceled}, false},
		{"408", newStatusError(http.StatusRequestTimeout, nil), true},
		{"429", newStatusError(http.StatusTooManyRequests, nil), true},
		{"500", newStatusError(http.StatusInternalServerError, nil), true},
		{"503", newStatusError(http.StatusServiceUnavailable, nil), true},
		{"400", newStatusError(http.StatusBadRequest, nil), false},
		{"404", newStatusError(http.StatusNotFound, nil), false},
		{"422", newStatusError(http.StatusUnprocessableEntity, nil), false},
		{"decode", &TransportError{Code: CodeDecode, StatusCode: 200}, false},
		{"interceptor", &TransportError{Code: CodeInterceptor}, false},
		{"rate limit", &TransportError{Code: CodeRateLimit}, false},
		{"cancellation", ErrCanceled, false},
		{"plain error", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	base := 300 * time.Millisecond
	assert.Equal(t, 300*time.Millisecond, backoffDelay(base, 0))
	assert.Equal(t, 600*time.Millisecond, backoffDelay(base, 1))
	assert.Equal(t, 900*time.Millisecond, backoffDelay(base, 2))
	assert.Equal(t, time.Duration(0), backoffDelay(0, 5))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	tok := NewToken(context.Background())
	tok.Cancel()
	assert.ErrorIs(t, sleepContext(tok.Context(), time.Hour), ErrCanceled)
	assert.ErrorIs(t, sleepContext(tok.Context(), 0), ErrCanceled)
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(204))
	assert.False(t, IsSuccessStatus(301))
	assert.False(t, IsSuccessStatus(404))
}
