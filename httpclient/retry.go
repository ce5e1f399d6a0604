package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryPredicate decides whether a failed attempt should be retried. It
// receives a *TransportError and is never called for cancellations.
type RetryPredicate func(err error) bool

// IsRetryable is the default predicate: timeouts, network failures and
// responses with status 408, 429 or 5xx are retried.
func IsRetryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}

	switch te.Code {
	case CodeTimeout:
		return true
	case CodeNetwork:
		return !errors.Is(te.Err, context.Canceled)
	case "":
		return IsRetryableStatus(te.StatusCode)
	default:
		return false
	}
}

// IsRetryableStatus reports whether a response status is worth retrying.
func IsRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// IsSuccessStatus checks if the HTTP status code indicates success
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// backoffDelay is linear: the wait before retry n (1-based) is base*n.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt+1)
}

// sleepContext waits for d or until ctx is done, returning the
// cancellation cause in the latter case.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}
