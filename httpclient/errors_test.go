package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessageExtraction(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"detail string", `{"detail":"X"}`, "X"},
		{"message field", `{"message":"Y"}`, "Y"},
		{"detail wins over message", `{"detail":"X","message":"Y"}`, "X"},
		{"validation list", `{"detail":[{"loc":["body","amount"],"msg":"amount must be positive","type":"value_error"}]}`, "amount must be positive"},
		{"empty validation list falls back to message", `{"detail":[],"message":"Y"}`, "Y"},
		{"json string body", `"plain failure"`, "plain failure"},
		{"html body", `<html>Bad Gateway</html>`, "request failed with status code 502"},
		{"empty body", ``, "request failed with status code 502"},
		{"object without message", `{"error":"x"}`, "request failed with status code 502"},
		{"non-string detail", `{"detail":{"code":1}}`, "request failed with status code 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalize(newStatusError(http.StatusBadGateway, []byte(tt.body)))

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, apiErr.Message)
			assert.Equal(t, http.StatusBadGateway, apiErr.Status)
			assert.Equal(t, tt.body, string(apiErr.Payload))
			assert.Empty(t, apiErr.Code)
		})
	}
}

func TestNormalizeTransportError(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	err := Normalize(&TransportError{Code: CodeNetwork, Err: cause})

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, CodeNetwork, apiErr.Code)
	assert.Equal(t, "network error: "+cause.Error(), apiErr.Message)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, apiErr.Payload)
}

func TestNormalizePassThrough(t *testing.T) {
	t.Run("existing APIError is not wrapped again", func(t *testing.T) {
		original := &APIError{Message: "already", Status: 409}
		assert.Same(t, original, Normalize(original))
		assert.Same(t, original, Normalize(fmt.Errorf("context: %w", original)))
	})

	t.Run("cancellation is returned unchanged", func(t *testing.T) {
		assert.Same(t, ErrCanceled, Normalize(ErrCanceled))
		assert.Equal(t, context.Canceled, Normalize(context.Canceled))
		assert.Equal(t, context.DeadlineExceeded, Normalize(context.DeadlineExceeded))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Normalize(nil))
	})

	t.Run("arbitrary error", func(t *testing.T) {
		err := Normalize(errors.New("boom"))
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "boom", apiErr.Message)
		assert.Equal(t, 0, apiErr.Status)
	})
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, IsCanceled(ErrCanceled))
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsCanceled(nil))
	assert.False(t, IsCanceled(errors.New("x")))
	assert.False(t, IsCanceled(&TransportError{Code: CodeTimeout, Err: context.DeadlineExceeded}))
	assert.False(t, IsCanceled(&APIError{Message: "x", cause: context.Canceled}))
}

func TestStatusHelpers(t *testing.T) {
	err := Normalize(newStatusError(http.StatusNotFound, []byte(`{"detail":"Fund account not found"}`)))

	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsStatus(err, http.StatusBadRequest))
	assert.False(t, IsNotFound(errors.New("x")))
}

func TestPayloadJSON(t *testing.T) {
	err := Normalize(newStatusError(http.StatusUnprocessableEntity, []byte(`{"detail":[{"msg":"bad"}]}`)))
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)

	var payload struct {
		Detail []map[string]any `json:"detail"`
	}
	require.NoError(t, apiErr.PayloadJSON(&payload))
	assert.Equal(t, "bad", payload.Detail[0]["msg"])

	assert.Error(t, (&APIError{}).PayloadJSON(&payload))
}

func TestTransportErrorMessages(t *testing.T) {
	assert.Equal(t, "request failed with status code 500", newStatusError(500, nil).Error())
	assert.Equal(t, "timeout error", (&TransportError{Code: CodeTimeout}).Error())
	assert.Equal(t, "decode error: bad", (&TransportError{Code: CodeDecode, Err: errors.New("bad")}).Error())
	assert.Equal(t, "request failed with status 500: x", (&TransportError{StatusCode: 500, Err: errors.New("x")}).Error())
}
