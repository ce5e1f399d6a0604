package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies an attempt failure that happened before or instead
// of a usable HTTP response.
type ErrorCode string

const (
	CodeTimeout     ErrorCode = "timeout"
	CodeNetwork     ErrorCode = "network"
	CodeInterceptor ErrorCode = "interceptor"
	CodeEncode      ErrorCode = "encode"
	CodeDecode      ErrorCode = "decode"
	CodeRateLimit   ErrorCode = "ratelimit"
)

// TransportError is the failure of a single attempt. Retry predicates see
// this type; callers see the normalized *APIError instead.
type TransportError struct {
	// Code is empty when the server answered with a non-2xx status.
	Code ErrorCode
	// StatusCode is 0 when no response was received.
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Code == "" && e.Err != nil:
		return fmt.Sprintf("request failed with status %d: %v", e.StatusCode, e.Err)
	case e.Code == "":
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("%s error", e.Code)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newStatusError(status int, body []byte) *TransportError {
	return &TransportError{StatusCode: status, Body: body}
}

// APIError is the uniform error returned for every terminal, non-cancelled
// failure. It is built once by Normalize and never modified afterwards.
type APIError struct {
	Message string
	// Status is 0 if no response reached the client.
	Status int
	// Payload holds the raw response body, if any.
	Payload []byte
	// Code is the transport code, empty for HTTP status failures.
	Code ErrorCode

	cause error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// PayloadJSON decodes the payload into v.
func (e *APIError) PayloadJSON(v any) error {
	if len(e.Payload) == 0 {
		return errors.New("httpclient: empty error payload")
	}
	return json.Unmarshal(e.Payload, v)
}

// Normalize converts an attempt failure into an *APIError. Cancellation
// errors and existing *APIError values are returned unchanged.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return err
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var te *TransportError
	if errors.As(err, &te) {
		msg := messageFromBody(te.Body)
		if msg == "" {
			msg = te.Error()
		}
		return &APIError{
			Message: msg,
			Status:  te.StatusCode,
			Payload: te.Body,
			Code:    te.Code,
			cause:   te,
		}
	}

	return &APIError{Message: err.Error(), cause: err}
}

// messageFromBody extracts "detail", then "message", then a bare JSON
// string. detail may be a FastAPI validation list, in which case the first
// item's msg is used.
func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
		if msg := detailMessage(doc["detail"]); msg != "" {
			return msg
		}
		var message string
		if err := json.Unmarshal(doc["message"], &message); err == nil && message != "" {
			return message
		}
		return ""
	}

	var plain string
	if err := json.Unmarshal([]byte(trimmed), &plain); err == nil {
		return plain
	}
	return ""
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsCanceled reports whether err is a caller cancellation rather than a
// request failure. Normalized and transport errors are never cancellations.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
