package httpclient

import "net/http"

const (
	// DefaultSuccessMessage is shown when a write call succeeds without a custom message.
	DefaultSuccessMessage = "Operation succeeded"
	// DefaultFailureMessage is shown when no message could be extracted from a failure.
	DefaultFailureMessage = "Request failed, please try again later"
)

// Notifier observes the outcome of calls, typically to surface it to the user.
type Notifier interface {
	OnOutcome(success bool, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(success bool, message string)

// OnOutcome implements Notifier.
func (f NotifierFunc) OnOutcome(success bool, message string) {
	f(success, message)
}

type nopNotifier struct{}

func (nopNotifier) OnOutcome(bool, string) {}

// isReadMethod reports methods that never trigger a success notification.
func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func (c *Client) notifySuccess(d *Descriptor) {
	if !d.Notify || isReadMethod(d.Method) {
		return
	}
	msg := d.SuccessMessage
	if msg == "" {
		msg = DefaultSuccessMessage
	}
	c.config.Notifier.OnOutcome(true, msg)
}

func (c *Client) notifyFailure(d *Descriptor, err *APIError) {
	if !d.Notify {
		return
	}
	msg := err.Message
	if msg == "" {
		msg = DefaultFailureMessage
	}
	c.config.Notifier.OnOutcome(false, msg)
}
