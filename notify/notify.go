// Package notify provides Notifier implementations that surface call
// outcomes to the user: styled console lines, log entries, fan-out and an
// in-memory recorder.
package notify

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/gaborage/stockdeal/logger"
)

// Symbols for outcome indicators
const (
	SymbolOK    = "✓"
	SymbolError = "✗"
)

// Notifier mirrors httpclient.Notifier so this package stays independent
// of the request layer.
type Notifier interface {
	OnOutcome(success bool, message string)
}

// Console writes one styled line per outcome, like a toast.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	ok  lipgloss.Style
	err lipgloss.Style
}

// NewConsole returns a Console writing to w, or stderr if w is nil. Colors
// are only emitted when w is a terminal.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	r := lipgloss.NewRenderer(w)
	return &Console{
		out: w,
		ok:  r.NewStyle().Foreground(lipgloss.Color("42")),  // green
		err: r.NewStyle().Foreground(lipgloss.Color("196")), // red
	}
}

// OnOutcome implements Notifier.
func (c *Console) OnOutcome(success bool, message string) {
	line := c.err.Render(SymbolError) + " " + message
	if success {
		line = c.ok.Render(SymbolOK) + " " + message
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, line+"\n")
}

// Log records outcomes as log entries.
type Log struct {
	log logger.Logger
}

// NewLog returns a Log notifier.
func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

// OnOutcome implements Notifier.
func (l *Log) OnOutcome(success bool, message string) {
	if success {
		l.log.Info().Bool("success", true).Msg(message)
		return
	}
	l.log.Warn().Bool("success", false).Msg(message)
}

// Multi fans an outcome out to several notifiers in order.
type Multi []Notifier

// OnOutcome implements Notifier.
func (m Multi) OnOutcome(success bool, message string) {
	for _, n := range m {
		if n != nil {
			n.OnOutcome(success, message)
		}
	}
}

// Discard ignores all outcomes.
type Discard struct{}

// OnOutcome implements Notifier.
func (Discard) OnOutcome(bool, string) {}

// Outcome is one recorded notification.
type Outcome struct {
	Success bool
	Message string
}

// Recorder keeps every outcome in memory. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// OnOutcome implements Notifier.
func (r *Recorder) OnOutcome(success bool, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, Outcome{Success: success, Message: message})
}

// Outcomes returns a copy of the recorded outcomes.
func (r *Recorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

// Reset forgets recorded outcomes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = nil
}
