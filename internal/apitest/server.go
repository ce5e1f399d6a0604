// Package apitest runs an in-process fake of the StockDeal API for tests.
// It keeps accounts, holdings and transactions in memory, serves seeded
// fund and stock data, records every request and can inject faults.
package apitest

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/trace"
	"github.com/gaborage/stockdeal/validation"
)

// Request is one recorded inbound call.
type Request struct {
	Method      string
	Path        string
	Query       string
	TraceID     string
	TraceParent string
	Body        []byte
}

// Fault overrides the response of matching requests.
type Fault struct {
	// Status and Body are written instead of calling the handler. A zero
	// Status with a Delay only slows the request down.
	Status int
	Body   string
	// Delay is waited before responding; a canceled request stops waiting.
	Delay time.Duration
	// Times limits how many requests the fault applies to; 0 means always.
	Times int
}

type faultRule struct {
	method string
	path   string
	fault  Fault
	hits   int
}

// FundFixture seeds the read-only fund endpoints.
type FundFixture struct {
	Snapshot stockdeal.FundSnapshot
	History  []stockdeal.FundNavHistoryItem
	Estimate stockdeal.FundRealtimeEstimate
}

// Server is the fake API. Its methods are safe for concurrent use.
type Server struct {
	Echo *echo.Echo
	URL  string

	mu           sync.Mutex
	nextID       int64
	accounts     map[int64]*stockdeal.FundAccount
	holdings     map[int64]*stockdeal.FundHoldingPosition
	transactions []stockdeal.FundTransaction
	conversions  []stockdeal.FundConversion
	funds        map[string]FundFixture
	stocks       map[string]stockdeal.StockRealtimeQuote
	faults       []*faultRule
	requests     []Request
}

// New starts a fake API bound to 127.0.0.1 and stops it on test cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[int64]*stockdeal.FundAccount),
		holdings: make(map[int64]*stockdeal.FundHoldingPosition),
		funds:    make(map[string]FundFixture),
		stocks:   make(map[string]stockdeal.StockRealtimeQuote),
	}
	s.Echo = s.newEcho()

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return s
	}
	srv := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: s.Echo},
	}
	srv.Start()
	t.Cleanup(srv.Close)

	s.URL = srv.URL
	return s
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.Default()
	e.HTTPErrorHandler = errorHandler

	e.Use(s.record, s.inject)
	s.routes(e)
	return e
}

// record stores the request before any fault or handler runs.
func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      req.Method,
			Path:        req.URL.Path,
			Query:       req.URL.RawQuery,
			TraceID:     req.Header.Get(trace.HeaderTraceID),
			TraceParent: req.Header.Get(trace.HeaderTraceParent),
			Body:        body,
		})
		s.mu.Unlock()

		if id := req.Header.Get(trace.HeaderTraceID); id != "" {
			c.Response().Header().Set(trace.HeaderTraceID, id)
		}
		return next(c)
	}
}

func (s *Server) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, ok := s.matchFault(c.Request().Method, c.Request().URL.Path)
		if !ok {
			return next(c)
		}

		if f.Delay > 0 {
			timer := time.NewTimer(f.Delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-c.Request().Context().Done():
				return nil
			}
		}
		if f.Status == 0 {
			return next(c)
		}
		return c.Blob(f.Status, echo.MIMEApplicationJSON, []byte(f.Body))
	}
}

func (s *Server) matchFault(method, path string) (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.faults {
		if r.method != "" && r.method != method {
			continue
		}
		if r.path != path && !(strings.HasSuffix(r.path, "*") && strings.HasPrefix(path, strings.TrimSuffix(r.path, "*"))) {
			continue
		}
		if r.fault.Times > 0 && r.hits >= r.fault.Times {
			continue
		}
		r.hits++
		return r.fault, true
	}
	return Fault{}, false
}

// Inject registers f for requests with method (empty matches any) on path.
// A trailing "*" in path matches by prefix.
func (s *Server) Inject(method, path string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &faultRule{method: method, path: path, fault: f})
}

// ClearFaults removes every injected fault.
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the recorded requests for path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// AddAccount seeds an account.
func (s *Server) AddAccount(name string, defaultFee decimal.Decimal) stockdeal.FundAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.createAccount(name, nil, defaultFee)
}

// AddHolding seeds a position.
func (s *Server) AddHolding(accountID int64, fundCode string, amount, shares decimal.Decimal) stockdeal.FundHoldingPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.createHolding(accountID, fundCode, amount, shares)
}

// AddFund seeds the fund endpoints for f.Snapshot.Code.
func (s *Server) AddFund(f FundFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[f.Snapshot.Code] = f
}

// AddStock seeds a realtime quote.
func (s *Server) AddStock(q stockdeal.StockRealtimeQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[q.Code] = q
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}
