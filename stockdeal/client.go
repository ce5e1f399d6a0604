// Package stockdeal is the typed client for the StockDeal fund and stock
// holdings API. Every call goes through an httpclient.Client, so retries,
// cancellation, error normalization and notifications apply uniformly.
// Valuations and profits are reported by the server and never derived here.
package stockdeal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/validation"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Client exposes the API endpoints. It is safe for concurrent use.
type Client struct {
	http      *httpclient.Client
	validator *validation.Validator
}

// New wraps hc.
func New(hc *httpclient.Client) *Client {
	return &Client{http: hc, validator: validation.Default()}
}

// HTTP returns the underlying request client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

func get[T any](ctx context.Context, c *Client, path string, opts []httpclient.Option) (T, error) {
	return httpclient.Request[T](ctx, c.http, path, opts...)
}

// send validates payload and issues it as a JSON body. Invalid payloads
// never reach the network.
func send[T any](ctx context.Context, c *Client, method, path string, payload any, opts []httpclient.Option) (T, error) {
	var zero T
	if err := c.validator.Validate(payload); err != nil {
		return zero, err
	}
	all := make([]httpclient.Option, 0, len(opts)+2)
	all = append(all, httpclient.WithMethod(method), httpclient.WithBody(payload))
	all = append(all, opts...)
	return httpclient.Request[T](ctx, c.http, path, all...)
}

func (c *Client) checkID(field string, id int64) error {
	return c.validator.Var(field, id, "gt=0")
}

func (c *Client) checkFundCode(code string) error {
	return c.validator.Var("code", code, "required,fund_code")
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func codePath(format, code string) string {
	return fmt.Sprintf(format, url.PathEscape(code))
}
