package stockdeal

import (
	"context"
	"errors"

	"github.com/gaborage/stockdeal/httpclient"
)

// ErrEmptyStockCode is returned for a blank stock code.
var ErrEmptyStockCode = errors.New("stockdeal: stock code is required")

// GetStockRealtimeQuote returns the latest price of an A or H share.
func (c *Client) GetStockRealtimeQuote(ctx context.Context, code string, opts ...httpclient.Option) (StockRealtimeQuote, error) {
	if code == "" {
		return StockRealtimeQuote{}, ErrEmptyStockCode
	}
	return get[StockRealtimeQuote](ctx, c, codePath("/stocks/%s/realtime", code), opts)
}
