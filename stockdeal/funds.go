package stockdeal

import (
	"context"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/validation"
)

// ParseNavPeriod maps s to a NavPeriod.
func ParseNavPeriod(s string) (NavPeriod, error) {
	for _, p := range NavPeriods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", validation.Default().Var("period", s, "oneof=one_week one_month three_months one_year since_inception")
}

// GetFundSnapshot returns profile, latest NAV and disclosed holdings.
func (c *Client) GetFundSnapshot(ctx context.Context, code string, opts ...httpclient.Option) (FundSnapshot, error) {
	if err := c.checkFundCode(code); err != nil {
		return FundSnapshot{}, err
	}
	return get[FundSnapshot](ctx, c, codePath("/funds/%s/snapshot", code), opts)
}

// GetFundNavHistory returns published NAVs for period. An empty period
// lets the server choose (since inception).
func (c *Client) GetFundNavHistory(ctx context.Context, code string, period NavPeriod, opts ...httpclient.Option) (FundNavHistory, error) {
	if err := c.checkFundCode(code); err != nil {
		return FundNavHistory{}, err
	}
	param := httpclient.P("period", nil)
	if period != "" {
		if _, err := ParseNavPeriod(string(period)); err != nil {
			return FundNavHistory{}, err
		}
		param = httpclient.P("period", string(period))
	}
	path := codePath("/funds/%s/nav-history", code) + httpclient.BuildQuery(param)
	return get[FundNavHistory](ctx, c, path, opts)
}

// GetFundRealtimeEstimate returns the server's intraday valuation.
func (c *Client) GetFundRealtimeEstimate(ctx context.Context, code string, opts ...httpclient.Option) (FundRealtimeEstimate, error) {
	if err := c.checkFundCode(code); err != nil {
		return FundRealtimeEstimate{}, err
	}
	return get[FundRealtimeEstimate](ctx, c, codePath("/funds/%s/realtime-estimate", code), opts)
}
