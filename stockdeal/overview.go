package stockdeal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/stockdeal/httpclient"
)

// DefaultOverviewConcurrency bounds parallel estimate requests.
const DefaultOverviewConcurrency = 4

// HoldingOverview pairs a position with its fund's realtime estimate.
// Err and EstimateError are set when the estimate could not be fetched.
type HoldingOverview struct {
	Position      FundHoldingPosition   `json:"position"`
	Estimate      *FundRealtimeEstimate `json:"estimate,omitempty"`
	EstimateError string                `json:"estimate_error,omitempty"`
	Err           error                 `json:"-"`
}

// AccountOverview is an account with a realtime estimate per holding.
type AccountOverview struct {
	Account  FundAccountDetail `json:"account"`
	Holdings []HoldingOverview `json:"holdings"`
}

// OverviewOption configures Overview.
type OverviewOption func(*overviewConfig)

type overviewConfig struct {
	concurrency int
	opts        []httpclient.Option
}

// WithConcurrency limits in-flight estimate requests (minimum 1).
func WithConcurrency(n int) OverviewOption {
	return func(c *overviewConfig) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// WithCallOptions applies opts to every request Overview issues.
func WithCallOptions(opts ...httpclient.Option) OverviewOption {
	return func(c *overviewConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// Overview fetches the account detail, then the realtime estimate of each
// holding concurrently. A failed estimate is recorded on its holding and
// does not fail the overview; failing to load the account or being
// canceled does. Estimate failures are not notified individually.
func (c *Client) Overview(ctx context.Context, accountID int64, options ...OverviewOption) (AccountOverview, error) {
	cfg := overviewConfig{concurrency: DefaultOverviewConcurrency}
	for _, o := range options {
		o(&cfg)
	}

	account, err := c.GetFundAccountDetail(ctx, accountID, cfg.opts...)
	if err != nil {
		return AccountOverview{}, err
	}

	out := AccountOverview{
		Account:  account,
		Holdings: make([]HoldingOverview, len(account.Holdings)),
	}
	estimateOpts := append(append([]httpclient.Option{}, cfg.opts...), httpclient.WithNotify(false))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, pos := range account.Holdings {
		out.Holdings[i].Position = pos
		g.Go(func() error {
			est, err := c.GetFundRealtimeEstimate(gctx, pos.FundCode, estimateOpts...)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				out.Holdings[i].Err = err
				out.Holdings[i].EstimateError = err.Error()
				return nil
			}
			out.Holdings[i].Estimate = &est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AccountOverview{}, err
	}
	return out, nil
}
