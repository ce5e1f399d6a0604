package stockdeal

import (
	"context"
	"net/http"

	"github.com/gaborage/stockdeal/httpclient"
)

// ListFundAccounts returns every fund account.
func (c *Client) ListFundAccounts(ctx context.Context, opts ...httpclient.Option) ([]FundAccount, error) {
	return get[[]FundAccount](ctx, c, "/fund-accounts", opts)
}

// CreateFundAccount creates an account.
func (c *Client) CreateFundAccount(ctx context.Context, req FundAccountCreateRequest, opts ...httpclient.Option) (FundAccount, error) {
	return send[FundAccount](ctx, c, http.MethodPost, "/fund-accounts", req, opts)
}

// UpdateFundAccount changes the set fields of an account.
func (c *Client) UpdateFundAccount(ctx context.Context, id int64, req FundAccountUpdateRequest, opts ...httpclient.Option) (FundAccount, error) {
	if err := c.checkID("account_id", id); err != nil {
		return FundAccount{}, err
	}
	return send[FundAccount](ctx, c, http.MethodPut, idPath("/fund-accounts/%d", id), req, opts)
}

// GetFundAccountDetail returns an account with its holdings and totals.
func (c *Client) GetFundAccountDetail(ctx context.Context, id int64, opts ...httpclient.Option) (FundAccountDetail, error) {
	if err := c.checkID("account_id", id); err != nil {
		return FundAccountDetail{}, err
	}
	return get[FundAccountDetail](ctx, c, idPath("/fund-accounts/%d", id), opts)
}

// GetFundAccountSummary returns the account totals only.
func (c *Client) GetFundAccountSummary(ctx context.Context, id int64, opts ...httpclient.Option) (FundAccountSummary, error) {
	if err := c.checkID("account_id", id); err != nil {
		return FundAccountSummary{}, err
	}
	return get[FundAccountSummary](ctx, c, idPath("/fund-accounts/%d/summary", id), opts)
}
