package stockdeal

import (
	"context"
	"net/http"

	"github.com/gaborage/stockdeal/httpclient"
)

// fundCodeParam drops an empty fund code from the query.
func fundCodeParam(code string) httpclient.Param {
	if code == "" {
		return httpclient.P("fund_code", nil)
	}
	return httpclient.P("fund_code", code)
}

// ListFundHoldings returns the positions of an account, optionally
// narrowed to one fund.
func (c *Client) ListFundHoldings(ctx context.Context, accountID int64, fundCode string, opts ...httpclient.Option) ([]FundHoldingPosition, error) {
	if err := c.checkID("account_id", accountID); err != nil {
		return nil, err
	}
	query := httpclient.BuildQuery(httpclient.P("account_id", accountID), fundCodeParam(fundCode))
	return get[[]FundHoldingPosition](ctx, c, "/fund-holdings"+query, opts)
}

// CreateFundHolding opens a position. The server answers with the
// synthetic buy transaction it records for it.
func (c *Client) CreateFundHolding(ctx context.Context, req FundHoldingCreateRequest, opts ...httpclient.Option) (FundTransaction, error) {
	return send[FundTransaction](ctx, c, http.MethodPost, "/fund-holdings", req, opts)
}

func (c *Client) GetFundHolding(ctx context.Context, id int64, opts ...httpclient.Option) (FundHoldingPosition, error) {
	if err := c.checkID("holding_id", id); err != nil {
		return FundHoldingPosition{}, err
	}
	return get[FundHoldingPosition](ctx, c, idPath("/fund-holdings/%d", id), opts)
}

// UpdateFundHolding overwrites the amount and shares of a position.
func (c *Client) UpdateFundHolding(ctx context.Context, id int64, req FundHoldingUpdateRequest, opts ...httpclient.Option) (FundHoldingPosition, error) {
	if err := c.checkID("holding_id", id); err != nil {
		return FundHoldingPosition{}, err
	}
	return send[FundHoldingPosition](ctx, c, http.MethodPut, idPath("/fund-holdings/%d", id), req, opts)
}

func (c *Client) DeleteFundHolding(ctx context.Context, id int64, opts ...httpclient.Option) (DeleteResult, error) {
	if err := c.checkID("holding_id", id); err != nil {
		return DeleteResult{}, err
	}
	all := append([]httpclient.Option{httpclient.WithMethod(http.MethodDelete)}, opts...)
	return get[DeleteResult](ctx, c, idPath("/fund-holdings/%d", id), all)
}

// CreateFundTransaction records a buy or sell.
func (c *Client) CreateFundTransaction(ctx context.Context, req FundTransactionCreateRequest, opts ...httpclient.Option) (FundTransaction, error) {
	return send[FundTransaction](ctx, c, http.MethodPost, "/fund-holdings/transactions", req, opts)
}

func (c *Client) ListFundTransactions(ctx context.Context, filter TransactionFilter, opts ...httpclient.Option) ([]FundTransaction, error) {
	if err := c.checkID("account_id", filter.AccountID); err != nil {
		return nil, err
	}
	query := httpclient.BuildQuery(httpclient.P("account_id", filter.AccountID), fundCodeParam(filter.FundCode))
	return get[[]FundTransaction](ctx, c, "/fund-holdings/transactions"+query, opts)
}

// CreateFundConversion switches an amount from one fund to another.
func (c *Client) CreateFundConversion(ctx context.Context, req FundConversionCreateRequest, opts ...httpclient.Option) (FundConversion, error) {
	return send[FundConversion](ctx, c, http.MethodPost, "/fund-holdings/conversions", req, opts)
}

func (c *Client) ListFundConversions(ctx context.Context, accountID int64, opts ...httpclient.Option) ([]FundConversion, error) {
	if err := c.checkID("account_id", accountID); err != nil {
		return nil, err
	}
	query := httpclient.BuildQuery(httpclient.P("account_id", accountID))
	return get[[]FundConversion](ctx, c, "/fund-holdings/conversions"+query, opts)
}
