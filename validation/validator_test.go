package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tradeRequest struct {
	AccountID  int64            `json:"account_id" validate:"required,gt=0"`
	FundCode   string           `json:"fund_code" validate:"required,fund_code"`
	TradeType  string           `json:"trade_type" validate:"required,oneof=buy sell"`
	Amount     decimal.Decimal  `json:"amount" validate:"dpos"`
	FeePercent *decimal.Decimal `json:"fee_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TradeDate  string           `json:"trade_date" validate:"required,trade_date"`
}

func validTrade() tradeRequest {
	fee := decimal.RequireFromString("0.15")
	return tradeRequest{
		AccountID:  1,
		FundCode:   "000001",
		TradeType:  "buy",
		Amount:     decimal.RequireFromString("1000.50"),
		FeePercent: &fee,
		TradeDate:  "2024-03-15",
	}
}

func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v)
	require.NotNil(t, v.GetValidator())
	assert.Same(t, Default(), Default())
}

func TestValidateSuccess(t *testing.T) {
	v := New()

	t.Run("full_payload", func(t *testing.T) {
		assert.NoError(t, v.Validate(validTrade()))
	})

	t.Run("nil_optional_decimal", func(t *testing.T) {
		req := validTrade()
		req.FeePercent = nil
		assert.NoError(t, v.Validate(&req))
	})
}

func TestValidateFailures(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(*tradeRequest)
		field   string
		tag     string
		message string
	}{
		{
			name:    "short_fund_code",
			mutate:  func(r *tradeRequest) { r.FundCode = "12345" },
			field:   "fund_code",
			tag:     "fund_code",
			message: "fund_code must be a 6-digit fund code",
		},
		{
			name:    "alpha_fund_code",
			mutate:  func(r *tradeRequest) { r.FundCode = "00000A" },
			field:   "fund_code",
			tag:     "fund_code",
			message: "fund_code must be a 6-digit fund code",
		},
		{
			name:    "zero_amount",
			mutate:  func(r *tradeRequest) { r.Amount = decimal.Zero },
			field:   "amount",
			tag:     "dpos",
			message: "amount must be greater than 0",
		},
		{
			name: "fee_above_hundred",
			mutate: func(r *tradeRequest) {
				fee := decimal.NewFromInt(101)
				r.FeePercent = &fee
			},
			field:   "fee_percent",
			tag:     "lte",
			message: "fee_percent must be at most 100",
		},
		{
			name:    "bad_trade_date",
			mutate:  func(r *tradeRequest) { r.TradeDate = "2024/03/15" },
			field:   "trade_date",
			tag:     "trade_date",
			message: "trade_date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "unknown_trade_type",
			mutate:  func(r *tradeRequest) { r.TradeType = "hold" },
			field:   "trade_type",
			tag:     "oneof",
			message: "trade_type must be one of [buy sell]",
		},
		{
			name:    "missing_account",
			mutate:  func(r *tradeRequest) { r.AccountID = 0 },
			field:   "account_id",
			tag:     "required",
			message: "account_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTrade()
			tt.mutate(&req)

			err := v.Validate(req)
			require.Error(t, err)

			var verr *Error
			require.True(t, errors.As(err, &verr))
			fe, ok := verr.Field(tt.field)
			require.True(t, ok, "expected error for %s, got %+v", tt.field, verr.Errors)
			assert.Equal(t, tt.tag, fe.Tag)
			assert.Equal(t, tt.message, fe.Message)
			assert.Equal(t, "validation failed: "+tt.message, err.Error())
		})
	}
}

func TestValidateMultipleErrors(t *testing.T) {
	v := New()

	err := v.Validate(tradeRequest{})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Greater(t, len(verr.Errors), 1)
	assert.Contains(t, err.Error(), "errors (first:")
}

func TestValidateNonStruct(t *testing.T) {
	v := New()

	err := v.Validate("not a struct")
	require.Error(t, err)
	var verr *Error
	assert.False(t, errors.As(err, &verr))
}

func TestVar(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("code", "110011", "fund_code"))

	err := v.Var("code", "11", "fund_code")
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "code", verr.Errors[0].Field)
	assert.Equal(t, "code must be a 6-digit fund code", verr.Errors[0].Message)
}

func TestErrorEmpty(t *testing.T) {
	assert.Equal(t, "validation failed", (&Error{}).Error())
	_, ok := (&Error{}).Field("x")
	assert.False(t, ok)
}
