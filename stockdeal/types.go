package stockdeal

import "github.com/shopspring/decimal"

// NavPeriod selects the window of a NAV history query.
type NavPeriod string

const (
	PeriodOneWeek        NavPeriod = "one_week"
	PeriodOneMonth       NavPeriod = "one_month"
	PeriodThreeMonths    NavPeriod = "three_months"
	PeriodOneYear        NavPeriod = "one_year"
	PeriodSinceInception NavPeriod = "since_inception"
)

// NavPeriods lists every accepted period in display order.
var NavPeriods = []NavPeriod{PeriodOneWeek, PeriodOneMonth, PeriodThreeMonths, PeriodOneYear, PeriodSinceInception}

// TradeType is the direction of a fund transaction.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// TradeStatus is the settlement state of a fund transaction.
type TradeStatus string

const (
	StatusPending   TradeStatus = "pending"
	StatusConfirmed TradeStatus = "confirmed"
	StatusCancelled TradeStatus = "cancelled"
)

// Market identifies the exchange of a stock quote.
type Market string

const (
	MarketA Market = "A"
	MarketH Market = "H"
)

// Fund accounts

type FundAccountCreateRequest struct {
	Name                 string           `json:"name" validate:"required,max=64"`
	Remark               *string          `json:"remark,omitempty" validate:"omitempty,max=255"`
	DefaultBuyFeePercent *decimal.Decimal `json:"default_buy_fee_percent,omitempty" validate:"omitempty,dnonneg,lte=100"`
}

// FundAccountUpdateRequest updates only the fields that are set.
type FundAccountUpdateRequest struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Remark               *string          `json:"remark,omitempty" validate:"omitempty,max=255"`
	DefaultBuyFeePercent *decimal.Decimal `json:"default_buy_fee_percent,omitempty" validate:"omitempty,dnonneg,lte=100"`
}

type FundAccount struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Remark               *string         `json:"remark,omitempty"`
	DefaultBuyFeePercent decimal.Decimal `json:"default_buy_fee_percent"`
	CreatedAt            string          `json:"created_at"`
}

// FundAccountDetail is an account with its holdings and server-side totals.
type FundAccountDetail struct {
	FundAccount
	Holdings           []FundHoldingPosition `json:"holdings"`
	TotalCost          decimal.Decimal       `json:"total_cost"`
	TotalValue         decimal.NullDecimal   `json:"total_value"`
	TotalProfit        decimal.NullDecimal   `json:"total_profit"`
	TotalProfitPercent decimal.NullDecimal   `json:"total_profit_percent"`
}

type FundAccountSummary struct {
	AccountID          int64               `json:"account_id"`
	TotalCost          decimal.Decimal     `json:"total_cost"`
	TotalValue         decimal.NullDecimal `json:"total_value"`
	TotalProfit        decimal.NullDecimal `json:"total_profit"`
	TotalProfitPercent decimal.NullDecimal `json:"total_profit_percent"`
}

// Holdings

type FundHoldingPosition struct {
	HoldingID              int64               `json:"holding_id"`
	AccountID              int64               `json:"account_id"`
	FundCode               string              `json:"fund_code"`
	TotalAmount            decimal.Decimal     `json:"total_amount"`
	TotalShares            decimal.Decimal     `json:"total_shares"`
	EstimatedNav           decimal.NullDecimal `json:"estimated_nav"`
	EstimatedValue         decimal.NullDecimal `json:"estimated_value"`
	EstimatedProfit        decimal.NullDecimal `json:"estimated_profit"`
	EstimatedProfitPercent decimal.NullDecimal `json:"estimated_profit_percent"`
	UpdatedAt              string              `json:"updated_at"`
}

// FundHoldingCreateRequest opens a position from its current amount and
// accumulated profit.
type FundHoldingCreateRequest struct {
	AccountID    int64           `json:"account_id" validate:"required,gt=0"`
	FundCode     string          `json:"fund_code" validate:"required,fund_code"`
	TotalAmount  decimal.Decimal `json:"total_amount" validate:"dpos"`
	ProfitAmount decimal.Decimal `json:"profit_amount"`
	Remark       *string         `json:"remark,omitempty" validate:"omitempty,max=255"`
}

type FundHoldingUpdateRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount" validate:"dnonneg"`
	TotalShares decimal.Decimal `json:"total_shares" validate:"dnonneg"`
}

// DeleteResult is returned by DeleteFundHolding.
type DeleteResult struct {
	Success bool `json:"success"`
}

// Transactions

type FundTransactionCreateRequest struct {
	AccountID     int64            `json:"account_id" validate:"required,gt=0"`
	FundCode      string           `json:"fund_code" validate:"required,fund_code"`
	TradeType     TradeType        `json:"trade_type" validate:"required,oneof=buy sell"`
	Amount        decimal.Decimal  `json:"amount" validate:"dpos"`
	FeePercent    *decimal.Decimal `json:"fee_percent,omitempty" validate:"omitempty,dnonneg,lte=100"`
	TradeDate     string           `json:"trade_date" validate:"required,trade_date"`
	IsAfterCutoff bool             `json:"is_after_cutoff"`
	Remark        *string          `json:"remark,omitempty" validate:"omitempty,max=255"`
}

type FundTransaction struct {
	ID               int64               `json:"id"`
	AccountID        int64               `json:"account_id"`
	HoldingID        *int64              `json:"holding_id,omitempty"`
	ConversionID     *int64              `json:"conversion_id,omitempty"`
	FundCode         string              `json:"fund_code"`
	TradeType        TradeType           `json:"trade_type"`
	Status           TradeStatus         `json:"status"`
	Amount           decimal.Decimal     `json:"amount"`
	FeePercent       decimal.Decimal     `json:"fee_percent"`
	FeeAmount        decimal.Decimal     `json:"fee_amount"`
	ConfirmedNav     decimal.Decimal     `json:"confirmed_nav"`
	ConfirmedNavDate string              `json:"confirmed_nav_date"`
	Shares           decimal.Decimal     `json:"shares"`
	HoldingAmount    decimal.NullDecimal `json:"holding_amount"`
	ProfitAmount     decimal.NullDecimal `json:"profit_amount"`
	TradeTime        string              `json:"trade_time"`
	Remark           *string             `json:"remark,omitempty"`
}

// TransactionFilter narrows ListFundTransactions. FundCode is optional.
type TransactionFilter struct {
	AccountID int64
	FundCode  string
}

// Conversions

type FundConversionCreateRequest struct {
	AccountID      int64            `json:"account_id" validate:"required,gt=0"`
	FromFundCode   string           `json:"from_fund_code" validate:"required,fund_code"`
	ToFundCode     string           `json:"to_fund_code" validate:"required,fund_code,nefield=FromFundCode"`
	FromAmount     decimal.Decimal  `json:"from_amount" validate:"dpos"`
	FromFeePercent *decimal.Decimal `json:"from_fee_percent,omitempty" validate:"omitempty,dnonneg,lte=100"`
	ToAmount       decimal.Decimal  `json:"to_amount" validate:"dpos"`
	ToFeePercent   *decimal.Decimal `json:"to_fee_percent,omitempty" validate:"omitempty,dnonneg,lte=100"`
	TradeDate      string           `json:"trade_date" validate:"required,trade_date"`
	IsAfterCutoff  bool             `json:"is_after_cutoff"`
	Remark         *string          `json:"remark,omitempty" validate:"omitempty,max=255"`
}

type FundConversion struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"account_id"`
	FromFundCode    string          `json:"from_fund_code"`
	ToFundCode      string          `json:"to_fund_code"`
	TradeTime       string          `json:"trade_time"`
	Remark          *string         `json:"remark,omitempty"`
	CreatedAt       string          `json:"created_at"`
	FromTransaction FundTransaction `json:"from_transaction"`
	ToTransaction   FundTransaction `json:"to_transaction"`
}

// Funds

type BasicInfoItem struct {
	Item  string  `json:"item"`
	Value *string `json:"value"`
}

// FundNav is a published net asset value. Money market funds report the
// per-10k income in Nav and the 7-day annualized yield in Nav7d.
type FundNav struct {
	Date  string              `json:"date"`
	Nav   decimal.Decimal     `json:"nav"`
	Nav7d decimal.NullDecimal `json:"nav_7d"`
}

type FundStockHolding struct {
	Quarter       string  `json:"quarter"`
	StockCode     string  `json:"stock_code"`
	StockName     string  `json:"stock_name"`
	WeightPercent *string `json:"weight_percent"`
	MarketValue   *string `json:"market_value"`
}

type FundSnapshot struct {
	Code      string             `json:"code"`
	Name      *string            `json:"name"`
	Type      *string            `json:"type"`
	BasicInfo []BasicInfoItem    `json:"basic_info"`
	Nav       FundNav            `json:"nav"`
	Holdings  []FundStockHolding `json:"holdings"`
}

type FundNavHistoryItem struct {
	Date        string              `json:"date"`
	Nav         decimal.Decimal     `json:"nav"`
	DailyGrowth decimal.NullDecimal `json:"daily_growth"`
	Nav7d       decimal.NullDecimal `json:"nav_7d"`
}

type FundNavHistory struct {
	Code   string               `json:"code"`
	Name   *string              `json:"name"`
	Type   *string              `json:"type"`
	Period NavPeriod            `json:"period"`
	Data   []FundNavHistoryItem `json:"data"`
}

type FundHoldingEstimate struct {
	StockCode           string              `json:"stock_code"`
	StockName           string              `json:"stock_name"`
	WeightPercent       *string             `json:"weight_percent"`
	ChangePercent       decimal.NullDecimal `json:"change_percent"`
	ContributionPercent decimal.NullDecimal `json:"contribution_percent"`
}

// FundRealtimeEstimate is the server's intraday valuation. Skipped lists
// constituent stocks that had no quote.
type FundRealtimeEstimate struct {
	Code                   string                `json:"code"`
	Name                   *string               `json:"name"`
	Type                   *string               `json:"type"`
	Nav                    FundNav               `json:"nav"`
	EstimatedNav           decimal.NullDecimal   `json:"estimated_nav"`
	EstimatedGrowthPercent decimal.NullDecimal   `json:"estimated_growth_percent"`
	Holdings               []FundHoldingEstimate `json:"holdings"`
	Skipped                []string              `json:"skipped"`
}

// Stocks

type StockRealtimeQuote struct {
	Code          string              `json:"code"`
	Market        Market              `json:"market"`
	LatestPrice   decimal.NullDecimal `json:"latest_price"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
}
