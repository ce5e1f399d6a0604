package apitest

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gaborage/stockdeal/stockdeal"
)

func (s *Server) routes(e *echo.Echo) {
	e.GET("/fund-accounts", s.listAccounts)
	e.POST("/fund-accounts", s.createAccountHandler)
	e.GET("/fund-accounts/:id", s.accountDetail)
	e.PUT("/fund-accounts/:id", s.updateAccount)
	e.GET("/fund-accounts/:id/summary", s.accountSummary)

	e.GET("/fund-holdings", s.listHoldings)
	e.POST("/fund-holdings", s.createHoldingHandler)
	e.GET("/fund-holdings/transactions", s.listTransactions)
	e.POST("/fund-holdings/transactions", s.createTransaction)
	e.GET("/fund-holdings/conversions", s.listConversions)
	e.POST("/fund-holdings/conversions", s.createConversion)
	e.GET("/fund-holdings/:id", s.getHolding)
	e.PUT("/fund-holdings/:id", s.updateHolding)
	e.DELETE("/fund-holdings/:id", s.deleteHolding)

	e.GET("/funds/:code/snapshot", s.fundSnapshot)
	e.GET("/funds/:code/nav-history", s.fundNavHistory)
	e.GET("/funds/:code/realtime-estimate", s.fundEstimate)
	e.GET("/stocks/:code/realtime", s.stockQuote)
}

func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	return c.Validate(v)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, invalidParam("path", "id", "id must be an integer")
	}
	return id, nil
}

func queryAccountID(c echo.Context) (int64, error) {
	raw := c.QueryParam("account_id")
	if raw == "" {
		return 0, invalidParam("query", "account_id", "account_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidParam("query", "account_id", "account_id must be an integer")
	}
	return id, nil
}

// Accounts

func (s *Server) createAccount(name string, remark *string, fee decimal.Decimal) *stockdeal.FundAccount {
	a := &stockdeal.FundAccount{
		ID:                   s.id(),
		Name:                 name,
		Remark:               remark,
		DefaultBuyFeePercent: fee,
		CreatedAt:            now(),
	}
	s.accounts[a.ID] = a
	return a
}

func (s *Server) listAccounts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stockdeal.FundAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b stockdeal.FundAccount) int { return cmp.Compare(a.ID, b.ID) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createAccountHandler(c echo.Context) error {
	var req stockdeal.FundAccountCreateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	fee := decimal.Zero
	if req.DefaultBuyFeePercent != nil {
		fee = *req.DefaultBuyFeePercent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.createAccount(req.Name, req.Remark, fee))
}

func (s *Server) updateAccount(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req stockdeal.FundAccountUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return notFound("Fund account not found: %d", id)
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Remark != nil {
		a.Remark = req.Remark
	}
	if req.DefaultBuyFeePercent != nil {
		a.DefaultBuyFeePercent = *req.DefaultBuyFeePercent
	}
	return c.JSON(http.StatusOK, a)
}

// accountHoldings returns the positions of an account ordered by id.
func (s *Server) accountHoldings(accountID int64, fundCode string) []stockdeal.FundHoldingPosition {
	out := []stockdeal.FundHoldingPosition{}
	for _, h := range s.holdings {
		if h.AccountID == accountID && (fundCode == "" || h.FundCode == fundCode) {
			out = append(out, *h)
		}
	}
	slices.SortFunc(out, func(a, b stockdeal.FundHoldingPosition) int { return cmp.Compare(a.HoldingID, b.HoldingID) })
	return out
}

func (s *Server) accountDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return notFound("Fund account not found: %d", id)
	}
	holdings := s.accountHoldings(id, "")
	return c.JSON(http.StatusOK, stockdeal.FundAccountDetail{
		FundAccount: *a,
		Holdings:    holdings,
		TotalCost:   totalCost(holdings),
	})
}

func (s *Server) accountSummary(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return notFound("Fund account not found: %d", id)
	}
	return c.JSON(http.StatusOK, stockdeal.FundAccountSummary{
		AccountID: id,
		TotalCost: totalCost(s.accountHoldings(id, "")),
	})
}

func totalCost(holdings []stockdeal.FundHoldingPosition) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.TotalAmount)
	}
	return total
}

// Holdings

func (s *Server) createHolding(accountID int64, fundCode string, amount, shares decimal.Decimal) *stockdeal.FundHoldingPosition {
	h := &stockdeal.FundHoldingPosition{
		HoldingID:   s.id(),
		AccountID:   accountID,
		FundCode:    fundCode,
		TotalAmount: amount,
		TotalShares: shares,
		UpdatedAt:   now(),
	}
	s.holdings[h.HoldingID] = h
	return h
}

func (s *Server) listHoldings(c echo.Context) error {
	accountID, err := queryAccountID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.accountHoldings(accountID, c.QueryParam("fund_code")))
}

func (s *Server) createHoldingHandler(c echo.Context) error {
	var req stockdeal.FundHoldingCreateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[req.AccountID]; !ok {
		return notFound("Fund account not found: %d", req.AccountID)
	}
	if len(s.accountHoldings(req.AccountID, req.FundCode)) > 0 {
		return badRequest("Holding already exists")
	}

	h := s.createHolding(req.AccountID, req.FundCode, req.TotalAmount, req.TotalAmount)
	tx := s.recordTransaction(stockdeal.FundTransaction{
		AccountID:     req.AccountID,
		HoldingID:     &h.HoldingID,
		FundCode:      req.FundCode,
		TradeType:     stockdeal.TradeBuy,
		Status:        stockdeal.StatusConfirmed,
		Amount:        req.TotalAmount,
		Shares:        h.TotalShares,
		ConfirmedNav:  decimal.NewFromInt(1),
		HoldingAmount: decimal.NewNullDecimal(req.TotalAmount),
		ProfitAmount:  decimal.NewNullDecimal(req.ProfitAmount),
		Remark:        req.Remark,
	})
	return c.JSON(http.StatusOK, tx)
}

func (s *Server) holdingByID(c echo.Context) (*stockdeal.FundHoldingPosition, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	h, ok := s.holdings[id]
	if !ok {
		return nil, notFound("Fund holding not found: %d", id)
	}
	return h, nil
}

func (s *Server) getHolding(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.holdingByID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h)
}

func (s *Server) updateHolding(c echo.Context) error {
	var req stockdeal.FundHoldingUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.holdingByID(c)
	if err != nil {
		return err
	}
	h.TotalAmount = req.TotalAmount
	h.TotalShares = req.TotalShares
	h.UpdatedAt = now()
	return c.JSON(http.StatusOK, h)
}

func (s *Server) deleteHolding(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.holdingByID(c)
	if err != nil {
		return err
	}
	delete(s.holdings, h.HoldingID)
	return c.JSON(http.StatusOK, stockdeal.DeleteResult{Success: true})
}

// Transactions

func (s *Server) recordTransaction(tx stockdeal.FundTransaction) stockdeal.FundTransaction {
	tx.ID = s.id()
	if tx.TradeTime == "" {
		tx.TradeTime = now()
	}
	s.transactions = append(s.transactions, tx)
	return tx
}

func (s *Server) createTransaction(c echo.Context) error {
	var req stockdeal.FundTransactionCreateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.pendingTransaction(req.AccountID, req.FundCode, req.TradeType, req.Amount, req.FeePercent, req.TradeDate, req.Remark)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// pendingTransaction records an unconfirmed trade. A buy without an
// explicit fee uses the account default.
func (s *Server) pendingTransaction(accountID int64, code string, typ stockdeal.TradeType, amount decimal.Decimal, fee *decimal.Decimal, date string, remark *string) (stockdeal.FundTransaction, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return stockdeal.FundTransaction{}, notFound("Fund account not found: %d", accountID)
	}
	feePercent := decimal.Zero
	switch {
	case fee != nil:
		feePercent = *fee
	case typ == stockdeal.TradeBuy:
		feePercent = a.DefaultBuyFeePercent
	}
	return s.recordTransaction(stockdeal.FundTransaction{
		AccountID:        accountID,
		FundCode:         code,
		TradeType:        typ,
		Status:           stockdeal.StatusPending,
		Amount:           amount,
		FeePercent:       feePercent,
		ConfirmedNavDate: date,
		TradeTime:        date + "T15:00:00",
		Remark:           remark,
	}), nil
}

func (s *Server) listTransactions(c echo.Context) error {
	accountID, err := queryAccountID(c)
	if err != nil {
		return err
	}
	code := c.QueryParam("fund_code")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []stockdeal.FundTransaction{}
	for _, tx := range s.transactions {
		if tx.AccountID == accountID && (code == "" || tx.FundCode == code) {
			out = append(out, tx)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Conversions

func (s *Server) createConversion(c echo.Context) error {
	var req stockdeal.FundConversionCreateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	from, err := s.pendingTransaction(req.AccountID, req.FromFundCode, stockdeal.TradeSell, req.FromAmount, req.FromFeePercent, req.TradeDate, req.Remark)
	if err != nil {
		return err
	}
	to, err := s.pendingTransaction(req.AccountID, req.ToFundCode, stockdeal.TradeBuy, req.ToAmount, req.ToFeePercent, req.TradeDate, req.Remark)
	if err != nil {
		return err
	}

	conv := stockdeal.FundConversion{
		ID:              s.id(),
		AccountID:       req.AccountID,
		FromFundCode:    req.FromFundCode,
		ToFundCode:      req.ToFundCode,
		TradeTime:       from.TradeTime,
		Remark:          req.Remark,
		CreatedAt:       now(),
		FromTransaction: from,
		ToTransaction:   to,
	}
	conv.FromTransaction.ConversionID = &conv.ID
	conv.ToTransaction.ConversionID = &conv.ID
	s.conversions = append(s.conversions, conv)
	return c.JSON(http.StatusOK, conv)
}

func (s *Server) listConversions(c echo.Context) error {
	accountID, err := queryAccountID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []stockdeal.FundConversion{}
	for _, conv := range s.conversions {
		if conv.AccountID == accountID {
			out = append(out, conv)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Funds and stocks

func (s *Server) fund(c echo.Context) (FundFixture, error) {
	code := c.Param("code")
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.funds[code]
	if !ok {
		return FundFixture{}, notFound("Fund not found: %s", code)
	}
	return f, nil
}

func (s *Server) fundSnapshot(c echo.Context) error {
	f, err := s.fund(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f.Snapshot)
}

func (s *Server) fundNavHistory(c echo.Context) error {
	period := stockdeal.PeriodSinceInception
	if raw := c.QueryParam("period"); raw != "" {
		p, err := stockdeal.ParseNavPeriod(raw)
		if err != nil {
			return invalidParam("query", "period", "period must be one of one_week one_month three_months one_year since_inception")
		}
		period = p
	}
	f, err := s.fund(c)
	if err != nil {
		return err
	}
	data := f.History
	if data == nil {
		data = []stockdeal.FundNavHistoryItem{}
	}
	return c.JSON(http.StatusOK, stockdeal.FundNavHistory{
		Code:   f.Snapshot.Code,
		Name:   f.Snapshot.Name,
		Type:   f.Snapshot.Type,
		Period: period,
		Data:   data,
	})
}

func (s *Server) fundEstimate(c echo.Context) error {
	f, err := s.fund(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f.Estimate)
}

func (s *Server) stockQuote(c echo.Context) error {
	code := c.Param("code")
	s.mu.Lock()
	q, ok := s.stocks[code]
	s.mu.Unlock()
	if !ok {
		return notFound("Stock quote not found: %s", code)
	}
	return c.JSON(http.StatusOK, q)
}
