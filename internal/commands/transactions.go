package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/validation"
)

func newTransactionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Record and list fund transactions",
	}
	cmd.AddCommand(newTransactionsListCommand(a), newTransactionsCreateCommand(a))
	return cmd
}

func newTransactionsListCommand(a *app) *cobra.Command {
	var filter stockdeal.TransactionFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := a.api.ListFundTransactions(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), txs, func() string {
				return transactionsTable(txs).String()
			})
		},
	}
	cmd.Flags().Int64Var(&filter.AccountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&filter.FundCode, "fund", "", "Only this fund code")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newTransactionsCreateCommand(a *app) *cobra.Command {
	var (
		accountID   int64
		fundCode    string
		tradeType   string
		tradeDate   string
		afterCutoff bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a buy or sell",
		Args:  cobra.NoArgs,
		Example: `  stockdeal transactions create --account 1 --fund 161725 --type buy --amount 1000
  stockdeal transactions create --account 1 --fund 161725 --type sell --amount 500 --date 2025-01-31 --after-cutoff`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amt, err := requiredDecimal(cmd, "amount")
			if err != nil {
				return err
			}
			fee, err := decimalFlag(cmd, "fee")
			if err != nil {
				return err
			}
			if tradeDate == "" {
				tradeDate = time.Now().Format(validation.TradeDateLayout)
			}
			tx, err := a.api.CreateFundTransaction(cmd.Context(), stockdeal.FundTransactionCreateRequest{
				AccountID:     accountID,
				FundCode:      fundCode,
				TradeType:     stockdeal.TradeType(tradeType),
				Amount:        amt,
				FeePercent:    fee,
				TradeDate:     tradeDate,
				IsAfterCutoff: afterCutoff,
				Remark:        stringFlag(cmd, "remark"),
			}, httpclient.WithSuccessMessage("Transaction recorded"))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), tx, func() string {
				return transactionsTable([]stockdeal.FundTransaction{tx}).String()
			})
		},
	}
	cmd.Flags().Int64Var(&accountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&fundCode, "fund", "", "Fund code")
	cmd.Flags().StringVar(&tradeType, "type", string(stockdeal.TradeBuy), "Trade type: buy or sell")
	cmd.Flags().String("amount", "", "Trade amount")
	cmd.Flags().String("fee", "", "Fee in percent (buys default to the account fee)")
	cmd.Flags().StringVar(&tradeDate, "date", "", "Trade date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&afterCutoff, "after-cutoff", false, "Placed after the 15:00 cutoff")
	cmd.Flags().String("remark", "", "Free-form remark")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("fund")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func transactionsTable(txs []stockdeal.FundTransaction) *table {
	t := newTable("Transactions", "ID", "Holding", "Fund", "Type", "Status", "Amount", "Fee %", "Fee", "NAV", "NAV date", "Shares", "Traded")
	for _, tx := range txs {
		t.add(
			id(tx.ID),
			optionalID(tx.HoldingID),
			tx.FundCode,
			string(tx.TradeType),
			string(tx.Status),
			amount(tx.Amount),
			tx.FeePercent.StringFixed(2)+"%",
			amount(tx.FeeAmount),
			number(tx.ConfirmedNav),
			tx.ConfirmedNavDate,
			number(tx.Shares),
			tx.TradeTime,
		)
	}
	return t
}
