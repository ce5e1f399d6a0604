package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/stockdeal"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage fund accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(a),
		newAccountsShowCommand(a),
		newAccountsSummaryCommand(a),
		newAccountsCreateCommand(a),
		newAccountsUpdateCommand(a),
	)
	return cmd
}

func newAccountsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fund accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := a.api.ListFundAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), accounts, func() string {
				return accountsTable(accounts).String()
			})
		},
	}
}

func newAccountsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show an account with its holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			detail, err := a.api.GetFundAccountDetail(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), detail, func() string {
				return accountsTable([]stockdeal.FundAccount{detail.FundAccount}).String() + "\n" +
					totalsTable(detail.TotalCost, detail.TotalValue, detail.TotalProfit, detail.TotalProfitPercent).String() + "\n" +
					positionsTable(detail.Holdings).String()
			})
		},
	}
}

func newAccountsSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Show account totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			summary, err := a.api.GetFundAccountSummary(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), summary, func() string {
				return totalsTable(summary.TotalCost, summary.TotalValue, summary.TotalProfit, summary.TotalProfitPercent).String()
			})
		},
	}
}

func newAccountsCreateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fund account",
		Args:  cobra.NoArgs,
		Example: `  stockdeal accounts create --name 主账户 --fee 0.15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			fee, err := decimalFlag(cmd, "fee")
			if err != nil {
				return err
			}
			account, err := a.api.CreateFundAccount(cmd.Context(), stockdeal.FundAccountCreateRequest{
				Name:                 name,
				Remark:               stringFlag(cmd, "remark"),
				DefaultBuyFeePercent: fee,
			}, httpclient.WithSuccessMessage(fmt.Sprintf("Account %q created", name)))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), account, func() string {
				return accountsTable([]stockdeal.FundAccount{account}).String()
			})
		},
	}
	cmd.Flags().String("name", "", "Account name")
	cmd.Flags().String("remark", "", "Free-form remark")
	cmd.Flags().String("fee", "", "Default buy fee in percent")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountsUpdateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <account-id>",
		Short: "Update the given fields of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			fee, err := decimalFlag(cmd, "fee")
			if err != nil {
				return err
			}
			account, err := a.api.UpdateFundAccount(cmd.Context(), accountID, stockdeal.FundAccountUpdateRequest{
				Name:                 stringFlag(cmd, "name"),
				Remark:               stringFlag(cmd, "remark"),
				DefaultBuyFeePercent: fee,
			}, httpclient.WithSuccessMessage("Account updated"))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), account, func() string {
				return accountsTable([]stockdeal.FundAccount{account}).String()
			})
		},
	}
	cmd.Flags().String("name", "", "New account name")
	cmd.Flags().String("remark", "", "New remark")
	cmd.Flags().String("fee", "", "New default buy fee in percent")
	cmd.MarkFlagsOneRequired("name", "remark", "fee")
	return cmd
}

func accountsTable(accounts []stockdeal.FundAccount) *table {
	t := newTable("Accounts", "ID", "Name", "Default fee", "Remark", "Created")
	for _, acc := range accounts {
		t.add(id(acc.ID), acc.Name, acc.DefaultBuyFeePercent.StringFixed(2)+"%", text(acc.Remark), acc.CreatedAt)
	}
	return t
}

func totalsTable(cost decimal.Decimal, value, profit, profitPercent decimal.NullDecimal) *table {
	t := newTable("Totals", "Cost", "Value", "Profit", "Profit %")
	t.add(amount(cost), nullAmount(value), nullAmount(profit), percent(profitPercent))
	return t
}

func positionsTable(positions []stockdeal.FundHoldingPosition) *table {
	t := newTable("Holdings", "ID", "Fund", "Amount", "Shares", "Est. NAV", "Est. value", "Est. profit", "Est. profit %", "Updated")
	for _, p := range positions {
		t.add(
			id(p.HoldingID),
			p.FundCode,
			amount(p.TotalAmount),
			number(p.TotalShares),
			nullNumber(p.EstimatedNav),
			nullAmount(p.EstimatedValue),
			nullAmount(p.EstimatedProfit),
			percent(p.EstimatedProfitPercent),
			p.UpdatedAt,
		)
	}
	return t
}
