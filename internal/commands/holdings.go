package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/stockdeal"
)

func newHoldingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "holdings",
		Aliases: []string{"holding"},
		Short:   "Manage fund holdings",
	}
	cmd.AddCommand(
		newHoldingsListCommand(a),
		newHoldingsShowCommand(a),
		newHoldingsCreateCommand(a),
		newHoldingsUpdateCommand(a),
		newHoldingsDeleteCommand(a),
	)
	return cmd
}

func newHoldingsListCommand(a *app) *cobra.Command {
	var (
		accountID int64
		fundCode  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the holdings of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			positions, err := a.api.ListFundHoldings(cmd.Context(), accountID, fundCode)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), positions, func() string {
				return positionsTable(positions).String()
			})
		},
	}
	cmd.Flags().Int64Var(&accountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&fundCode, "fund", "", "Only this fund code")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newHoldingsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <holding-id>",
		Short: "Show one holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holdingID, err := parseID("holding", args[0])
			if err != nil {
				return err
			}
			position, err := a.api.GetFundHolding(cmd.Context(), holdingID)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), position, func() string {
				return positionsTable([]stockdeal.FundHoldingPosition{position}).String()
			})
		},
	}
}

func newHoldingsCreateCommand(a *app) *cobra.Command {
	var (
		accountID int64
		fundCode  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a holding from its current amount and profit",
		Args:  cobra.NoArgs,
		Example: `  stockdeal holdings create --account 1 --fund 161725 --amount 12000 --profit 2000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, err := requiredDecimal(cmd, "amount")
			if err != nil {
				return err
			}
			profit, err := requiredDecimal(cmd, "profit")
			if err != nil {
				return err
			}
			tx, err := a.api.CreateFundHolding(cmd.Context(), stockdeal.FundHoldingCreateRequest{
				AccountID:    accountID,
				FundCode:     fundCode,
				TotalAmount:  total,
				ProfitAmount: profit,
				Remark:       stringFlag(cmd, "remark"),
			}, httpclient.WithSuccessMessage("Holding created"))
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
	cmd.Flags().String("amount", "", "Current total amount")
	cmd.Flags().String("profit", "", "Accumulated profit")
	cmd.Flags().String("remark", "", "Free-form remark")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("fund")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("profit")
	return cmd
}

func newHoldingsUpdateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <holding-id>",
		Short: "Overwrite the amount and shares of a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holdingID, err := parseID("holding", args[0])
			if err != nil {
				return err
			}
			total, err := requiredDecimal(cmd, "amount")
			if err != nil {
				return err
			}
			shares, err := requiredDecimal(cmd, "shares")
			if err != nil {
				return err
			}
			position, err := a.api.UpdateFundHolding(cmd.Context(), holdingID, stockdeal.FundHoldingUpdateRequest{
				TotalAmount: total,
				TotalShares: shares,
			}, httpclient.WithSuccessMessage("Holding updated"))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), position, func() string {
				return positionsTable([]stockdeal.FundHoldingPosition{position}).String()
			})
		},
	}
	cmd.Flags().String("amount", "", "Total amount")
	cmd.Flags().String("shares", "", "Total shares")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("shares")
	return cmd
}

func newHoldingsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <holding-id>",
		Short: "Delete a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holdingID, err := parseID("holding", args[0])
			if err != nil {
				return err
			}
			res, err := a.api.DeleteFundHolding(cmd.Context(), holdingID, httpclient.WithSuccessMessage("Holding deleted"))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), res, nil)
		},
	}
}
