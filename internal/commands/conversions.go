package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/validation"
)

func newConversionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversions",
		Aliases: []string{"conversion"},
		Short:   "Switch amounts between funds",
	}
	cmd.AddCommand(newConversionsListCommand(a), newConversionsCreateCommand(a))
	return cmd
}

func newConversionsListCommand(a *app) *cobra.Command {
	var accountID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the conversions of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			convs, err := a.api.ListFundConversions(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), convs, func() string {
				return conversionsTable(convs).String()
			})
		},
	}
	cmd.Flags().Int64Var(&accountID, "account", 0, "Account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newConversionsCreateCommand(a *app) *cobra.Command {
	var (
		req       stockdeal.FundConversionCreateRequest
		tradeDate string
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Convert an amount from one fund to another",
		Args:    cobra.NoArgs,
		Example: `  stockdeal conversions create --account 1 --from 161725 --to 007119 --from-amount 1000 --to-amount 980`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.FromAmount, err = requiredDecimal(cmd, "from-amount"); err != nil {
				return err
			}
			if req.ToAmount, err = requiredDecimal(cmd, "to-amount"); err != nil {
				return err
			}
			if req.FromFeePercent, err = decimalFlag(cmd, "from-fee"); err != nil {
				return err
			}
			if req.ToFeePercent, err = decimalFlag(cmd, "to-fee"); err != nil {
				return err
			}
			req.TradeDate = tradeDate
			if req.TradeDate == "" {
				req.TradeDate = time.Now().Format(validation.TradeDateLayout)
			}
			req.Remark = stringFlag(cmd, "remark")

			conv, err := a.api.CreateFundConversion(cmd.Context(), req, httpclient.WithSuccessMessage("Conversion recorded"))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), conv, func() string {
				return conversionsTable([]stockdeal.FundConversion{conv}).String() + "\n" +
					transactionsTable([]stockdeal.FundTransaction{conv.FromTransaction, conv.ToTransaction}).String()
			})
		},
	}
	cmd.Flags().Int64Var(&req.AccountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&req.FromFundCode, "from", "", "Fund code to convert from")
	cmd.Flags().StringVar(&req.ToFundCode, "to", "", "Fund code to convert into")
	cmd.Flags().String("from-amount", "", "Amount taken from the source fund")
	cmd.Flags().String("to-amount", "", "Amount placed into the target fund")
	cmd.Flags().String("from-fee", "", "Source fee in percent")
	cmd.Flags().String("to-fee", "", "Target fee in percent")
	cmd.Flags().StringVar(&tradeDate, "date", "", "Trade date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&req.IsAfterCutoff, "after-cutoff", false, "Placed after the 15:00 cutoff")
	cmd.Flags().String("remark", "", "Free-form remark")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("from-amount")
	_ = cmd.MarkFlagRequired("to-amount")
	return cmd
}

func conversionsTable(convs []stockdeal.FundConversion) *table {
	t := newTable("Conversions", "ID", "From", "To", "From amount", "To amount", "Traded", "Remark")
	for _, c := range convs {
		t.add(
			id(c.ID),
			c.FromFundCode,
			c.ToFundCode,
			amount(c.FromTransaction.Amount),
			amount(c.ToTransaction.Amount),
			c.TradeTime,
			text(c.Remark),
		)
	}
	return t
}
