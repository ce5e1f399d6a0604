package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/stockdeal"
)

func newOverviewCommand(a *app) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "overview <account-id>",
		Short: "Show an account with a realtime estimate per holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			ov, err := a.api.Overview(cmd.Context(), accountID, stockdeal.WithConcurrency(concurrency))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), ov, func() string {
				return overviewMarkdown(ov)
			})
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", stockdeal.DefaultOverviewConcurrency, "Parallel estimate requests")
	return cmd
}

func overviewMarkdown(ov stockdeal.AccountOverview) string {
	acc := ov.Account
	t := newTable(acc.Name, "Fund", "Name", "Amount", "Shares", "NAV", "Est. NAV", "Est. growth", "Est. value", "Est. profit")
	for _, h := range ov.Holdings {
		p := h.Position
		if h.Estimate == nil {
			t.add(p.FundCode, "unavailable: "+h.EstimateError, amount(p.TotalAmount), number(p.TotalShares), missing, nullNumber(p.EstimatedNav), missing, nullAmount(p.EstimatedValue), nullAmount(p.EstimatedProfit))
			continue
		}
		e := h.Estimate
		t.add(
			p.FundCode,
			text(e.Name),
			amount(p.TotalAmount),
			number(p.TotalShares),
			number(e.Nav.Nav),
			nullNumber(e.EstimatedNav),
			percent(e.EstimatedGrowthPercent),
			nullAmount(p.EstimatedValue),
			nullAmount(p.EstimatedProfit),
		)
	}
	return t.String() + "\n" + totalsTable(acc.TotalCost, acc.TotalValue, acc.TotalProfit, acc.TotalProfitPercent).String()
}
