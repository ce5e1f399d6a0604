package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/stockdeal"
)

func newFundsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "funds",
		Aliases: []string{"fund"},
		Short:   "Look up fund data",
	}
	cmd.AddCommand(newFundsSnapshotCommand(a), newFundsNavCommand(a), newFundsEstimateCommand(a))
	return cmd
}

func newFundsSnapshotCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <fund-code>",
		Short: "Show profile, latest NAV and top holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.api.GetFundSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), snap, func() string {
				info := newTable(fundTitle(snap.Code, snap.Name), "Item", "Value")
				for _, item := range snap.BasicInfo {
					info.add(item.Item, text(item.Value))
				}
				holdings := newTable("Top holdings", "Quarter", "Stock", "Name", "Weight %", "Market value")
				for _, h := range snap.Holdings {
					holdings.add(h.Quarter, h.StockCode, h.StockName, text(h.WeightPercent), text(h.MarketValue))
				}
				return info.String() + "\n" + navTable(snap.Nav).String() + "\n" + holdings.String()
			})
		},
	}
}

func newFundsNavCommand(a *app) *cobra.Command {
	var period string
	names := make([]string, len(stockdeal.NavPeriods))
	for i, p := range stockdeal.NavPeriods {
		names[i] = string(p)
	}
	cmd := &cobra.Command{
		Use:   "nav <fund-code>",
		Short: "Show NAV history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := a.api.GetFundNavHistory(cmd.Context(), args[0], stockdeal.NavPeriod(period))
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), hist, func() string {
				t := newTable(fundTitle(hist.Code, hist.Name)+" ("+string(hist.Period)+")", "Date", "NAV", "Daily growth", "7-day yield")
				for _, item := range hist.Data {
					t.add(item.Date, number(item.Nav), percent(item.DailyGrowth), percent(item.Nav7d))
				}
				return t.String()
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", string(stockdeal.PeriodOneMonth), "Period: "+strings.Join(names, ", "))
	return cmd
}

func newFundsEstimateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <fund-code>",
		Short: "Show the server's intraday estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := a.api.GetFundRealtimeEstimate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), est, func() string {
				return estimateMarkdown(est)
			})
		},
	}
}

func fundTitle(code string, name *string) string {
	if name == nil || *name == "" {
		return code
	}
	return code + " " + *name
}

func navTable(nav stockdeal.FundNav) *table {
	t := newTable("Latest NAV", "Date", "NAV", "7-day yield")
	t.add(nav.Date, number(nav.Nav), percent(nav.Nav7d))
	return t
}

func estimateMarkdown(est stockdeal.FundRealtimeEstimate) string {
	summary := newTable(fundTitle(est.Code, est.Name), "NAV date", "NAV", "Est. NAV", "Est. growth")
	summary.add(est.Nav.Date, number(est.Nav.Nav), nullNumber(est.EstimatedNav), percent(est.EstimatedGrowthPercent))

	contrib := newTable("Contributions", "Stock", "Name", "Weight %", "Change", "Contribution")
	for _, h := range est.Holdings {
		contrib.add(h.StockCode, h.StockName, text(h.WeightPercent), percent(h.ChangePercent), percent(h.ContributionPercent))
	}

	md := summary.String() + "\n" + contrib.String()
	if len(est.Skipped) > 0 {
		md += "\nNo quote for: " + strings.Join(est.Skipped, ", ") + "\n"
	}
	return md
}
