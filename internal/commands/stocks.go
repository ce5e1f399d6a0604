package commands

import (
	"github.com/spf13/cobra"
)

func newStocksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stocks",
		Aliases: []string{"stock"},
		Short:   "Look up stock quotes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "quote <stock-code>",
		Short: "Show the realtime quote of an A or H share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := a.api.GetStockRealtimeQuote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.render(cmd.Context(), quote, func() string {
				t := newTable("Quote", "Code", "Market", "Price", "Change")
				t.add(quote.Code, string(quote.Market), nullNumber(quote.LatestPrice), percent(quote.ChangePercent))
				return t.String()
			})
		},
	})
	return cmd
}
