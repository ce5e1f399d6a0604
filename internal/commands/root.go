package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *app) {
	opts.applyDefaults()
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "stockdeal",
		Short: "Track fund and stock holdings from the command line",
		Long: `Command-line client for the StockDeal holdings API.

Valuations, estimates and profits are computed by the server; this tool
only fetches and displays them. Configuration is read from stockdeal.yaml,
.env and STOCKDEAL_* environment variables.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.output, "output", "o", formatTable, "Output format: table or json")
	pf.StringVar(&a.flags.jq, "jq", "", "Filter JSON output with a jq expression")
	pf.StringVar(&a.flags.base, "base", "", "API base URL (overrides STOCKDEAL_API_BASE)")
	pf.StringVar(&a.flags.configFile, "config", "", "Path to a YAML config file")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Disable console notifications")

	root.AddCommand(
		newAccountsCommand(a),
		newHoldingsCommand(a),
		newTransactionsCommand(a),
		newConversionsCommand(a),
		newFundsCommand(a),
		newStocksCommand(a),
		newOverviewCommand(a),
		newWatchCommand(a),
		newTraceIDCommand(a),
		newConfigCommand(a),
		newDoctorCommand(a),
		newVersionCommand(a),
	)
	return root, a
}
