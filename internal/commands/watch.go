package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/stockdeal"
)

const defaultWatchInterval = 30 * time.Second

type watchResult struct {
	est stockdeal.FundRealtimeEstimate
	err error
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch <fund-code>",
		Short: "Poll a fund's realtime estimate",
		Long: `Polls the realtime estimate of a fund and prints one line per update.
A poll still in flight when the next one starts is abandoned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			return runWatch(cmd.Context(), a, args[0], interval, count)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "Time between polls")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many updates (0 runs until interrupted)")
	return cmd
}

func runWatch(ctx context.Context, a *app, code string, interval time.Duration, count int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lookup := stockdeal.NewEstimateLookup(a.api)
	results := make(chan watchResult)
	poll := func() {
		go func() {
			est, err := lookup.Lookup(ctx, code)
			select {
			case results <- watchResult{est: est, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll()
	shown := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			poll()
		case r := <-results:
			switch {
			case stockdeal.IsSuperseded(r.err):
				continue
			case r.err != nil:
				if ctx.Err() != nil {
					return nil
				}
				a.log.Warn().Err(r.err).Str("fund_code", code).Msg("Estimate poll failed")
				fmt.Fprintf(a.opts.Stderr, "%s %s: %v\n", time.Now().Format(time.TimeOnly), code, r.err)
			default:
				if err := a.out.render(ctx, r.est, func() string {
					return watchLine(r.est)
				}); err != nil {
					return err
				}
			}
			shown++
			if count > 0 && shown >= count {
				return nil
			}
		}
	}
}

func watchLine(est stockdeal.FundRealtimeEstimate) string {
	return fmt.Sprintf("%s %s est. NAV %s (%s), last NAV %s on %s\n",
		time.Now().Format(time.TimeOnly),
		fundTitle(est.Code, est.Name),
		nullNumber(est.EstimatedNav),
		percent(est.EstimatedGrowthPercent),
		number(est.Nav.Nav),
		est.Nav.Date,
	)
}
