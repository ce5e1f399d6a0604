package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/httpclient"
)

var errHealthCheck = errors.New("health check failed")

func newDoctorCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, local state and API reachability",
		Long: `Performs health checks on the client setup.

Checks include:
- the effective API base URL
- the persisted trace id in the state file
- a read-only call to the API`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), a, a.opts.Stdout)
		},
	}
}

func runDoctor(ctx context.Context, a *app, w io.Writer) error {
	var failed bool

	fmt.Fprintf(w, "API base: %s\n", a.cfg.API.Base)
	fmt.Fprintf(w, "Timeout:  %s, retries: %d\n", a.cfg.API.Timeout, a.cfg.Retry.Count)

	if traceID, err := a.traces.SessionID(ctx); err != nil {
		fmt.Fprintf(w, "FAIL state: %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(w, "OK   state: trace id %s\n", traceID)
	}

	accounts, err := a.api.ListFundAccounts(ctx, httpclient.WithNotify(false), httpclient.WithRetries(0))
	if err != nil {
		fmt.Fprintf(w, "FAIL api: %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(w, "OK   api: %d account(s)\n", len(accounts))
	}

	if failed {
		return errHealthCheck
	}
	return nil
}
