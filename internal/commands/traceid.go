package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTraceIDCommand(a *app) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "trace-id",
		Short: "Print the session trace id sent as X-Trace-Id",
		Long: `Prints the trace id attached to every request. The id is created on first
use and persisted in the state file; --reset replaces it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reset {
				if err := a.traces.Reset(cmd.Context()); err != nil {
					return err
				}
			}
			traceID, err := a.traces.SessionID(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.output == formatJSON || a.flags.jq != "" {
				return a.out.render(cmd.Context(), map[string]string{"trace_id": traceID}, nil)
			}
			_, err = fmt.Fprintln(a.opts.Stdout, traceID)
			return err
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Discard the persisted id and create a new one")
	return cmd
}
