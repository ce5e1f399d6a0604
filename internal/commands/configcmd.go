package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.out.render(cmd.Context(), a.cfg, func() string {
				t := newTable("Configuration", "Key", "Value", "Environment")
				for _, key := range a.cfg.Keys() {
					t.add(key, fmt.Sprint(a.cfg.All()[key]), config.EnvKey(key))
				}
				return t.String()
			})
		},
	}
}
