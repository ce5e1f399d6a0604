package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// decimalFlag parses a string flag as a decimal. It returns nil when the
// flag was not given.
func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: not a number", name, raw)
	}
	return &d, nil
}

// requiredDecimal is decimalFlag for flags marked required.
func requiredDecimal(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	d, err := decimalFlag(cmd, name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d == nil {
		return decimal.Decimal{}, fmt.Errorf("--%s is required", name)
	}
	return *d, nil
}

// stringFlag returns a pointer to the flag value, or nil when not given.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
