package commands

import (
	"fmt"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currency is the display currency for account amounts.
const currency = money.CNY

const missing = "-"

// amount formats a server-reported money value in the display currency.
func amount(d decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

func nullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return missing
	}
	return amount(d.Decimal)
}

// percent formats a value already expressed in percent.
func percent(d decimal.NullDecimal) string {
	if !d.Valid {
		return missing
	}
	return d.Decimal.StringFixed(2) + "%"
}

func number(d decimal.Decimal) string {
	return d.String()
}

func nullNumber(d decimal.NullDecimal) string {
	if !d.Valid {
		return missing
	}
	return d.Decimal.String()
}

func text(s *string) string {
	if s == nil || *s == "" {
		return missing
	}
	return *s
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func optionalID(v *int64) string {
	if v == nil {
		return missing
	}
	return id(*v)
}

func parseID(kind, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return v, nil
}
