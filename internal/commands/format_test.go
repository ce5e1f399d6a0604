package commands

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUsesYuan(t *testing.T) {
	assert.Equal(t, "1,000.00 元", amount(dec("1000")))
	assert.Equal(t, "0.13 元", amount(dec("0.125")))
	assert.Equal(t, missing, nullAmount(decimal.NullDecimal{}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "2.87%", percent(decimal.NewNullDecimal(dec("2.8712"))))
	assert.Equal(t, "-0.50%", percent(decimal.NewNullDecimal(dec("-0.5"))))
	assert.Equal(t, missing, percent(decimal.NullDecimal{}))
}

func TestOptionalValues(t *testing.T) {
	empty := ""
	remark := "定投"
	var holdingID int64 = 7

	assert.Equal(t, missing, text(nil))
	assert.Equal(t, missing, text(&empty))
	assert.Equal(t, remark, text(&remark))
	assert.Equal(t, missing, optionalID(nil))
	assert.Equal(t, "7", optionalID(&holdingID))
}

func TestParseID(t *testing.T) {
	v, err := parseID("account", "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseID("account", bad)
		assert.Error(t, err, bad)
	}
}

func TestTableEscapesPipes(t *testing.T) {
	tbl := newTable("", "A", "B")
	tbl.add("x|y", "z")
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n", tbl.String())
}

func TestRunJQ(t *testing.T) {
	in := []map[string]any{{"name": "a", "n": 1}, {"name": "b", "n": 2}}

	results, err := runJQ(context.Background(), ".[] | select(.n > 1) | .name", in)
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, results)

	_, err = runJQ(context.Background(), "error(\"boom\")", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
