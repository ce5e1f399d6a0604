package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/internal/apitest"
	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/trace"
)

type cli struct {
	srv       *apitest.Server
	statePath string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{
		srv:       apitest.New(t),
		statePath: filepath.Join(t.TempDir(), "state.json"),
	}
}

func (c *cli) run(args ...string) error {
	c.stdout.Reset()
	c.stderr.Reset()
	opts := Options{
		Version: "test",
		Stdout:  &c.stdout,
		Stderr:  &c.stderr,
		Environ: func() []string {
			return []string{
				"STOCKDEAL_STATE_PATH=" + c.statePath,
				"STOCKDEAL_RETRY_COUNT=0",
				"STOCKDEAL_LOG_LEVEL=disabled",
			}
		},
		IsTTY: func() bool { return false },
	}
	return Execute(context.Background(), append([]string{"--base", c.srv.URL}, args...), opts)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccountsListJSON(t *testing.T) {
	c := newCLI(t)
	c.srv.AddAccount("主账户", dec("0.15"))
	c.srv.AddAccount("备用", dec("0"))

	require.NoError(t, c.run("accounts", "list", "-o", "json"))

	var accounts []stockdeal.FundAccount
	require.NoError(t, json.Unmarshal(c.stdout.Bytes(), &accounts))
	require.Len(t, accounts, 2)
	assert.Equal(t, "主账户", accounts[0].Name)
	assert.True(t, dec("0.15").Equal(accounts[0].DefaultBuyFeePercent))
	assert.Empty(t, c.stderr.String(), "reads do not notify")
}

func TestAccountsListTable(t *testing.T) {
	c := newCLI(t)
	c.srv.AddAccount("主账户", dec("0.15"))

	require.NoError(t, c.run("accounts", "list"))

	out := c.stdout.String()
	assert.Contains(t, out, "## Accounts")
	assert.Contains(t, out, "| ID | Name | Default fee | Remark | Created |")
	assert.Contains(t, out, "| 主账户 | 0.15% | - |")
}

func TestAccountsListEmpty(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("accounts", "list"))
	assert.Contains(t, c.stdout.String(), "_No results_")
}

func TestAccountsCreateNotifiesSuccess(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("accounts", "create", "--name", "主账户", "--fee", "0.15", "--jq", ".name"))

	assert.Equal(t, "\"主账户\"\n", c.stdout.String())
	assert.Contains(t, c.stderr.String(), `Account "主账户" created`)

	reqs := c.srv.RequestsTo(http.MethodPost, "/fund-accounts")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"name":"主账户","default_buy_fee_percent":0.15}`, string(reqs[0].Body))
}

func TestAccountsCreateRejectsInvalidFeeLocally(t *testing.T) {
	c := newCLI(t)

	err := c.run("accounts", "create", "--name", "主账户", "--fee", "150")
	require.Error(t, err)
	assert.Empty(t, c.srv.RequestsTo(http.MethodPost, "/fund-accounts"))
}

func TestAccountsCreateRejectsNonNumericFee(t *testing.T) {
	c := newCLI(t)

	err := c.run("accounts", "create", "--name", "主账户", "--fee", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --fee "abc"`)
}

func TestAccountsShowNotFound(t *testing.T) {
	c := newCLI(t)

	err := c.run("accounts", "show", "42")
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFound(err))
	assert.Equal(t, "Fund account not found: 42", err.Error())
	assert.Contains(t, c.stderr.String(), "Fund account not found: 42")
}

func TestAccountsShowRejectsBadID(t *testing.T) {
	c := newCLI(t)

	err := c.run("accounts", "show", "abc")
	require.Error(t, err)
	assert.Empty(t, c.srv.Requests())
}

func TestAccountsShowRendersHoldings(t *testing.T) {
	c := newCLI(t)
	acc := c.srv.AddAccount("主账户", dec("0.15"))
	c.srv.AddHolding(acc.ID, "161725", dec("1000"), dec("810.37"))

	require.NoError(t, c.run("accounts", "show", id(acc.ID)))

	out := c.stdout.String()
	assert.Contains(t, out, "## Totals")
	assert.Contains(t, out, "## Holdings")
	assert.Contains(t, out, "161725")
	assert.Contains(t, out, "810.37")
}

func TestHoldingsListRequiresAccount(t *testing.T) {
	c := newCLI(t)

	err := c.run("holdings", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account")
}

func TestStocksQuote(t *testing.T) {
	c := newCLI(t)
	c.srv.AddStock(stockdeal.StockRealtimeQuote{
		Code:          "00700",
		Market:        stockdeal.MarketH,
		LatestPrice:   decimal.NewNullDecimal(dec("388.2")),
		ChangePercent: decimal.NewNullDecimal(dec("-1.25")),
	})

	require.NoError(t, c.run("stocks", "quote", "00700"))
	assert.Contains(t, c.stdout.String(), "| 00700 | H | 388.2 | -1.25% |")
}

func TestJQErrorsAreReported(t *testing.T) {
	c := newCLI(t)
	c.srv.AddAccount("主账户", dec("0"))

	err := c.run("accounts", "list", "--jq", ".[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestInvalidOutputFormat(t *testing.T) {
	c := newCLI(t)

	err := c.run("accounts", "list", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --output "yaml"`)
	assert.Empty(t, c.srv.Requests())
}

func TestTraceIDIsPersistedAndSent(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("trace-id"))
	first := strings.TrimSpace(c.stdout.String())
	require.NotEmpty(t, first)

	require.NoError(t, c.run("accounts", "list"))
	reqs := c.srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, first, reqs[0].TraceID)

	require.NoError(t, c.run("trace-id"))
	assert.Equal(t, first, strings.TrimSpace(c.stdout.String()))

	require.NoError(t, c.run("trace-id", "--reset"))
	assert.NotEqual(t, first, strings.TrimSpace(c.stdout.String()))
}

func TestTraceIDJSON(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("trace-id", "-o", "json"))

	var out map[string]string
	require.NoError(t, json.Unmarshal(c.stdout.Bytes(), &out))
	assert.Len(t, out["trace_id"], len(trace.NewID()))
}

func TestConfigShowsEffectiveValues(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("config"))

	out := c.stdout.String()
	assert.Contains(t, out, "| api.base | "+c.srv.URL+" | STOCKDEAL_API_BASE |")
	assert.Contains(t, out, "| retry.count | 0 | STOCKDEAL_RETRY_COUNT |")
}

func TestWatchStopsAfterCount(t *testing.T) {
	c := newCLI(t)
	name := "招商中证白酒指数"
	c.srv.AddFund(apitest.FundFixture{
		Snapshot: stockdeal.FundSnapshot{Code: "161725", Name: &name},
		Estimate: stockdeal.FundRealtimeEstimate{
			Code:                   "161725",
			Name:                   &name,
			Nav:                    stockdeal.FundNav{Date: "2025-01-31", Nav: dec("1.2345")},
			EstimatedNav:           decimal.NewNullDecimal(dec("1.2469")),
			EstimatedGrowthPercent: decimal.NewNullDecimal(dec("1.0")),
		},
	})

	require.NoError(t, c.run("watch", "161725", "--interval", "10ms", "--count", "2"))

	lines := strings.Split(strings.TrimSpace(c.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "161725 招商中证白酒指数 est. NAV 1.2469 (1.00%)")
}

func TestWatchRejectsNonPositiveInterval(t *testing.T) {
	c := newCLI(t)

	err := c.run("watch", "161725", "--interval", "0s")
	require.Error(t, err)
	assert.Empty(t, c.srv.Requests())
}

func TestDoctor(t *testing.T) {
	c := newCLI(t)
	c.srv.AddAccount("主账户", dec("0"))

	require.NoError(t, c.run("doctor"))
	assert.Contains(t, c.stdout.String(), "OK   api: 1 account(s)")

	c.srv.Inject(http.MethodGet, "/fund-accounts", apitest.Fault{Status: http.StatusServiceUnavailable, Body: `{"detail":"down"}`})
	err := c.run("doctor")
	require.ErrorIs(t, err, errHealthCheck)
	assert.Contains(t, c.stdout.String(), "FAIL api: down")
	assert.Empty(t, c.stderr.String(), "doctor does not notify")
	assert.Len(t, c.srv.RequestsTo(http.MethodGet, "/fund-accounts"), 2, "doctor does not retry")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("version"))
	assert.Contains(t, c.stdout.String(), "stockdeal version test")
	assert.Empty(t, c.srv.Requests())
}

func TestOverviewMarksUnavailableEstimates(t *testing.T) {
	c := newCLI(t)
	acc := c.srv.AddAccount("主账户", dec("0.15"))
	c.srv.AddHolding(acc.ID, "161725", dec("1000"), dec("810.37"))

	require.NoError(t, c.run("overview", id(acc.ID)))

	out := c.stdout.String()
	assert.Contains(t, out, "## 主账户")
	assert.Contains(t, out, "| 161725 | unavailable: ")
	assert.Contains(t, out, "## Totals")
	assert.Empty(t, c.stderr.String(), "estimate failures do not notify")
}
