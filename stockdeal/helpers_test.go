package stockdeal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/internal/apitest"
	"github.com/gaborage/stockdeal/logger"
	"github.com/gaborage/stockdeal/notify"
	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/store"
	"github.com/gaborage/stockdeal/trace"
)

const testFundCode = "161725"

type harness struct {
	srv      *apitest.Server
	client   *stockdeal.Client
	notified *notify.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.New(t)
	rec := &notify.Recorder{}
	hc := httpclient.NewBuilder(logger.NewNop()).
		WithBaseURL(srv.URL).
		WithRetries(1, time.Millisecond).
		WithNotifier(rec).
		WithTraceSource(trace.NewPersistent(store.NewMemory())).
		Build()
	return &harness{srv: srv, client: stockdeal.New(hc), notified: rec}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func seedFund(srv *apitest.Server, code string) {
	name := "招商中证白酒指数"
	srv.AddFund(apitest.FundFixture{
		Snapshot: stockdeal.FundSnapshot{
			Code:      code,
			Name:      &name,
			BasicInfo: []stockdeal.BasicInfoItem{{Item: "基金经理", Value: ptr("侯昊")}},
			Nav:       stockdeal.FundNav{Date: "2025-01-31", Nav: dec("1.2345")},
			Holdings: []stockdeal.FundStockHolding{
				{Quarter: "2024Q4", StockCode: "600519", StockName: "贵州茅台", WeightPercent: ptr("15.2")},
			},
		},
		History: []stockdeal.FundNavHistoryItem{
			{Date: "2025-01-30", Nav: dec("1.2001"), DailyGrowth: decimal.NewNullDecimal(dec("-0.5"))},
			{Date: "2025-01-31", Nav: dec("1.2345"), DailyGrowth: decimal.NewNullDecimal(dec("2.87"))},
		},
		Estimate: stockdeal.FundRealtimeEstimate{
			Code:                   code,
			Name:                   &name,
			Nav:                    stockdeal.FundNav{Date: "2025-01-31", Nav: dec("1.2345")},
			EstimatedNav:           decimal.NewNullDecimal(dec("1.2469")),
			EstimatedGrowthPercent: decimal.NewNullDecimal(dec("1.0")),
			Holdings: []stockdeal.FundHoldingEstimate{
				{StockCode: "600519", StockName: "贵州茅台", ChangePercent: decimal.NewNullDecimal(dec("1.5"))},
			},
			Skipped: []string{"000858"},
		},
	})
}
