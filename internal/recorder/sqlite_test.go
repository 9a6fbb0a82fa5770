package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_Portfolio(t *testing.T) {
	r := openTestRecorder(t)
	snap := &PortfolioSnapshot{
		Positions: []model.EnrichedPosition{{
			Position:     model.Position{Ticker: "BBCA.JK", Lots: 100, AvgPrice: decimal.NewFromInt(9000)},
			CurrentPrice: decimal.NewFromInt(9250),
			PriceSource:  model.PriceLive,
			CurrentValue: decimal.NewFromInt(925000),
			ProfitLoss:   decimal.NewFromInt(25000),
		}},
		Summary: model.DCASummary{TotalCurrentValue: decimal.NewFromInt(925000), TotalProfit: decimal.NewFromInt(25000)},
	}
	id, err := r.RecordPortfolio(snap)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	var count int
	require.NoError(t, r.db.Get(&count, `SELECT COUNT(*) FROM position_snapshots WHERE run_id = ?`, id))
	assert.Equal(t, 1, count)

	runs, err := r.RecentRuns(KindPortfolio, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 925000.0, runs[0].Headline)
	assert.Contains(t, runs[0].Note, "1 positions")
}

func TestSQLiteRecorder_PlanRiskIndicators(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	step := 0
	r.now = func() time.Time { step++; return base.Add(time.Duration(step) * time.Minute) }

	_, err := r.RecordPlan(&model.AllocationPlan{
		Budget:          decimal.NewFromInt(1000),
		TotalInvestment: decimal.NewFromInt(900),
		Remaining:       decimal.NewFromInt(100),
		Entries: []model.AllocationEntry{{
			Ticker: "A", Score: 5, Weight: 1, CurrentPrice: decimal.NewFromInt(100),
			AllocatedCash: decimal.NewFromInt(1000), AdditionalShares: 9, AdditionalInvestment: decimal.NewFromInt(900),
		}},
	})
	require.NoError(t, err)

	_, err = r.RecordRisk(&model.PortfolioRisk{
		Score: 4.2, Band: model.RiskMedium,
		Stocks: []model.RiskScore{{Ticker: "A", Score: 4, Volatility: 1.5}},
	})
	require.NoError(t, err)

	_, err = r.RecordIndicators(&model.Indicators{Ticker: "A", LastClose: 100, Trend: model.TrendUp, ForecastPrice: 105})
	require.NoError(t, err)

	all, err := r.RecentRuns("", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindIndicators, all[0].Kind)
	assert.Equal(t, KindRisk, all[1].Kind)
	assert.Equal(t, "Medium", all[1].Note)
	assert.Equal(t, KindPlan, all[2].Kind)
	assert.Equal(t, 900.0, all[2].Headline)

	plans, err := r.RecentRuns(KindPlan, 0)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestSQLiteRecorder_UndefinedIndicatorsAreNull(t *testing.T) {
	r := openTestRecorder(t)
	rsi := 42.5
	id, err := r.RecordIndicators(&model.Indicators{Ticker: "A", LastClose: 100, LastRSI: &rsi, Trend: model.TrendFlat})
	require.NoError(t, err)

	var row struct {
		MA20 *float64 `db:"ma20"`
		RSI  *float64 `db:"rsi"`
	}
	require.NoError(t, r.db.Get(&row, `SELECT ma20, rsi FROM indicator_snapshots WHERE run_id = ?`, id))
	assert.Nil(t, row.MA20)
	require.NotNil(t, row.RSI)
	assert.Equal(t, 42.5, *row.RSI)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	id, err := r.RecordPlan(&model.AllocationPlan{})
	assert.NoError(t, err)
	assert.Empty(t, id)
	runs, err := r.RecentRuns("", 1)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
