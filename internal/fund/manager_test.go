package fund

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	m, err := NewManager(path)
	require.NoError(t, err)
	return m, path
}

func TestRecord_SignAndTotals(t *testing.T) {
	m, _ := newTestManager(t)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := m.Record(day, "bbca.jk", model.ActionBuy, 100, decimal.NewFromInt(10000))
	require.NoError(t, err)
	sell, err := m.Record(day.AddDate(0, 0, 7), "BBCA.JK", model.ActionSell, 40, decimal.NewFromInt(11000))
	require.NoError(t, err)
	assert.True(t, sell.Amount.Equal(decimal.NewFromInt(-440000)))

	s := m.Summary()
	assert.Equal(t, 2, s.Count)
	assert.True(t, s.TotalPurchases.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(440000)))
	assert.True(t, s.NetCashflow.Equal(decimal.NewFromInt(560000)))
	require.Len(t, s.Cumulative, 2)
	assert.True(t, s.Cumulative[0].Equal(decimal.NewFromInt(1000000)))
	assert.True(t, s.Cumulative[1].Equal(decimal.NewFromInt(560000)))
	assert.Equal(t, "BBCA.JK", m.Transactions()[0].Ticker)
}

func TestRecord_Invalid(t *testing.T) {
	m, _ := newTestManager(t)
	price := decimal.NewFromInt(100)

	_, err := m.Record(time.Time{}, "", model.ActionBuy, 1, price)
	assert.ErrorIs(t, err, ErrInvalidTransaction)
	_, err = m.Record(time.Time{}, "A", "HOLD", 1, price)
	assert.ErrorIs(t, err, ErrInvalidTransaction)
	_, err = m.Record(time.Time{}, "A", model.ActionBuy, 0, price)
	assert.ErrorIs(t, err, ErrInvalidTransaction)
	_, err = m.Record(time.Time{}, "A", model.ActionBuy, 1, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidTransaction)
	assert.Empty(t, m.Transactions())
}

func TestRecord_DefaultsDate(t *testing.T) {
	m, _ := newTestManager(t)
	fixed := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	tx, err := m.Record(time.Time{}, "TLKM", model.ActionBuy, 1, decimal.NewFromInt(3000))
	require.NoError(t, err)
	assert.Equal(t, fixed, tx.Date)
}

func TestManager_PersistsAcrossReload(t *testing.T) {
	m, path := newTestManager(t)
	_, err := m.Record(time.Now(), "ASII", model.ActionBuy, 10, decimal.NewFromInt(5000))
	require.NoError(t, err)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	require.Len(t, reloaded.Transactions(), 1)
	assert.True(t, reloaded.Summary().NetCashflow.Equal(decimal.NewFromInt(50000)))
}

func TestRecord_SaveFailureKeepsMemoryInSync(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Record(time.Time{}, "BBCA.JK", model.ActionBuy, 10, decimal.NewFromInt(9000))
	require.NoError(t, err)

	m.filePath = filepath.Join(t.TempDir(), "missing", "ledger.json")
	_, err = m.Record(time.Time{}, "TLKM.JK", model.ActionBuy, 5, decimal.NewFromInt(3000))
	require.Error(t, err)

	txs := m.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "BBCA.JK", txs[0].Ticker)
}

func TestLoadState_Missing(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, state.Transactions)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.NetCashflow.IsZero())
	assert.Empty(t, s.Cumulative)
}
