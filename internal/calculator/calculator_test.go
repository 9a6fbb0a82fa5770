package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func seriesFromCloses(ticker string, closes []float64) *model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c}
	}
	return &model.PriceSeries{Ticker: ticker, Period: "1y", Bars: bars}
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestMovingAverage_LeadingNaN(t *testing.T) {
	ma := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, ma, 5)
	assert.True(t, math.IsNaN(ma[0]))
	assert.True(t, math.IsNaN(ma[1]))
	assert.InDelta(t, 2.0, ma[2], 1e-9)
	assert.InDelta(t, 3.0, ma[3], 1e-9)
	assert.InDelta(t, 4.0, ma[4], 1e-9)
}

func TestMovingAverage_ShortInput(t *testing.T) {
	ma := MovingAverage([]float64{1, 2}, 20)
	require.Len(t, ma, 2)
	_, ok := ma.Last()
	assert.False(t, ok)
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{10, 20, 30, 40}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 35.0, v, 1e-9)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103, 99, 98, 104, 110, 108, 107, 111, 115, 112, 109, 113, 118, 117, 120, 119}
	rsi := RSI(closes, 14)
	for i, v := range rsi {
		if i < 13 {
			assert.True(t, math.IsNaN(v), "index %d should be undefined", i)
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSI_Extremes(t *testing.T) {
	up, ok := RSI(ramp(30, 100, 1), 14).Last()
	require.True(t, ok)
	assert.InDelta(t, 100.0, up, 1e-6)

	down, ok := RSI(ramp(30, 100, -1), 14).Last()
	require.True(t, ok)
	assert.InDelta(t, 0.0, down, 1e-6)

	flat, ok := RSI(ramp(30, 100, 0), 14).Last()
	require.True(t, ok)
	assert.InDelta(t, 50.0, flat, 1e-9)
}

func TestRSI_FirstStepCountsAsZero(t *testing.T) {
	// window 2 at index 1 averages the zero first step with a +2 gain and no loss
	rsi := RSI([]float64{10, 12}, 2)
	assert.True(t, math.IsNaN(rsi[0]))
	assert.InDelta(t, 100.0, rsi[1], 1e-6)
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	v, err := CalculateRSI(seriesFromCloses("X", []float64{1, 2, 3}).Bars, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	ema := EMA([]float64{10, 20}, 3)
	assert.Equal(t, 10.0, ema[0])
	assert.InDelta(t, 15.0, ema[1], 1e-12)
	assert.Empty(t, EMA(nil, 3))
}

func TestMACD_Deterministic(t *testing.T) {
	closes := []float64{100, 101, 99, 103, 107, 104, 102, 108, 111, 109}
	m1, s1 := MACD(closes)
	m2, s2 := MACD(closes)
	assert.Equal(t, m1, m2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 0.0, m1[0])
	assert.Equal(t, 0.0, s1[0])
}

func TestMACD_ConstantSeriesIsZero(t *testing.T) {
	m, s := MACD(ramp(40, 50, 0))
	for i := range m {
		assert.InDelta(t, 0.0, m[i], 1e-12)
		assert.InDelta(t, 0.0, s[i], 1e-12)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name             string
		last, ma20, ma50 float64
		trend            model.Trend
		forecast         float64
	}{
		{"up", 110, 105, 100, model.TrendUp, 115.5},
		{"down", 90, 95, 100, model.TrendDown, 85.5},
		{"flat above short but short below long", 100, 95, 99, model.TrendFlat, 101},
		{"flat equal averages", 100, 100, 100, model.TrendFlat, 101},
		{"undefined long average", 100, 99, math.NaN(), model.TrendFlat, 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, forecast := ClassifyTrend(tt.last, tt.ma20, tt.ma50)
			assert.Equal(t, tt.trend, trend)
			assert.InDelta(t, tt.forecast, forecast, 1e-9)
		})
	}
}

func TestRangePosition(t *testing.T) {
	pos, err := RangePosition(150, 200, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pos, 1e-12)

	pos, _ = RangePosition(250, 200, 100)
	assert.Equal(t, 1.0, pos)
	pos, _ = RangePosition(100, 100, 100)
	assert.Equal(t, 0.5, pos)

	_, err = RangePosition(1, 1, 2)
	assert.Error(t, err)
}

func TestPriceRange_Lookback(t *testing.T) {
	bars := seriesFromCloses("X", []float64{500, 10, 20, 30}).Bars
	high, low, err := PriceRange(bars, 3)
	require.NoError(t, err)
	assert.InDelta(t, 30*1.01, high, 1e-9)
	assert.InDelta(t, 10*0.99, low, 1e-9)

	_, _, err = PriceRange(nil, 3)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(ramp(10, 100, 0)))
	assert.Greater(t, AnnualizedVolatility([]float64{100, 110, 95, 120, 90}), 0.0)
	assert.InDelta(t, 10.0, LastChangePercent([]float64{100, 110}), 1e-9)
	assert.Equal(t, 0.0, LastChangePercent([]float64{100}))
}

func TestComputeIndicators(t *testing.T) {
	series := seriesFromCloses("BBCA.JK", ramp(120, 1000, 10))
	ind, err := ComputeIndicators(series)
	require.NoError(t, err)

	assert.Equal(t, "BBCA.JK", ind.Ticker)
	assert.Equal(t, 2190.0, ind.LastClose)
	assert.Equal(t, model.TrendUp, ind.Trend)
	assert.InDelta(t, 2190*1.05, ind.ForecastPrice, 1e-9)
	require.NotNil(t, ind.LastMA20)
	require.NotNil(t, ind.LastMACD)
	require.NotNil(t, ind.LastRSI)
	assert.InDelta(t, 2095.0, *ind.LastMA20, 1e-9)
	assert.Greater(t, *ind.LastMACD, 0.0)
	assert.InDelta(t, 100.0, *ind.LastRSI, 1e-6)
	assert.Len(t, ind.MA50, 120)
}

func TestComputeIndicators_ShortHistoryIsFlat(t *testing.T) {
	ind, err := ComputeIndicators(seriesFromCloses("X", []float64{10, 11, 12}))
	require.NoError(t, err)
	assert.Equal(t, model.TrendFlat, ind.Trend)
	assert.Nil(t, ind.LastMA20)
	assert.Nil(t, ind.LastMA50)
	assert.Nil(t, ind.LastRSI)
	assert.InDelta(t, 12.12, ind.ForecastPrice, 1e-9)
}

func TestComputeIndicators_Empty(t *testing.T) {
	_, err := ComputeIndicators(&model.PriceSeries{Ticker: "X"})
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = ComputeIndicators(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}
