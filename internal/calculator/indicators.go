package calculator

import (
	"fmt"
	"math"

	"PortfolioSentinel/internal/model"
)

const (
	maShort   = 20
	maLong    = 50
	rsiPeriod = 14
)

// ComputeIndicators derives every technical indicator for a price series.
func ComputeIndicators(series *model.PriceSeries) (*model.Indicators, error) {
	if series == nil || len(series.Bars) == 0 {
		return nil, ErrEmptySeries
	}
	closes := series.Closes()

	ind := &model.Indicators{
		Ticker: series.Ticker,
		Closes: model.Series(closes),
		MA20:   MovingAverage(closes, maShort),
		MA50:   MovingAverage(closes, maLong),
		RSI:    RSI(closes, rsiPeriod),
	}
	ind.MACD, ind.Signal = MACD(closes)

	ind.LastClose = closes[len(closes)-1]
	ind.Trend, ind.ForecastPrice = ClassifyTrend(ind.LastClose, lastOrNaN(ind.MA20), lastOrNaN(ind.MA50))

	ind.LastMA20 = ind.MA20.Latest()
	ind.LastMA50 = ind.MA50.Latest()
	ind.LastRSI = ind.RSI.Latest()
	ind.LastMACD = ind.MACD.Latest()
	ind.LastSignal = ind.Signal.Latest()

	high, low, err := Calculate52WeekRange(series.Bars)
	if err != nil {
		return nil, fmt.Errorf("52-week range: %w", err)
	}
	ind.High52w, ind.Low52w = high, low
	if ind.Position52w, err = RangePosition(ind.LastClose, high, low); err != nil {
		return nil, fmt.Errorf("52-week position: %w", err)
	}
	ind.Volatility = AnnualizedVolatility(closes)
	return ind, nil
}

func lastOrNaN(s model.Series) float64 {
	if v, ok := s.Last(); ok {
		return v
	}
	return math.NaN()
}
