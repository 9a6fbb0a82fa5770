package calculator

import (
	"math"

	"github.com/markcheno/go-talib"

	"PortfolioSentinel/internal/model"
)

// MovingAverage computes the trailing simple moving average over window w.
// The first w-1 entries are NaN.
func MovingAverage(closes []float64, w int) model.Series {
	out := nanSeries(len(closes))
	if w <= 0 || len(closes) < w {
		return out
	}
	sma := talib.Sma(closes, w)
	for i := w - 1; i < len(closes); i++ {
		out[i] = sma[i]
	}
	return out
}

// CalculateSMA returns the latest simple moving average of prices over period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	v, _ := MovingAverage(prices, period).Last()
	return v, nil
}

func nanSeries(n int) model.Series {
	s := make(model.Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
