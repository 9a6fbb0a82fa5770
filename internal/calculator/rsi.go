package calculator

import (
	"PortfolioSentinel/internal/model"
)

// rsiEpsilon replaces a zero average gain or loss so the ratio stays finite.
const rsiEpsilon = 1e-10

// RSI computes the relative strength index using a simple rolling mean of
// gains and losses over window w. The first step has no prior close and counts
// as zero gain and zero loss. The first w-1 entries are NaN.
func RSI(closes []float64, w int) model.Series {
	out := nanSeries(len(closes))
	if w <= 0 || len(closes) < w {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var sumGain, sumLoss float64
	for i := 0; i < len(closes); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
		if i >= w {
			sumGain -= gains[i-w]
			sumLoss -= losses[i-w]
		}
		if i < w-1 {
			continue
		}
		avgGain := sumGain / float64(w)
		avgLoss := sumLoss / float64(w)
		// running sums can drift a hair below zero
		if avgGain <= 0 {
			avgGain = rsiEpsilon
		}
		if avgLoss <= 0 {
			avgLoss = rsiEpsilon
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// CalculateRSI returns the latest RSI value of the bars, or 50 when there are
// fewer bars than the period.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(bars) < period {
		return 50.0, nil // default when data insufficient
	}
	v, _ := RSI(extractCloses(bars), period).Last()
	return v, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
