package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DailyReturns returns the simple close-to-close returns. Steps from a
// non-positive close are skipped.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// DailyVolatility is the sample standard deviation of daily returns.
func DailyVolatility(closes []float64) float64 {
	returns := DailyReturns(closes)
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil)
}

// AnnualizedVolatility scales daily volatility by the square root of 252.
func AnnualizedVolatility(closes []float64) float64 {
	return DailyVolatility(closes) * math.Sqrt(tradingDaysPerYear)
}

// LastChangePercent is the percent change between the two most recent closes.
func LastChangePercent(closes []float64) float64 {
	n := len(closes)
	if n < 2 || closes[n-2] == 0 {
		return 0
	}
	return (closes[n-1]/closes[n-2] - 1) * 100
}
