package calculator

import (
	"errors"
	"math"

	"PortfolioSentinel/internal/model"
)

const tradingDaysPerYear = 252

// PriceRange scans the most recent lookback bars and returns the high and low.
func PriceRange(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrEmptySeries
	}
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		hi, lo := b.High, b.Low
		// sources that only report closes leave high/low empty
		if hi == 0 && lo == 0 {
			hi, lo = b.Close, b.Close
		}
		if hi > high {
			high = hi
		}
		if lo < low {
			low = lo
		}
	}
	return high, low, nil
}

// Calculate52WeekRange returns the high and low of the most recent 252 trading days.
func Calculate52WeekRange(bars []model.OHLCV) (high, low float64, err error) {
	return PriceRange(bars, tradingDaysPerYear)
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
