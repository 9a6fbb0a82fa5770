package calculator

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// Forecast multipliers applied to the last close for each trend.
const (
	upMultiplier   = 1.05
	downMultiplier = 0.95
	flatMultiplier = 1.01
)

// ClassifyTrend applies the moving-average trend rule and returns the trend
// with its forecast price. Undefined averages yield Flat.
func ClassifyTrend(last, ma20, ma50 float64) (model.Trend, float64) {
	if math.IsNaN(ma20) || math.IsNaN(ma50) {
		return model.TrendFlat, last * flatMultiplier
	}
	switch {
	case ma20 > ma50 && last > ma20:
		return model.TrendUp, last * upMultiplier
	case ma20 < ma50 && last < ma20:
		return model.TrendDown, last * downMultiplier
	default:
		return model.TrendFlat, last * flatMultiplier
	}
}
