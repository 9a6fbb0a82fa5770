package calculator

import "PortfolioSentinel/internal/model"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// EMA computes an exponential moving average seeded with the first value:
// ema[0] = x[0], ema[t] = a*x[t] + (1-a)*ema[t-1] with a = 2/(span+1).
func EMA(values []float64, span int) model.Series {
	out := make(model.Series, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for t := 1; t < len(values); t++ {
		out[t] = alpha*values[t] + (1-alpha)*out[t-1]
	}
	return out
}

// MACD returns the MACD line (EMA12 - EMA26) and its EMA9 signal line.
func MACD(closes []float64) (macd, signal model.Series) {
	fast := EMA(closes, macdFast)
	slow := EMA(closes, macdSlow)
	macd = make(model.Series, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, macdSignal)
	return macd, signal
}
