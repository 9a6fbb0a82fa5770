package model

import "math"

// Series is a time-aligned sequence of indicator values. NaN marks an index without a value.
type Series []float64

// Last returns the most recent value and whether it is defined.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 || math.IsNaN(s[len(s)-1]) {
		return 0, false
	}
	return s[len(s)-1], true
}

// Latest returns the most recent value, or nil while it is undefined.
func (s Series) Latest() *float64 {
	v, ok := s.Last()
	if !ok {
		return nil
	}
	return &v
}

// Trend is the direction assigned by the moving-average trend rule.
type Trend string

const (
	TrendUp   Trend = "Up"
	TrendDown Trend = "Down"
	TrendFlat Trend = "Flat"
)

// Indicators holds all computed technical indicators for one ticker.
type Indicators struct {
	Ticker string `json:"ticker"`
	Closes Series `json:"-"`
	MA20   Series `json:"-"`
	MA50   Series `json:"-"`
	RSI    Series `json:"-"`
	MACD   Series `json:"-"`
	Signal Series `json:"-"`

	LastClose     float64  `json:"last_close"`
	LastMA20      *float64 `json:"ma20"` // nil until the window fills
	LastMA50      *float64 `json:"ma50"`
	LastRSI       *float64 `json:"rsi"`
	LastMACD      *float64 `json:"macd"`
	LastSignal    *float64 `json:"signal"`
	Trend         Trend    `json:"trend"`
	ForecastPrice float64  `json:"forecast_price"`

	High52w     float64 `json:"high_52w"`
	Low52w      float64 `json:"low_52w"`
	Position52w float64 `json:"position_52w"` // 0.0 ~ 1.0
	Volatility  float64 `json:"volatility"`   // annualized, fraction
}
