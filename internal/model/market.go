package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// PriceSeries holds the bars of one ticker over a lookback period, oldest first.
type PriceSeries struct {
	Ticker    string    `json:"ticker" yaml:"ticker"`
	Period    string    `json:"period" yaml:"period"`
	Bars      []OHLCV   `json:"bars" yaml:"bars"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Closes extracts the close prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Quote is the last traded price of a ticker as reported by a quote source.
type Quote struct {
	Ticker        string    `json:"ticker" msgpack:"ticker" yaml:"ticker"`
	LastPrice     float64   `json:"last_price" msgpack:"last_price" yaml:"last_price"`
	Change        float64   `json:"change" msgpack:"change" yaml:"change"`
	ChangePercent float64   `json:"change_percent" msgpack:"change_percent" yaml:"change_percent"`
	AsOf          time.Time `json:"as_of" msgpack:"as_of" yaml:"as_of"`
	Source        string    `json:"source" msgpack:"source" yaml:"source"`
	Unavailable   bool      `json:"unavailable,omitempty" msgpack:"unavailable" yaml:"unavailable"`
}

// UnavailableQuote is returned in place of a quote when no source could provide one.
func UnavailableQuote(ticker string) Quote {
	return Quote{Ticker: ticker, Unavailable: true}
}

// Available reports whether the quote carries a usable price.
func (q Quote) Available() bool {
	return !q.Unavailable && q.LastPrice > 0
}
