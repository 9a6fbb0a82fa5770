package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/calculator"
	"PortfolioSentinel/internal/model"
)

// TickerData is everything collected for one ticker in an analysis pass.
type TickerData struct {
	Ticker       string
	Quote        *model.Quote
	Fundamentals *model.FundamentalSnapshot
	Series       *model.PriceSeries
	Indicators   *model.Indicators
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Source DataSource
	Period string
}

// NewCollector creates a new Collector.
func NewCollector(source DataSource, period string) *Collector {
	if period == "" {
		period = DefaultPeriod
	}
	return &Collector{Source: source, Period: period}
}

// Collect fetches the history of a ticker and computes its indicators. The
// quote and fundamentals are optional; a missing quote falls back to the last
// close.
func (c *Collector) Collect(ctx context.Context, ticker string) (*TickerData, error) {
	series, err := c.Source.FetchHistory(ctx, ticker, c.Period)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", ticker, err)
	}
	ind, err := calculator.ComputeIndicators(series)
	if err != nil {
		return nil, fmt.Errorf("compute indicators %s: %w", ticker, err)
	}

	data := &TickerData{Ticker: ticker, Series: series, Indicators: ind}

	if q, err := c.Source.FetchQuote(ctx, ticker); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("quote unavailable, using last close")
		closes := series.Closes()
		data.Quote = &model.Quote{
			Ticker:        ticker,
			LastPrice:     ind.LastClose,
			ChangePercent: calculator.LastChangePercent(closes),
			AsOf:          series.Bars[len(series.Bars)-1].Time,
			Source:        "history",
		}
	} else {
		data.Quote = q
	}

	data.Fundamentals = c.Fundamentals(ctx, ticker)
	return data, nil
}

// Fundamentals returns the snapshot of a ticker, or nil when the source has none.
func (c *Collector) Fundamentals(ctx context.Context, ticker string) *model.FundamentalSnapshot {
	snap, err := c.Source.FetchFundamentals(ctx, ticker)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			log.Warn().Str("ticker", ticker).Msg("fundamentals unavailable, scoring without them")
		} else {
			log.Warn().Err(err).Str("ticker", ticker).Msg("fundamentals fetch failed, scoring without them")
		}
		return nil
	}
	return snap
}

// Listings returns the exchange listings when the source can screen, or an
// ErrUnavailable error otherwise.
func (c *Collector) Listings(ctx context.Context, exchange string) ([]model.Listing, error) {
	ls, ok := c.Source.(ListingSource)
	if !ok {
		return nil, fmt.Errorf("%s cannot list symbols: %w", c.Source.Name(), ErrUnavailable)
	}
	return ls.ListSymbols(ctx, exchange)
}
