package collector

import (
	"context"
	"errors"

	"PortfolioSentinel/internal/model"
)

// ErrUnavailable marks data a source cannot provide right now.
var ErrUnavailable = errors.New("data unavailable")

// DefaultPeriod is the history lookback used when none is given.
const DefaultPeriod = "1y"

type QuoteSource interface {
	FetchQuote(ctx context.Context, ticker string) (*model.Quote, error)
}

type FundamentalsSource interface {
	FetchFundamentals(ctx context.Context, ticker string) (*model.FundamentalSnapshot, error)
}

type HistorySource interface {
	FetchHistory(ctx context.Context, ticker, period string) (*model.PriceSeries, error)
}

// ListingSource lists the stocks of an exchange for screening.
type ListingSource interface {
	ListSymbols(ctx context.Context, exchange string) ([]model.Listing, error)
}

// DataSource is the full capability set consumed by the analytics engine.
// Capabilities a source does not have return ErrUnavailable.
type DataSource interface {
	Name() string
	QuoteSource
	FundamentalsSource
	HistorySource
}

// Unavailable is a DataSource that never has data.
type Unavailable struct{}

func (Unavailable) Name() string { return "unavailable" }

func (Unavailable) FetchQuote(context.Context, string) (*model.Quote, error) {
	return nil, ErrUnavailable
}

func (Unavailable) FetchFundamentals(context.Context, string) (*model.FundamentalSnapshot, error) {
	return nil, ErrUnavailable
}

func (Unavailable) FetchHistory(context.Context, string, string) (*model.PriceSeries, error) {
	return nil, ErrUnavailable
}

func (Unavailable) ListSymbols(context.Context, string) ([]model.Listing, error) {
	return nil, ErrUnavailable
}
