package collector

import (
	"context"
	"fmt"

	"PortfolioSentinel/internal/model"
)

// Router composes a DataSource from per-capability sources. A nil capability
// reports ErrUnavailable.
type Router struct {
	Quotes       QuoteSource
	Fundamentals FundamentalsSource
	History      HistorySource
	Listings     ListingSource
}

func (r *Router) Name() string { return "router" }

func (r *Router) FetchQuote(ctx context.Context, ticker string) (*model.Quote, error) {
	if r.Quotes == nil {
		return nil, fmt.Errorf("no quote source: %w", ErrUnavailable)
	}
	return r.Quotes.FetchQuote(ctx, ticker)
}

func (r *Router) FetchFundamentals(ctx context.Context, ticker string) (*model.FundamentalSnapshot, error) {
	if r.Fundamentals == nil {
		return nil, fmt.Errorf("no fundamentals source: %w", ErrUnavailable)
	}
	return r.Fundamentals.FetchFundamentals(ctx, ticker)
}

func (r *Router) FetchHistory(ctx context.Context, ticker, period string) (*model.PriceSeries, error) {
	if r.History == nil {
		return nil, fmt.Errorf("no history source: %w", ErrUnavailable)
	}
	return r.History.FetchHistory(ctx, ticker, period)
}

func (r *Router) ListSymbols(ctx context.Context, exchange string) ([]model.Listing, error) {
	if r.Listings == nil {
		return nil, fmt.Errorf("no listing source: %w", ErrUnavailable)
	}
	return r.Listings.ListSymbols(ctx, exchange)
}
