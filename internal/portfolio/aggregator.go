package portfolio

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

// PriceLookup returns the current quote of a ticker. The price cache
// satisfies it.
type PriceLookup interface {
	Get(ctx context.Context, ticker string) model.Quote
}

// Aggregator values positions at their current prices.
type Aggregator struct {
	prices PriceLookup
}

func NewAggregator(prices PriceLookup) *Aggregator {
	return &Aggregator{prices: prices}
}

// Aggregate enriches every position with its current price and P&L. A
// position without a live price is valued at its average price.
func (a *Aggregator) Aggregate(ctx context.Context, positions []model.Position) []model.EnrichedPosition {
	out := make([]model.EnrichedPosition, 0, len(positions))
	for _, p := range positions {
		e := model.EnrichedPosition{Position: p}

		q := a.prices.Get(ctx, p.Ticker)
		if q.Available() {
			e.CurrentPrice = decimal.NewFromFloat(q.LastPrice)
			e.PriceSource = model.PriceLive
			e.ChangePercent = q.ChangePercent
		} else {
			log.Warn().Str("ticker", p.Ticker).Msg("no live price, valuing at average price")
			e.CurrentPrice = p.AvgPrice
			e.PriceSource = model.PriceAvgPrice
		}

		lots := decimal.NewFromInt(p.Lots)
		e.TotalInvestment = p.CostBasis()
		e.CurrentValue = e.CurrentPrice.Mul(lots)
		e.ProfitLoss = e.CurrentValue.Sub(e.TotalInvestment)
		e.ProfitLossPct = ratioMinusOne(e.CurrentValue, e.TotalInvestment)
		out = append(out, e)
	}
	return out
}

// Summarize totals cost basis, current value and profit across positions.
func Summarize(enriched []model.EnrichedPosition) model.DCASummary {
	s := model.DCASummary{
		TotalInvestment:   decimal.Zero,
		TotalCurrentValue: decimal.Zero,
	}
	for _, e := range enriched {
		s.TotalInvestment = s.TotalInvestment.Add(e.TotalInvestment)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(e.CurrentValue)
	}
	s.TotalProfit = s.TotalCurrentValue.Sub(s.TotalInvestment)
	s.TotalProfitPct = ratioMinusOne(s.TotalCurrentValue, s.TotalInvestment)
	return s
}

// Composition returns the share of each position in the total current value.
// Weights are zero when the portfolio has no value.
func Composition(enriched []model.EnrichedPosition) []model.CompositionEntry {
	total := decimal.Zero
	for _, e := range enriched {
		total = total.Add(e.CurrentValue)
	}
	out := make([]model.CompositionEntry, 0, len(enriched))
	for _, e := range enriched {
		entry := model.CompositionEntry{Ticker: e.Ticker}
		if total.IsPositive() {
			entry.Weight = e.CurrentValue.Div(total).InexactFloat64()
		}
		out = append(out, entry)
	}
	return out
}

// ratioMinusOne returns value/cost - 1, or 0 when cost is not positive.
func ratioMinusOne(value, cost decimal.Decimal) float64 {
	if !cost.IsPositive() {
		return 0
	}
	return value.Div(cost).Sub(decimal.NewFromInt(1)).InexactFloat64()
}
