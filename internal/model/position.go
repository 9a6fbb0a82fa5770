package model

import "github.com/shopspring/decimal"

// PriceSource tells where the price of an enriched position came from.
type PriceSource string

const (
	PriceLive     PriceSource = "live"
	PriceAvgPrice PriceSource = "avg_price"
)

// Position is a holding as declared by the user.
type Position struct {
	Ticker   string          `json:"ticker" yaml:"ticker"`
	Lots     int64           `json:"lots" yaml:"lots"`
	AvgPrice decimal.Decimal `json:"avg_price" yaml:"avg_price"`
}

// CostBasis is lots x average price.
func (p Position) CostBasis() decimal.Decimal {
	return p.AvgPrice.Mul(decimal.NewFromInt(p.Lots))
}

// EnrichedPosition is a position valued at its current price.
type EnrichedPosition struct {
	Position
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PriceSource     PriceSource     `json:"price_source"`
	ChangePercent   float64         `json:"change_percent"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	ProfitLoss      decimal.Decimal `json:"profit_loss"`
	ProfitLossPct   float64         `json:"profit_loss_pct"` // fraction, 0.1 = +10%
}

// DCASummary aggregates cost basis against current value across positions.
type DCASummary struct {
	TotalInvestment   decimal.Decimal `json:"total_investment"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalProfitPct    float64         `json:"total_profit_pct"`
}

// CompositionEntry is the share of one ticker in the portfolio's current value.
type CompositionEntry struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}
