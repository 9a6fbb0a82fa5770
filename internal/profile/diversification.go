package profile

import (
	"strings"

	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

// Category groups holdings for diversification guidance.
type Category string

const (
	BlueChip        Category = "Blue Chip"
	Income          Category = "Income"
	FixedIncomeFund Category = "Fixed Income Fund"
	Growth          Category = "Growth"
	Speculative     Category = "Speculative"
)

// Categories lists every category in report order.
var Categories = []Category{BlueChip, Income, FixedIncomeFund, Growth, Speculative}

// TargetAllocations holds the target percentage per category for each profile.
var TargetAllocations = map[RiskProfile]map[Category]float64{
	Conservative:   {BlueChip: 70, Income: 20, FixedIncomeFund: 10, Growth: 0, Speculative: 0},
	Moderate:       {BlueChip: 50, Income: 20, FixedIncomeFund: 10, Growth: 15, Speculative: 5},
	Aggressive:     {BlueChip: 30, Income: 10, FixedIncomeFund: 5, Growth: 40, Speculative: 15},
	VeryAggressive: {BlueChip: 20, Income: 5, FixedIncomeFund: 0, Growth: 50, Speculative: 25},
}

var tickerCategories = map[string]Category{
	"BBCA": BlueChip, "BBRI": BlueChip, "BBNI": BlueChip, "BMRI": BlueChip,
	"TLKM": BlueChip, "EXCL": BlueChip, "ASII": BlueChip,
	"UNVR": Income, "ICBP": Income, "MYOR": Income, "INDF": Income, "SMGR": Income,
	"GOTO": Growth, "ARTO": Growth, "BRIS": Growth, "ACES": Growth, "EMTK": Growth,
}

// Categorize assigns a ticker to a category. Unknown tickers are speculative.
func Categorize(ticker string) Category {
	base := strings.TrimSuffix(strings.ToUpper(ticker), ".JK")
	if c, ok := tickerCategories[base]; ok {
		return c
	}
	return Speculative
}

// AllocationGap compares the current and target share of one category, in percent.
type AllocationGap struct {
	Category Category `json:"category"`
	Current  float64  `json:"current"`
	Target   float64  `json:"target"`
	Gap      float64  `json:"gap"` // target - current
}

// Diversification is the current-vs-target report for a profile.
type Diversification struct {
	Profile RiskProfile     `json:"profile"`
	Gaps    []AllocationGap `json:"gaps"`
}

// Diversify groups positions by category and compares them with the profile target.
func Diversify(p RiskProfile, enriched []model.EnrichedPosition) Diversification {
	target := TargetAllocations[p]
	byCategory := make(map[Category]decimal.Decimal)
	total := decimal.Zero
	for _, e := range enriched {
		c := Categorize(e.Ticker)
		byCategory[c] = byCategory[c].Add(e.CurrentValue)
		total = total.Add(e.CurrentValue)
	}

	d := Diversification{Profile: p}
	for _, c := range Categories {
		g := AllocationGap{Category: c, Target: target[c]}
		if total.IsPositive() {
			g.Current = byCategory[c].Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		g.Gap = g.Target - g.Current
		d.Gaps = append(d.Gaps, g)
	}
	return d
}
