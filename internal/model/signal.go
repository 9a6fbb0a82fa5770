package model

// RuleContribution records the points one metric earned in a bucket table.
type RuleContribution struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Points int     `json:"points"`
	Label  string  `json:"label,omitempty"`
}

// ValuationScore is the 0..15 valuation result for one ticker.
type ValuationScore struct {
	Ticker        string             `json:"ticker"`
	Score         int                `json:"score"`
	Contributions []RuleContribution `json:"contributions"`
	HasData       bool               `json:"has_data"`
}

// RiskBand classifies a risk score.
type RiskBand string

const (
	RiskLow      RiskBand = "Low"
	RiskMedium   RiskBand = "Medium"
	RiskHigh     RiskBand = "High"
	RiskVeryHigh RiskBand = "Very High"
)

// RiskScore is the 0..10 risk result for one ticker.
type RiskScore struct {
	Ticker        string             `json:"ticker"`
	Score         int                `json:"score"`
	Volatility    float64            `json:"volatility_pct"`
	Contributions []RuleContribution `json:"contributions"`
}

// PortfolioRisk is the value-weighted risk of the whole portfolio.
type PortfolioRisk struct {
	Score  float64     `json:"score"`
	Band   RiskBand    `json:"band"`
	Stocks []RiskScore `json:"stocks"`
}
