package model

// FundamentalSnapshot holds the ratios used by the valuation and risk scorers.
// ROE, NPM, DividendYield and RevenueGrowth are expressed in percent.
type FundamentalSnapshot struct {
	Ticker          string  `json:"ticker" yaml:"ticker"`
	CompanyName     string  `json:"company_name,omitempty" yaml:"company_name"`
	Price           float64 `json:"price" yaml:"price"`
	PER             float64 `json:"per" yaml:"per"`
	PBV             float64 `json:"pbv" yaml:"pbv"`
	ROE             float64 `json:"roe" yaml:"roe"`
	NPM             float64 `json:"npm" yaml:"npm"`
	DividendYield   float64 `json:"dividend_yield" yaml:"dividend_yield"`
	Beta            float64 `json:"beta" yaml:"beta"`
	DebtEquityRatio float64 `json:"debt_equity_ratio" yaml:"debt_equity_ratio"`
	MarketCap       float64 `json:"market_cap" yaml:"market_cap"`
	ChangePercent   float64 `json:"change_percent" yaml:"change_percent"`
	RevenueGrowth   float64 `json:"revenue_growth" yaml:"revenue_growth"`
	// IndustryPER is the sector PER reported by the provider, 0 when unknown.
	IndustryPER float64 `json:"industry_per,omitempty" yaml:"industry_per"`
}

// ComparisonSide tells whether a compared ticker is held or only watched.
type ComparisonSide string

const (
	SidePortfolio ComparisonSide = "portfolio"
	SideMarket    ComparisonSide = "market"
)

// ComparisonRow is one column of a side-by-side stock comparison.
type ComparisonRow struct {
	Ticker        string         `json:"ticker"`
	CompanyName   string         `json:"company_name"`
	Price         float64        `json:"price"`
	PER           float64        `json:"per"`
	PBV           float64        `json:"pbv"`
	ROE           float64        `json:"roe"`
	RevenueGrowth float64        `json:"revenue_growth"`
	DividendYield float64        `json:"dividend_yield"`
	IndustryPER   float64        `json:"industry_per"`
	IndustryPBV   float64        `json:"industry_pbv"`
	Side          ComparisonSide `json:"side"`
}

// Listing is one row of an exchange stock screener.
type Listing struct {
	Symbol      string  `json:"symbol" yaml:"symbol"`
	CompanyName string  `json:"company_name" yaml:"company_name"`
	MarketCap   float64 `json:"market_cap" yaml:"market_cap"`
	Price       float64 `json:"price" yaml:"price"`
}
