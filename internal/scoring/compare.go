package scoring

import "PortfolioSentinel/internal/model"

// Markups applied to a stock's own ratios when the provider reports no
// industry reference.
const (
	industryPERMarkup = 1.1
	industryPBVMarkup = 1.15
)

// CompareRow lays out one ticker for a side-by-side comparison. The snapshot
// price wins over lastPrice; a nil snapshot leaves the ratios at zero.
func CompareRow(ticker string, snap *model.FundamentalSnapshot, lastPrice float64, side model.ComparisonSide) model.ComparisonRow {
	row := model.ComparisonRow{Ticker: ticker, CompanyName: ticker, Price: lastPrice, Side: side}
	if snap == nil {
		return row
	}
	if snap.CompanyName != "" {
		row.CompanyName = snap.CompanyName
	}
	if snap.Price > 0 {
		row.Price = snap.Price
	}
	row.PER = snap.PER
	row.PBV = snap.PBV
	row.ROE = snap.ROE
	row.RevenueGrowth = snap.RevenueGrowth
	row.DividendYield = snap.DividendYield
	row.IndustryPER, row.IndustryPBV = IndustryReference(snap)
	return row
}

// IndustryReference returns the PER and PBV a stock is measured against.
func IndustryReference(snap *model.FundamentalSnapshot) (per, pbv float64) {
	per = snap.IndustryPER
	if per <= 0 {
		per = snap.PER * industryPERMarkup
	}
	return per, snap.PBV * industryPBVMarkup
}
