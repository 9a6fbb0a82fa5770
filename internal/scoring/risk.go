package scoring

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// MaxRiskScore caps the per-stock risk score.
const MaxRiskScore = 10

// RiskRules defines the risk buckets read from a snapshot. Volatility is
// scored from its own input.
var RiskRules = []metricRule{
	{
		metric: "Beta",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.Beta },
		buckets: []bucket{
			{above(1.5), 3, "very sensitive"},
			{above(1.2), 2, "sensitive"},
			{above(1.0), 1, "above market"},
		},
	},
	{
		metric: "PER",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.PER },
		buckets: []bucket{
			{above(25), 2, "expensive"},
			{above(20), 1, "elevated"},
		},
	},
	{
		metric: "DebtEquity",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.DebtEquityRatio },
		buckets: []bucket{
			{above(2.0), 3, "heavily leveraged"},
			{above(1.5), 2, "leveraged"},
			{above(1.0), 1, "moderate leverage"},
		},
	},
	{
		metric: "MarketCap",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.MarketCap },
		buckets: []bucket{
			{below(5e11), 3, "small cap"},
			{below(1e12), 2, "mid cap"},
			{below(5e12), 1, "large cap"},
		},
	},
}

var volatilityRule = metricRule{
	metric: "Volatility",
	buckets: []bucket{
		{above(5), 3, "very volatile"},
		{above(3), 2, "volatile"},
		{above(1), 1, "moving"},
	},
}

// ScoreRisk sums the risk buckets for a snapshot and a volatility reading in
// percent, capped at MaxRiskScore. A nil snapshot scores only volatility.
func ScoreRisk(s *model.FundamentalSnapshot, volatilityPct float64) model.RiskScore {
	rs := model.RiskScore{Volatility: volatilityPct}
	if s != nil {
		rs.Ticker = s.Ticker
		for _, r := range RiskRules {
			c := r.evaluate(s)
			rs.Score += c.Points
			rs.Contributions = append(rs.Contributions, c)
		}
	}
	vc := volatilityRule.score(math.Abs(volatilityPct))
	rs.Score += vc.Points
	rs.Contributions = append(rs.Contributions, vc)

	if rs.Score > MaxRiskScore {
		rs.Score = MaxRiskScore
	}
	return rs
}

// RiskBands maps a portfolio risk score to its band; first match wins.
var RiskBands = []struct {
	Below float64
	Band  model.RiskBand
}{
	{3, model.RiskLow},
	{6, model.RiskMedium},
	{8, model.RiskHigh},
}

// ClassifyRisk maps a risk score to a band.
func ClassifyRisk(score float64) model.RiskBand {
	for _, b := range RiskBands {
		if score < b.Below {
			return b.Band
		}
	}
	return model.RiskVeryHigh
}

// PortfolioRisk returns the value-weighted mean of scores, or 0 when the
// total value is zero. values[i] is the current value of the stock behind scores[i].
func PortfolioRisk(scores []model.RiskScore, values []float64) model.PortfolioRisk {
	var weighted, total float64
	for i, s := range scores {
		if i >= len(values) {
			break
		}
		weighted += float64(s.Score) * values[i]
		total += values[i]
	}
	pr := model.PortfolioRisk{Stocks: scores}
	if total > 0 {
		pr.Score = weighted / total
	}
	pr.Band = ClassifyRisk(pr.Score)
	return pr
}
