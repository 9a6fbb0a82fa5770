package scoring

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

// MaxValuationScore is the highest score ScoreValuation can produce.
const MaxValuationScore = 15

// bucket awards points when its predicate matches. Buckets are checked in order
// and the first match wins.
type bucket struct {
	match  func(v float64) bool
	points int
	label  string
}

// metricRule scores one metric of a snapshot against its buckets.
type metricRule struct {
	metric  string
	value   func(s *model.FundamentalSnapshot) float64
	gate    func(v float64) bool
	buckets []bucket
}

func below(limit float64) func(float64) bool { return func(v float64) bool { return v < limit } }
func above(limit float64) func(float64) bool { return func(v float64) bool { return v > limit } }
func positive(v float64) bool                { return v > 0 }

// ValuationRules defines the five valuation buckets. PER and PBV only score
// when positive.
var ValuationRules = []metricRule{
	{
		metric: "PER",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.PER },
		gate:   positive,
		buckets: []bucket{
			{below(15), 3, "cheap"},
			{below(20), 2, "fair"},
			{below(25), 1, "rich"},
		},
	},
	{
		metric: "PBV",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.PBV },
		gate:   positive,
		buckets: []bucket{
			{below(1), 3, "below book"},
			{below(1.5), 2, "near book"},
			{below(2), 1, "above book"},
		},
	},
	{
		metric: "ROE",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.ROE },
		buckets: []bucket{
			{above(20), 3, "excellent"},
			{above(15), 2, "good"},
			{above(10), 1, "adequate"},
		},
	},
	{
		metric: "NPM",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.NPM },
		buckets: []bucket{
			{above(20), 3, "excellent"},
			{above(15), 2, "good"},
			{above(10), 1, "adequate"},
		},
	},
	{
		metric: "DividendYield",
		value:  func(s *model.FundamentalSnapshot) float64 { return s.DividendYield },
		buckets: []bucket{
			{above(5), 3, "high"},
			{above(3), 2, "moderate"},
			{above(1), 1, "low"},
		},
	},
}

func (r metricRule) evaluate(s *model.FundamentalSnapshot) model.RuleContribution {
	return r.score(r.value(s))
}

func (r metricRule) score(v float64) model.RuleContribution {
	c := model.RuleContribution{Metric: r.metric, Value: v}
	if r.gate != nil && !r.gate(v) {
		c.Label = "n/a"
		return c
	}
	for _, b := range r.buckets {
		if b.match(v) {
			c.Points = b.points
			c.Label = b.label
			return c
		}
	}
	return c
}

// ScoreValuation sums the valuation buckets for a snapshot. A nil snapshot scores 0.
func ScoreValuation(s *model.FundamentalSnapshot) model.ValuationScore {
	if s == nil {
		return model.ValuationScore{}
	}
	vs := model.ValuationScore{Ticker: s.Ticker, HasData: true}
	for _, r := range ValuationRules {
		c := r.evaluate(s)
		vs.Score += c.Points
		vs.Contributions = append(vs.Contributions, c)
	}
	return vs
}

// Describe renders contributions as one line, e.g. "PER 12.0 (+3), PBV 1.8 (+1)".
func Describe(contributions []model.RuleContribution) string {
	var sb strings.Builder
	for i, c := range contributions {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %.1f (+%d)", c.Metric, c.Value, c.Points)
	}
	return sb.String()
}
