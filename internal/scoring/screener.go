package scoring

import (
	"sort"

	"PortfolioSentinel/internal/model"
)

// ScreenOptions filters the undervalued screen.
type ScreenOptions struct {
	MinScore     int
	MinMarketCap float64
	Limit        int
}

// DefaultScreenOptions keeps large caps scoring at least 8.
var DefaultScreenOptions = ScreenOptions{MinScore: 8, MinMarketCap: 1e12, Limit: 20}

// ScreenResult pairs a snapshot with its valuation score.
type ScreenResult struct {
	Snapshot  model.FundamentalSnapshot `json:"snapshot"`
	Valuation model.ValuationScore      `json:"valuation"`
}

// ScreenUndervalued scores snapshots and keeps those passing opts, ranked by
// score descending with ties in input order.
func ScreenUndervalued(snapshots []model.FundamentalSnapshot, opts ScreenOptions) []ScreenResult {
	var results []ScreenResult
	for i := range snapshots {
		s := snapshots[i]
		if s.MarketCap <= opts.MinMarketCap {
			continue
		}
		vs := ScoreValuation(&s)
		if vs.Score < opts.MinScore {
			continue
		}
		results = append(results, ScreenResult{Snapshot: s, Valuation: vs})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Valuation.Score > results[j].Valuation.Score
	})
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}
