// Package analyzer runs one analysis pass per user action: it values the
// portfolio through the price cache, collects history and fundamentals, and
// feeds the scorers and the allocation planner.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/cache"
	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/planner"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/profile"
	"PortfolioSentinel/internal/recorder"
	"PortfolioSentinel/internal/scoring"
)

// Bounds on the number of distinct tickers Compare accepts.
const (
	MinCompare = 2
	MaxCompare = 5
)

// ErrTooFewTickers is returned by Compare when fewer than MinCompare distinct
// tickers are given.
var ErrTooFewTickers = errors.New("comparison needs at least 2 tickers")

// PortfolioReport is the valued portfolio at one instant.
type PortfolioReport struct {
	AsOf        time.Time                `json:"as_of"`
	Positions   []model.EnrichedPosition `json:"positions"`
	Summary     model.DCASummary         `json:"summary"`
	Composition []model.CompositionEntry `json:"composition"`
}

// Analyzer wires the data sources to the analytics engine.
type Analyzer struct {
	Collector  *collector.Collector
	Prices     *cache.PriceCache
	Aggregator *portfolio.Aggregator
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Positions  []model.Position

	now func() time.Time
}

// New creates an Analyzer. A nil recorder disables history.
func New(col *collector.Collector, prices *cache.PriceCache, rec recorder.Recorder, m *metrics.Metrics, positions []model.Position) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Analyzer{
		Collector:  col,
		Prices:     prices,
		Aggregator: portfolio.NewAggregator(prices),
		Recorder:   rec,
		Metrics:    m,
		Positions:  positions,
		now:        time.Now,
	}
}

// Portfolio values every position and records the snapshot.
func (a *Analyzer) Portfolio(ctx context.Context) *PortfolioReport {
	defer a.Metrics.ObserveAnalysis("portfolio", time.Now())

	enriched := a.Aggregator.Aggregate(ctx, a.Positions)
	rep := &PortfolioReport{
		AsOf:        a.now(),
		Positions:   enriched,
		Summary:     portfolio.Summarize(enriched),
		Composition: portfolio.Composition(enriched),
	}
	if _, err := a.Recorder.RecordPortfolio(&recorder.PortfolioSnapshot{Positions: enriched, Summary: rep.Summary}); err != nil {
		log.Error().Err(err).Msg("record portfolio")
	}
	return rep
}

// Indicators collects the history of a ticker and computes its indicators.
func (a *Analyzer) Indicators(ctx context.Context, ticker string) (*model.Indicators, error) {
	defer a.Metrics.ObserveAnalysis("indicators", time.Now())

	data, err := a.Collector.Collect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if _, err := a.Recorder.RecordIndicators(data.Indicators); err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("record indicators")
	}
	return data.Indicators, nil
}

// Valuations scores each ticker. A ticker without fundamentals scores 0.
func (a *Analyzer) Valuations(ctx context.Context, tickers []string) []model.ValuationScore {
	defer a.Metrics.ObserveAnalysis("valuation", time.Now())

	out := make([]model.ValuationScore, 0, len(tickers))
	for _, t := range tickers {
		vs := scoring.ScoreValuation(a.Collector.Fundamentals(ctx, t))
		vs.Ticker = t
		out = append(out, vs)
	}
	return out
}

// Risk scores every position and weights the scores by current value.
func (a *Analyzer) Risk(ctx context.Context) *model.PortfolioRisk {
	defer a.Metrics.ObserveAnalysis("risk", time.Now())

	enriched := a.Aggregator.Aggregate(ctx, a.Positions)
	scores := make([]model.RiskScore, 0, len(enriched))
	values := make([]float64, 0, len(enriched))
	total := decimal.Zero
	for _, e := range enriched {
		snap := a.Collector.Fundamentals(ctx, e.Ticker)
		vol := e.ChangePercent
		if snap != nil && snap.ChangePercent != 0 {
			vol = snap.ChangePercent
		}
		rs := scoring.ScoreRisk(snap, vol)
		rs.Ticker = e.Ticker
		scores = append(scores, rs)
		values = append(values, e.CurrentValue.InexactFloat64())
		total = total.Add(e.CurrentValue)
	}

	risk := scoring.PortfolioRisk(scores, values)
	a.Metrics.SetPortfolio(total.InexactFloat64(), risk.Score)
	if _, err := a.Recorder.RecordRisk(&risk); err != nil {
		log.Error().Err(err).Msg("record risk")
	}
	return &risk
}

// Plan distributes budget over the held positions plus any extra tickers,
// weighting each by its valuation score. Extra tickers start with zero lots.
func (a *Analyzer) Plan(ctx context.Context, budget decimal.Decimal, extra ...string) (*model.AllocationPlan, error) {
	defer a.Metrics.ObserveAnalysis("plan", time.Now())

	positions := append([]model.Position(nil), a.Positions...)
	held := make(map[string]bool, len(positions))
	for _, p := range positions {
		held[p.Ticker] = true
	}
	for _, t := range extra {
		if !held[t] {
			held[t] = true
			positions = append(positions, model.Position{Ticker: t})
		}
	}

	enriched := a.Aggregator.Aggregate(ctx, positions)
	candidates := make([]model.Candidate, 0, len(enriched))
	for _, e := range enriched {
		vs := scoring.ScoreValuation(a.Collector.Fundamentals(ctx, e.Ticker))
		candidates = append(candidates, model.Candidate{
			Ticker:       e.Ticker,
			Score:        vs.Score,
			CurrentPrice: e.CurrentPrice,
			CurrentLots:  e.Lots,
		})
	}

	plan, err := planner.PlanAllocation(candidates, budget)
	if err != nil {
		return nil, fmt.Errorf("plan allocation: %w", err)
	}
	if _, err := a.Recorder.RecordPlan(plan); err != nil {
		log.Error().Err(err).Msg("record plan")
	}
	return plan, nil
}

// Screen lists an exchange and keeps the undervalued stocks.
func (a *Analyzer) Screen(ctx context.Context, exchange string, opts scoring.ScreenOptions) ([]scoring.ScreenResult, error) {
	defer a.Metrics.ObserveAnalysis("screen", time.Now())

	listings, err := a.Collector.Listings(ctx, exchange)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", exchange, err)
	}
	snapshots := make([]model.FundamentalSnapshot, 0, len(listings))
	for _, l := range listings {
		snap := a.Collector.Fundamentals(ctx, l.Symbol)
		if snap == nil {
			continue
		}
		if snap.CompanyName == "" {
			snap.CompanyName = l.CompanyName
		}
		if snap.MarketCap == 0 {
			snap.MarketCap = l.MarketCap
		}
		snapshots = append(snapshots, *snap)
	}
	return scoring.ScreenUndervalued(snapshots, opts), nil
}

// Compare lays out up to MaxCompare tickers side by side, tagging each as held
// or market. Without tickers the held positions are compared. Extra tickers
// beyond MaxCompare are dropped.
func (a *Analyzer) Compare(ctx context.Context, tickers []string) ([]model.ComparisonRow, error) {
	defer a.Metrics.ObserveAnalysis("compare", time.Now())

	if len(tickers) == 0 {
		tickers = a.Tickers()
	}
	seen := make(map[string]bool, len(tickers))
	list := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		list = append(list, t)
	}
	if len(list) < MinCompare {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewTickers, len(list))
	}
	if len(list) > MaxCompare {
		log.Warn().Int("requested", len(list)).Int("max", MaxCompare).Msg("comparison truncated")
		list = list[:MaxCompare]
	}

	held := make(map[string]bool, len(a.Positions))
	for _, p := range a.Positions {
		held[p.Ticker] = true
	}
	rows := make([]model.ComparisonRow, 0, len(list))
	for _, t := range list {
		side := model.SideMarket
		if held[t] {
			side = model.SidePortfolio
		}
		q := a.Prices.Get(ctx, t)
		rows = append(rows, scoring.CompareRow(t, a.Collector.Fundamentals(ctx, t), q.LastPrice, side))
	}
	return rows, nil
}

// Diversification compares the portfolio's category mix with the target of p.
func (a *Analyzer) Diversification(ctx context.Context, p profile.RiskProfile) profile.Diversification {
	defer a.Metrics.ObserveAnalysis("diversification", time.Now())
	return profile.Diversify(p, a.Aggregator.Aggregate(ctx, a.Positions))
}

// Tickers returns the tickers of the held positions.
func (a *Analyzer) Tickers() []string {
	out := make([]string, len(a.Positions))
	for i, p := range a.Positions {
		out[i] = p.Ticker
	}
	return out
}
