package collector

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/model"
)

// GeneratedHistory describes a synthetic daily series for a fixture ticker.
type GeneratedHistory struct {
	BasePrice float64 `yaml:"base_price"`
	Bars      int     `yaml:"bars"`
	Drift     float64 `yaml:"drift"` // per-bar relative change
}

// Fixture is the YAML document replayed by FixtureSource.
type Fixture struct {
	Quotes       map[string]model.Quote               `yaml:"quotes"`
	Fundamentals map[string]model.FundamentalSnapshot `yaml:"fundamentals"`
	History      map[string][]model.OHLCV             `yaml:"history"`
	Generate     map[string]GeneratedHistory          `yaml:"generate"`
	Listings     map[string][]model.Listing           `yaml:"listings"`
}

// FixtureSource replays recorded or generated market data for development
// and testing.
type FixtureSource struct {
	mu      sync.RWMutex
	fixture Fixture
	now     func() time.Time
}

// NewFixtureSource wraps an in-memory fixture.
func NewFixtureSource(f Fixture) *FixtureSource {
	return &FixtureSource{fixture: f, now: time.Now}
}

// LoadFixture reads a fixture YAML file.
func LoadFixture(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	var keys struct {
		Fundamentals map[string]map[string]any `yaml:"fundamentals"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	fillRiskDefaults(f.Fundamentals, keys.Fundamentals)
	return NewFixtureSource(f), nil
}

// fillRiskDefaults gives fixture entries the same beta, debt/equity and
// market cap defaults the live providers use when a key is absent.
func fillRiskDefaults(snaps map[string]model.FundamentalSnapshot, keys map[string]map[string]any) {
	for ticker, snap := range snaps {
		present := keys[ticker]
		if _, ok := present["beta"]; !ok {
			snap.Beta = defaultBeta
		}
		if _, ok := present["debt_equity_ratio"]; !ok {
			snap.DebtEquityRatio = defaultDebtEquity
		}
		if _, ok := present["market_cap"]; !ok {
			snap.MarketCap = defaultMarketCap
		}
		snaps[ticker] = snap
	}
}

func (s *FixtureSource) Name() string { return "fixture" }

// SetQuote replaces the quote of a ticker.
func (s *FixtureSource) SetQuote(q model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fixture.Quotes == nil {
		s.fixture.Quotes = make(map[string]model.Quote)
	}
	s.fixture.Quotes[q.Ticker] = q
}

func (s *FixtureSource) FetchQuote(_ context.Context, ticker string) (*model.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.fixture.Quotes[ticker]
	if !ok || q.LastPrice <= 0 {
		return nil, fmt.Errorf("fixture quote %s: %w", ticker, ErrUnavailable)
	}
	q.Ticker = ticker
	q.Source = s.Name()
	if q.AsOf.IsZero() {
		q.AsOf = s.now()
	}
	return &q, nil
}

func (s *FixtureSource) FetchFundamentals(_ context.Context, ticker string) (*model.FundamentalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fixture.Fundamentals[ticker]
	if !ok {
		return nil, fmt.Errorf("fixture fundamentals %s: %w", ticker, ErrUnavailable)
	}
	f.Ticker = ticker
	return &f, nil
}

func (s *FixtureSource) FetchHistory(_ context.Context, ticker, period string) (*model.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if period == "" {
		period = DefaultPeriod
	}
	bars, ok := s.fixture.History[ticker]
	if !ok {
		gen, found := s.fixture.Generate[ticker]
		if !found || gen.Bars <= 0 {
			return nil, fmt.Errorf("fixture history %s: %w", ticker, ErrUnavailable)
		}
		bars = generateBars(gen, s.now())
	}
	return &model.PriceSeries{Ticker: ticker, Period: period, Bars: bars, FetchedAt: s.now()}, nil
}

func (s *FixtureSource) ListSymbols(_ context.Context, exchange string) ([]model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listings, ok := s.fixture.Listings[strings.ToUpper(exchange)]
	if !ok {
		return nil, fmt.Errorf("fixture listings %s: %w", exchange, ErrUnavailable)
	}
	return listings, nil
}

// generateBars builds a daily series ending the day before end, moving by
// drift per bar and centred on the base price.
func generateBars(g GeneratedHistory, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, g.Bars)
	for i := 0; i < g.Bars; i++ {
		p := g.BasePrice * (1 + float64(i-g.Bars/2)*g.Drift)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(g.Bars - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
