package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestScoreValuation_Max(t *testing.T) {
	vs := ScoreValuation(&model.FundamentalSnapshot{
		Ticker: "BBRI.JK", PER: 10, PBV: 0.8, ROE: 25, NPM: 30, DividendYield: 6,
	})
	assert.Equal(t, MaxValuationScore, vs.Score)
	assert.True(t, vs.HasData)
	require.Len(t, vs.Contributions, 5)
}

func TestScoreValuation_Nil(t *testing.T) {
	vs := ScoreValuation(nil)
	assert.Equal(t, 0, vs.Score)
	assert.False(t, vs.HasData)
}

func TestScoreValuation_Buckets(t *testing.T) {
	tests := []struct {
		name  string
		snap  model.FundamentalSnapshot
		score int
	}{
		{"all missing", model.FundamentalSnapshot{}, 0},
		{"negative PER earns nothing", model.FundamentalSnapshot{PER: -5}, 0},
		{"PER 15 is fair", model.FundamentalSnapshot{PER: 15}, 2},
		{"PER 24.9 is rich", model.FundamentalSnapshot{PER: 24.9}, 1},
		{"PER 25 earns nothing", model.FundamentalSnapshot{PER: 25}, 0},
		{"PBV 1.2", model.FundamentalSnapshot{PBV: 1.2}, 2},
		{"ROE exactly 20", model.FundamentalSnapshot{ROE: 20}, 2},
		{"NPM 11", model.FundamentalSnapshot{NPM: 11}, 1},
		{"yield 3.5", model.FundamentalSnapshot{DividendYield: 3.5}, 2},
		{"mixed", model.FundamentalSnapshot{PER: 18, PBV: 2.5, ROE: 16, NPM: 5, DividendYield: 1.5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := tt.snap
			assert.Equal(t, tt.score, ScoreValuation(&snap).Score)
		})
	}
}

func TestDescribe(t *testing.T) {
	vs := ScoreValuation(&model.FundamentalSnapshot{PER: 12})
	assert.Contains(t, Describe(vs.Contributions), "PER 12.0 (+3)")
}

func TestScoreRisk_Cap(t *testing.T) {
	rs := ScoreRisk(&model.FundamentalSnapshot{
		Ticker: "GOTO.JK", Beta: 2, PER: 40, DebtEquityRatio: 3, MarketCap: 1e11,
	}, 8)
	assert.Equal(t, MaxRiskScore, rs.Score)
	assert.Equal(t, "GOTO.JK", rs.Ticker)
}

func TestScoreRisk_Defaults(t *testing.T) {
	// provider defaults: beta 1.0, PER 15, D/E 0.5, market cap 1e12
	rs := ScoreRisk(&model.FundamentalSnapshot{Beta: 1.0, PER: 15, DebtEquityRatio: 0.5, MarketCap: 1e12}, 0.5)
	assert.Equal(t, 1, rs.Score)
}

func TestScoreRisk_NegativeVolatilityUsesMagnitude(t *testing.T) {
	assert.Equal(t, 3, ScoreRisk(nil, -6).Score)
	assert.Equal(t, 2, ScoreRisk(nil, 4).Score)
	assert.Equal(t, 0, ScoreRisk(nil, 1).Score)
}

func TestScoreRisk_Monotonic(t *testing.T) {
	base := model.FundamentalSnapshot{Beta: 1.1, PER: 21, DebtEquityRatio: 1.2, MarketCap: 3e12}
	prev := ScoreRisk(&base, 2).Score

	worse := []func(s *model.FundamentalSnapshot){
		func(s *model.FundamentalSnapshot) { s.Beta = 1.6 },
		func(s *model.FundamentalSnapshot) { s.PER = 30 },
		func(s *model.FundamentalSnapshot) { s.DebtEquityRatio = 2.5 },
		func(s *model.FundamentalSnapshot) { s.MarketCap = 1e11 },
	}
	for _, w := range worse {
		w(&base)
		cur := ScoreRisk(&base, 2).Score
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.GreaterOrEqual(t, ScoreRisk(&base, 6).Score, prev)
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		score float64
		band  model.RiskBand
	}{
		{0, model.RiskLow},
		{2.99, model.RiskLow},
		{3, model.RiskMedium},
		{5.9, model.RiskMedium},
		{6, model.RiskHigh},
		{7.99, model.RiskHigh},
		{8, model.RiskVeryHigh},
		{10, model.RiskVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, ClassifyRisk(tt.score), "score %.2f", tt.score)
	}
}

func TestPortfolioRisk(t *testing.T) {
	scores := []model.RiskScore{{Ticker: "A", Score: 2}, {Ticker: "B", Score: 8}}
	pr := PortfolioRisk(scores, []float64{300, 100})
	assert.InDelta(t, 3.5, pr.Score, 1e-12)
	assert.Equal(t, model.RiskMedium, pr.Band)

	zero := PortfolioRisk(scores, []float64{0, 0})
	assert.Equal(t, 0.0, zero.Score)
	assert.Equal(t, model.RiskLow, zero.Band)
}

func TestScreenUndervalued(t *testing.T) {
	snaps := []model.FundamentalSnapshot{
		{Ticker: "SMALL", MarketCap: 5e11, PER: 5, PBV: 0.5, ROE: 30, NPM: 30, DividendYield: 8},
		{Ticker: "MID", MarketCap: 2e12, PER: 12, PBV: 1.2, ROE: 16, NPM: 5},
		{Ticker: "TOP", MarketCap: 3e12, PER: 8, PBV: 0.9, ROE: 22, NPM: 25, DividendYield: 4},
		{Ticker: "WEAK", MarketCap: 9e12, PER: 30},
		{Ticker: "TIE", MarketCap: 2e12, PER: 14, PBV: 1.1, ROE: 18, DividendYield: 2},
	}
	results := ScreenUndervalued(snaps, DefaultScreenOptions)
	require.Len(t, results, 2)
	assert.Equal(t, "TOP", results[0].Snapshot.Ticker)
	assert.Equal(t, 14, results[0].Valuation.Score)
	assert.Equal(t, "TIE", results[1].Snapshot.Ticker)
}

func TestCompareRow(t *testing.T) {
	snap := &model.FundamentalSnapshot{CompanyName: "Bank Rakyat", Price: 4550, PER: 10, PBV: 2, ROE: 19, RevenueGrowth: 8.7, DividendYield: 6.1}
	row := CompareRow("BBRI.JK", snap, 4500, model.SidePortfolio)
	assert.Equal(t, "Bank Rakyat", row.CompanyName)
	assert.Equal(t, 4550.0, row.Price)
	assert.InDelta(t, 11.0, row.IndustryPER, 1e-9)
	assert.InDelta(t, 2.3, row.IndustryPBV, 1e-9)
	assert.Equal(t, model.SidePortfolio, row.Side)

	snap.IndustryPER = 14
	snap.Price = 0
	row = CompareRow("BBRI.JK", snap, 4500, model.SideMarket)
	assert.Equal(t, 14.0, row.IndustryPER)
	assert.Equal(t, 4500.0, row.Price)

	bare := CompareRow("ZZZ.JK", nil, 0, model.SideMarket)
	assert.Equal(t, "ZZZ.JK", bare.CompanyName)
	assert.Zero(t, bare.PER)
	assert.Zero(t, bare.Price)
}
