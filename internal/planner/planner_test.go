package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func candidate(ticker string, score int, price float64, lots int64) model.Candidate {
	return model.Candidate{Ticker: ticker, Score: score, CurrentPrice: dec(price), CurrentLots: lots}
}

func TestPlanAllocation_ScoreWeightedLots(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("BBRI.JK", 5, 2000, 0),
		candidate("BBCA.JK", 10, 1000, 0),
	}, dec(500000))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	first, second := plan.Entries[0], plan.Entries[1]
	assert.Equal(t, "BBCA.JK", first.Ticker)
	assert.Equal(t, "333333.33", first.AllocatedCash.StringFixed(2))
	assert.Equal(t, "166666.67", second.AllocatedCash.StringFixed(2))
	assert.Equal(t, int64(333), first.BaseShares)
	assert.Equal(t, int64(1), first.RemainderShares)
	assert.Equal(t, int64(334), first.AdditionalShares)
	assert.True(t, first.AdditionalInvestment.Equal(dec(334000)))
	assert.Equal(t, int64(83), second.AdditionalShares)
	assert.Equal(t, int64(0), second.RemainderShares)
	assert.True(t, second.AdditionalInvestment.Equal(dec(166000)))

	assert.True(t, plan.TotalInvestment.Equal(dec(500000)))
	assert.True(t, plan.Remaining.IsZero())
	require.Len(t, plan.Recommendations, 2)
	assert.Equal(t, "BBCA.JK", plan.Recommendations[0].Ticker)
}

func TestPlanAllocation_WeightsSumToOne(t *testing.T) {
	cases := [][]model.Candidate{
		{candidate("A", 3, 100, 0), candidate("B", 7, 50, 0), candidate("C", 11, 10, 0)},
		{candidate("A", 0, 100, 0), candidate("B", 0, 50, 0), candidate("C", 0, 10, 0)},
		{candidate("A", 0, 100, 0), candidate("B", 4, 50, 0)},
	}
	for _, cands := range cases {
		plan, err := PlanAllocation(cands, dec(12345))
		require.NoError(t, err)
		sum := 0.0
		for _, e := range plan.Entries {
			sum += e.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestPlanAllocation_EqualSplitWhenAllScoresZero(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("A", 0, 100, 0),
		candidate("B", 0, 100, 0),
	}, dec(1000))
	require.NoError(t, err)
	for _, e := range plan.Entries {
		assert.InDelta(t, 0.5, e.Weight, 1e-12)
		assert.True(t, e.AllocatedCash.Equal(dec(500)))
		assert.Equal(t, int64(5), e.AdditionalShares)
	}
}

func TestPlanAllocation_BasePassWithinAllocation(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("A", 9, 1234, 0),
		candidate("B", 4, 777, 0),
		candidate("C", 2, 5000, 0),
	}, dec(98765))
	require.NoError(t, err)
	for _, e := range plan.Entries {
		base := e.CurrentPrice.Mul(decimal.NewFromInt(e.BaseShares))
		assert.True(t, base.LessThanOrEqual(e.AllocatedCash), "%s base %s > %s", e.Ticker, base, e.AllocatedCash)
	}
	assert.False(t, plan.Remaining.IsNegative())
}

func TestPlanAllocation_RemainderCanExceedAllocation(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("CHEAP", 1, 10, 0),
		candidate("PRICEY", 1, 1000000, 0),
	}, dec(1500000))
	require.NoError(t, err)

	cheap := plan.Entries[0]
	assert.Equal(t, int64(75000), cheap.BaseShares)
	assert.Equal(t, int64(75000), cheap.RemainderShares)
	assert.True(t, cheap.AdditionalInvestment.GreaterThan(cheap.AllocatedCash))
	assert.Equal(t, int64(0), plan.Entries[1].AdditionalShares)
	assert.True(t, plan.Remaining.IsZero())
}

func TestPlanAllocation_RemainderSweepStopsAtFirstFit(t *testing.T) {
	// A absorbs the leftover; C would still fit afterwards but is never reached
	plan, err := PlanAllocation([]model.Candidate{
		candidate("C", 0, 3, 0),
		candidate("B", 1, 100, 0),
		candidate("A", 2, 40, 0),
	}, dec(150))
	require.NoError(t, err)
	require.Equal(t, "A", plan.Entries[0].Ticker)
	assert.Equal(t, int64(2), plan.Entries[0].BaseShares)
	assert.Equal(t, int64(1), plan.Entries[0].RemainderShares)
	assert.Equal(t, int64(0), plan.Entries[1].AdditionalShares)
	assert.Equal(t, "C", plan.Entries[2].Ticker)
	assert.Equal(t, int64(0), plan.Entries[2].AdditionalShares)
	assert.True(t, plan.Remaining.Equal(dec(30)))
}

func TestPlanAllocation_BudgetBelowEveryPrice(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("A", 5, 1000, 2),
		candidate("B", 3, 2000, 0),
	}, dec(500))
	require.NoError(t, err)
	for _, e := range plan.Entries {
		assert.Equal(t, int64(0), e.AdditionalShares)
	}
	assert.Empty(t, plan.Recommendations)
	assert.True(t, plan.Remaining.Equal(dec(500)))
	assert.Equal(t, 0.0, plan.ValueChangePct)
}

func TestPlanAllocation_NonPositivePrice(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("ZERO", 10, 0, 0),
		candidate("OK", 10, 100, 0),
	}, dec(1000))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, plan.Entries[0].Weight, 1e-12)
	assert.Equal(t, int64(0), plan.Entries[0].AdditionalShares)
	assert.Equal(t, int64(10), plan.Entries[1].AdditionalShares)
}

func TestPlanAllocation_ValueChange(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{candidate("A", 1, 100, 10)}, dec(1000))
	require.NoError(t, err)
	assert.Equal(t, int64(20), plan.Entries[0].NewShares)
	assert.True(t, plan.CurrentValue.Equal(dec(1000)))
	assert.True(t, plan.NewValue.Equal(dec(2000)))
	assert.InDelta(t, 100.0, plan.ValueChangePct, 1e-9)
}

func TestPlanAllocation_StableTies(t *testing.T) {
	plan, err := PlanAllocation([]model.Candidate{
		candidate("FIRST", 5, 10, 0),
		candidate("SECOND", 5, 10, 0),
		candidate("TOP", 8, 10, 0),
	}, dec(100))
	require.NoError(t, err)
	assert.Equal(t, "TOP", plan.Entries[0].Ticker)
	assert.Equal(t, "FIRST", plan.Entries[1].Ticker)
	assert.Equal(t, "SECOND", plan.Entries[2].Ticker)
}

func TestPlanAllocation_InvalidInput(t *testing.T) {
	_, err := PlanAllocation([]model.Candidate{candidate("A", 1, 10, 0)}, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidBudget)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PlanAllocation(nil, dec(100))
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
