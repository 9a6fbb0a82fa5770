package planner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

var (
	ErrInvalidInput  = errors.New("invalid allocation input")
	ErrInvalidBudget = fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	ErrNoCandidates  = fmt.Errorf("%w: no candidates", ErrInvalidInput)
)

// PlanAllocation splits budget across candidates in proportion to their
// scores and converts each share of cash into whole shares. Cash left after
// the proportional pass goes to the first candidate, in score order, whose
// price still fits. Candidates with a non-positive price get a weight but
// never shares.
func PlanAllocation(candidates []model.Candidate, budget decimal.Decimal) (*model.AllocationPlan, error) {
	if !budget.IsPositive() {
		return nil, ErrInvalidBudget
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	ranked := make([]model.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	totalScore := 0
	for _, c := range ranked {
		if c.Score > 0 {
			totalScore += c.Score
		}
	}
	n := decimal.NewFromInt(int64(len(ranked)))

	plan := &model.AllocationPlan{Budget: budget}
	spent := decimal.Zero
	for _, c := range ranked {
		e := model.AllocationEntry{
			Ticker:       c.Ticker,
			Score:        c.Score,
			CurrentPrice: c.CurrentPrice,
			CurrentLots:  c.CurrentLots,
		}
		if totalScore > 0 {
			score := max(c.Score, 0)
			e.Weight = float64(score) / float64(totalScore)
			e.AllocatedCash = budget.Mul(decimal.NewFromInt(int64(score))).Div(decimal.NewFromInt(int64(totalScore)))
		} else {
			e.Weight = 1.0 / float64(len(ranked))
			e.AllocatedCash = budget.Div(n)
		}
		if c.CurrentPrice.IsPositive() {
			e.BaseShares = e.AllocatedCash.Div(c.CurrentPrice).Floor().IntPart()
		}
		e.AdditionalShares = e.BaseShares
		e.AdditionalInvestment = c.CurrentPrice.Mul(decimal.NewFromInt(e.BaseShares))
		spent = spent.Add(e.AdditionalInvestment)
		plan.Entries = append(plan.Entries, e)
	}

	remaining := budget.Sub(spent)
	if remaining.IsPositive() {
		for i := range plan.Entries {
			e := &plan.Entries[i]
			if !e.CurrentPrice.IsPositive() || e.CurrentPrice.GreaterThan(remaining) {
				continue
			}
			extra := remaining.Div(e.CurrentPrice).Floor().IntPart()
			cost := e.CurrentPrice.Mul(decimal.NewFromInt(extra))
			e.RemainderShares = extra
			e.AdditionalShares += extra
			e.AdditionalInvestment = e.AdditionalInvestment.Add(cost)
			remaining = remaining.Sub(cost)
			break
		}
	}

	finalize(plan, remaining)
	return plan, nil
}

func finalize(plan *model.AllocationPlan, remaining decimal.Decimal) {
	plan.Remaining = remaining
	plan.TotalInvestment = decimal.Zero
	plan.CurrentValue = decimal.Zero
	plan.NewValue = decimal.Zero
	for i := range plan.Entries {
		e := &plan.Entries[i]
		e.NewShares = e.CurrentLots + e.AdditionalShares
		e.NewValue = e.CurrentPrice.Mul(decimal.NewFromInt(e.NewShares))
		plan.TotalInvestment = plan.TotalInvestment.Add(e.AdditionalInvestment)
		plan.CurrentValue = plan.CurrentValue.Add(e.CurrentPrice.Mul(decimal.NewFromInt(e.CurrentLots)))
		plan.NewValue = plan.NewValue.Add(e.NewValue)
		if e.AdditionalInvestment.IsPositive() {
			plan.Recommendations = append(plan.Recommendations, *e)
		}
	}
	sort.SliceStable(plan.Recommendations, func(i, j int) bool {
		return plan.Recommendations[i].AdditionalInvestment.GreaterThan(plan.Recommendations[j].AdditionalInvestment)
	})
	if plan.CurrentValue.IsPositive() {
		plan.ValueChangePct = plan.NewValue.Sub(plan.CurrentValue).Div(plan.CurrentValue).InexactFloat64() * 100
	}
}
