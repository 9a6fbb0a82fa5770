package model

import "github.com/shopspring/decimal"

// Candidate is a ticker eligible for new investment.
type Candidate struct {
	Ticker       string
	Score        int
	CurrentPrice decimal.Decimal
	CurrentLots  int64
}

// AllocationEntry is the planned purchase for one candidate.
type AllocationEntry struct {
	Ticker               string          `json:"ticker"`
	Score                int             `json:"score"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	CurrentLots          int64           `json:"current_lots"`
	Weight               float64         `json:"weight"`
	AllocatedCash        decimal.Decimal `json:"allocated_cash"`
	BaseShares           int64           `json:"base_shares"`
	RemainderShares      int64           `json:"remainder_shares"`
	AdditionalShares     int64           `json:"additional_shares"`
	AdditionalInvestment decimal.Decimal `json:"additional_investment"`
	NewShares            int64           `json:"new_shares"`
	NewValue             decimal.Decimal `json:"new_value"`
}

// AllocationPlan is the full result of one allocation simulation.
type AllocationPlan struct {
	Budget          decimal.Decimal   `json:"budget"`
	Entries         []AllocationEntry `json:"entries"`
	Recommendations []AllocationEntry `json:"recommendations"`
	TotalInvestment decimal.Decimal   `json:"total_investment"`
	Remaining       decimal.Decimal   `json:"remaining"`
	CurrentValue    decimal.Decimal   `json:"current_value"`
	NewValue        decimal.Decimal   `json:"new_value"`
	ValueChangePct  float64           `json:"value_change_pct"`
}
