package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeAction is the side of a ledger transaction.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Transaction is one capital movement recorded in the ledger.
// Amount is positive for purchases and negative for sales.
type Transaction struct {
	Date   time.Time       `json:"date"`
	Ticker string          `json:"ticker"`
	Action TradeAction     `json:"action"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// LedgerState is the persisted capital-tracking ledger.
type LedgerState struct {
	Transactions []Transaction `json:"transactions"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// LedgerSummary aggregates the ledger.
type LedgerSummary struct {
	TotalPurchases decimal.Decimal   `json:"total_purchases"`
	TotalSales     decimal.Decimal   `json:"total_sales"`
	NetCashflow    decimal.Decimal   `json:"net_cashflow"`
	Cumulative     []decimal.Decimal `json:"cumulative"`
	Count          int               `json:"count"`
}
