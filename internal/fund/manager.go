package fund

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

// Manager keeps the capital ledger with concurrency safety and persists it on
// every change.
type Manager struct {
	mu       sync.Mutex
	state    *model.LedgerState
	filePath string
	now      func() time.Time
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{state: state, filePath: filePath, now: time.Now}, nil
}

// Record appends a buy or sell to the ledger. Sales are stored with a negative amount.
func (m *Manager) Record(date time.Time, ticker string, action model.TradeAction, shares int64, price decimal.Decimal) (model.Transaction, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case ticker == "":
		return model.Transaction{}, fmt.Errorf("%w: ticker is required", ErrInvalidTransaction)
	case action != model.ActionBuy && action != model.ActionSell:
		return model.Transaction{}, fmt.Errorf("%w: unknown action %q", ErrInvalidTransaction, action)
	case shares < 1:
		return model.Transaction{}, fmt.Errorf("%w: shares must be at least 1", ErrInvalidTransaction)
	case !price.IsPositive():
		return model.Transaction{}, fmt.Errorf("%w: price must be positive", ErrInvalidTransaction)
	}
	if date.IsZero() {
		date = m.now()
	}

	amount := price.Mul(decimal.NewFromInt(shares))
	if action == model.ActionSell {
		amount = amount.Neg()
	}
	tx := model.Transaction{Date: date, Ticker: ticker, Action: action, Shares: shares, Price: price, Amount: amount}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Transactions = append(m.state.Transactions, tx)
	if err := m.save(); err != nil {
		m.state.Transactions = m.state.Transactions[:len(m.state.Transactions)-1]
		log.Error().Err(err).Msg("failed to save ledger state")
		return tx, err
	}
	log.Info().Str("ticker", ticker).Str("action", string(action)).Int64("shares", shares).Str("amount", amount.String()).Msg("ledger transaction recorded")
	return tx, nil
}

// Transactions returns a copy of the recorded transactions in insertion order.
func (m *Manager) Transactions() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Transaction, len(m.state.Transactions))
	copy(out, m.state.Transactions)
	return out
}

// Summary totals the ledger.
func (m *Manager) Summary() model.LedgerSummary {
	return Summarize(m.Transactions())
}

// Summarize computes purchases, sales, net cashflow and the running balance.
func Summarize(txs []model.Transaction) model.LedgerSummary {
	s := model.LedgerSummary{
		TotalPurchases: decimal.Zero,
		TotalSales:     decimal.Zero,
		NetCashflow:    decimal.Zero,
		Count:          len(txs),
	}
	for _, tx := range txs {
		switch tx.Action {
		case model.ActionBuy:
			s.TotalPurchases = s.TotalPurchases.Add(tx.Amount)
		case model.ActionSell:
			s.TotalSales = s.TotalSales.Add(tx.Amount.Abs())
		}
		s.NetCashflow = s.NetCashflow.Add(tx.Amount)
		s.Cumulative = append(s.Cumulative, s.NetCashflow)
	}
	return s
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
