package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"

	"PortfolioSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sqlx.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id        TEXT PRIMARY KEY,
			kind      TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			headline  REAL,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind_ts ON analysis_runs(kind, timestamp)`,

		`CREATE TABLE IF NOT EXISTS position_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL REFERENCES analysis_runs(id),
			ticker          TEXT NOT NULL,
			lots            INTEGER,
			avg_price       TEXT,
			current_price   TEXT,
			price_source    TEXT,
			current_value   TEXT,
			profit_loss     TEXT,
			profit_loss_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_run ON position_snapshots(run_id)`,

		`CREATE TABLE IF NOT EXISTS allocation_entries (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id                TEXT NOT NULL REFERENCES analysis_runs(id),
			ticker                TEXT NOT NULL,
			score                 INTEGER,
			weight                REAL,
			current_price         TEXT,
			allocated_cash        TEXT,
			additional_shares     INTEGER,
			additional_investment TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alloc_run ON allocation_entries(run_id)`,

		`CREATE TABLE IF NOT EXISTS risk_scores (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES analysis_runs(id),
			ticker     TEXT NOT NULL,
			score      INTEGER,
			volatility REAL
		)`,

		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL REFERENCES analysis_runs(id),
			ticker         TEXT NOT NULL,
			last_close     REAL,
			ma20           REAL,
			ma50           REAL,
			rsi            REAL,
			macd           REAL,
			signal         REAL,
			trend          TEXT,
			forecast_price REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// insertRun writes the run header and lets fill add its detail rows in the
// same transaction.
func (r *SQLiteRecorder) insertRun(kind string, headline float64, note string, fill func(tx *sqlx.Tx, runID string) error) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := Run{ID: uuid.NewString(), Kind: kind, Timestamp: r.now().Unix(), Headline: headline, Note: note}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.NamedExec(`INSERT INTO analysis_runs (id, kind, timestamp, headline, note)
		VALUES (:id, :kind, :timestamp, :headline, :note)`, &run); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("insert run: %w", err)
	}
	if err := fill(tx, run.ID); err != nil {
		tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

func (r *SQLiteRecorder) RecordPortfolio(snap *PortfolioSnapshot) (string, error) {
	value := snap.Summary.TotalCurrentValue.InexactFloat64()
	note := fmt.Sprintf("%d positions, profit %s", len(snap.Positions), snap.Summary.TotalProfit.StringFixed(0))
	return r.insertRun(KindPortfolio, value, note, func(tx *sqlx.Tx, runID string) error {
		for _, p := range snap.Positions {
			_, err := tx.Exec(`INSERT INTO position_snapshots
				(run_id, ticker, lots, avg_price, current_price, price_source, current_value, profit_loss, profit_loss_pct)
				VALUES (?,?,?,?,?,?,?,?,?)`,
				runID, p.Ticker, p.Lots, p.AvgPrice.String(), p.CurrentPrice.String(), string(p.PriceSource),
				p.CurrentValue.String(), p.ProfitLoss.String(), p.ProfitLossPct,
			)
			if err != nil {
				return fmt.Errorf("insert position %s: %w", p.Ticker, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRecorder) RecordPlan(plan *model.AllocationPlan) (string, error) {
	note := fmt.Sprintf("budget %s, remaining %s", plan.Budget.StringFixed(0), plan.Remaining.StringFixed(0))
	return r.insertRun(KindPlan, plan.TotalInvestment.InexactFloat64(), note, func(tx *sqlx.Tx, runID string) error {
		for _, e := range plan.Entries {
			_, err := tx.Exec(`INSERT INTO allocation_entries
				(run_id, ticker, score, weight, current_price, allocated_cash, additional_shares, additional_investment)
				VALUES (?,?,?,?,?,?,?,?)`,
				runID, e.Ticker, e.Score, e.Weight, e.CurrentPrice.String(), e.AllocatedCash.String(),
				e.AdditionalShares, e.AdditionalInvestment.String(),
			)
			if err != nil {
				return fmt.Errorf("insert allocation %s: %w", e.Ticker, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRecorder) RecordRisk(risk *model.PortfolioRisk) (string, error) {
	return r.insertRun(KindRisk, risk.Score, string(risk.Band), func(tx *sqlx.Tx, runID string) error {
		for _, s := range risk.Stocks {
			if _, err := tx.Exec(`INSERT INTO risk_scores (run_id, ticker, score, volatility) VALUES (?,?,?,?)`,
				runID, s.Ticker, s.Score, s.Volatility); err != nil {
				return fmt.Errorf("insert risk %s: %w", s.Ticker, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRecorder) RecordIndicators(ind *model.Indicators) (string, error) {
	return r.insertRun(KindIndicators, ind.LastClose, ind.Ticker, func(tx *sqlx.Tx, runID string) error {
		_, err := tx.Exec(`INSERT INTO indicator_snapshots
			(run_id, ticker, last_close, ma20, ma50, rsi, macd, signal, trend, forecast_price)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID, ind.Ticker, ind.LastClose, nullable(ind.LastMA20), nullable(ind.LastMA50), nullable(ind.LastRSI),
			nullable(ind.LastMACD), nullable(ind.LastSignal), string(ind.Trend), ind.ForecastPrice,
		)
		if err != nil {
			return fmt.Errorf("insert indicators %s: %w", ind.Ticker, err)
		}
		return nil
	})
}

// nullable maps an undefined indicator to SQL NULL.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// RecentRuns returns the latest runs of a kind, newest first. An empty kind
// matches every run.
func (r *SQLiteRecorder) RecentRuns(kind string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []Run
	var err error
	if kind == "" {
		err = r.db.Select(&runs, `SELECT id, kind, timestamp, headline, note FROM analysis_runs
			ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	} else {
		err = r.db.Select(&runs, `SELECT id, kind, timestamp, headline, note FROM analysis_runs
			WHERE kind = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?`, kind, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	for i := range runs {
		runs[i].CreatedAt = time.Unix(runs[i].Timestamp, 0)
	}
	return runs, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
