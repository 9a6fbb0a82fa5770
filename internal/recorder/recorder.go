package recorder

import (
	"time"

	"PortfolioSentinel/internal/model"
)

// Run kinds stored in analysis_runs.kind.
const (
	KindPortfolio  = "PORTFOLIO"
	KindPlan       = "PLAN"
	KindRisk       = "RISK"
	KindIndicators = "INDICATORS"
)

// PortfolioSnapshot holds one valuation of the portfolio.
type PortfolioSnapshot struct {
	Positions []model.EnrichedPosition
	Summary   model.DCASummary
}

// Run is one recorded analysis pass.
type Run struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Timestamp int64     `db:"timestamp"`
	Headline  float64   `db:"headline"` // value, investment or risk score depending on kind
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"-"`
}

// Recorder persists historical analysis data. Record methods return the run ID.
type Recorder interface {
	RecordPortfolio(snap *PortfolioSnapshot) (string, error)
	RecordPlan(plan *model.AllocationPlan) (string, error)
	RecordRisk(risk *model.PortfolioRisk) (string, error)
	RecordIndicators(ind *model.Indicators) (string, error)
	RecentRuns(kind string, limit int) ([]Run, error)
	Close() error
}
