package recorder

import "PortfolioSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPortfolio(_ *PortfolioSnapshot) (string, error) { return "", nil }
func (n *NoopRecorder) RecordPlan(_ *model.AllocationPlan) (string, error)   { return "", nil }
func (n *NoopRecorder) RecordRisk(_ *model.PortfolioRisk) (string, error)    { return "", nil }
func (n *NoopRecorder) RecordIndicators(_ *model.Indicators) (string, error) { return "", nil }
func (n *NoopRecorder) RecentRuns(_ string, _ int) ([]Run, error)            { return nil, nil }
func (n *NoopRecorder) Close() error                                         { return nil }
