package usecase

import (
	"context"
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// StatsOutput aggregates every persisted session.
// Fields are ordered to minimize memory padding.
type StatsOutput struct {
	Totals   domain.SessionSummary // Aggregate over all recorded task outcomes
	Sessions int                   // Number of recorded sessions
}

// ShowStats aggregates all persisted outcomes into one summary. It reads
// the task-metrics store, which holds every outcome ever recorded, and
// the session store for the run count.
type ShowStats struct {
	sessions domain.SessionStore
	metrics  domain.MetricsStore
}

// NewShowStats creates a new ShowStats use case.
func NewShowStats(sessions domain.SessionStore, metrics domain.MetricsStore) *ShowStats {
	return &ShowStats{sessions: sessions, metrics: metrics}
}

// Execute computes the aggregate statistics.
func (uc *ShowStats) Execute(_ context.Context) (*StatsOutput, error) {
	outcomes, err := uc.metrics.List()
	if err != nil {
		return nil, fmt.Errorf("list task metrics: %w", err)
	}
	records, err := uc.sessions.List()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return &StatsOutput{
		Totals:   domain.Summarize(outcomes),
		Sessions: len(records),
	}, nil
}
