package usecase

import (
	"context"
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// ShowHistoryInput contains the parameters for listing past sessions.
type ShowHistoryInput struct {
	Limit int // Most recent N sessions (0 = all)
}

// ShowHistoryOutput contains the session records, newest last.
type ShowHistoryOutput struct {
	Sessions []domain.SessionRecord
}

// ShowHistory lists persisted session records.
type ShowHistory struct {
	sessions domain.SessionStore
}

// NewShowHistory creates a new ShowHistory use case.
func NewShowHistory(sessions domain.SessionStore) *ShowHistory {
	return &ShowHistory{sessions: sessions}
}

// Execute reads the session store.
func (uc *ShowHistory) Execute(_ context.Context, in ShowHistoryInput) (*ShowHistoryOutput, error) {
	records, err := uc.sessions.List()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if in.Limit > 0 && len(records) > in.Limit {
		records = records[len(records)-in.Limit:]
	}
	return &ShowHistoryOutput{Sessions: records}, nil
}
