package usecase

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Snapshot is a point-in-time export of the persisted state: session
// history, task metrics, and pending approvals.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Sessions  []domain.SessionRecord    `yaml:"sessions"`
	Metrics   []domain.TaskOutcome      `yaml:"metrics"`
	Approvals []domain.ApprovalArtifact `yaml:"approvals,omitempty"`
}

// ExportSnapshot writes the current persisted state as YAML.
type ExportSnapshot struct {
	sessions  domain.SessionStore
	metrics   domain.MetricsStore
	approvals domain.ApprovalStore
}

// NewExportSnapshot creates a new ExportSnapshot use case.
func NewExportSnapshot(sessions domain.SessionStore, metrics domain.MetricsStore, approvals domain.ApprovalStore) *ExportSnapshot {
	return &ExportSnapshot{sessions: sessions, metrics: metrics, approvals: approvals}
}

// Execute serializes the state to w.
func (uc *ExportSnapshot) Execute(_ context.Context, w io.Writer) error {
	sessions, err := uc.sessions.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	metrics, err := uc.metrics.List()
	if err != nil {
		return fmt.Errorf("list task metrics: %w", err)
	}
	pending, err := uc.approvals.ListPending()
	if err != nil {
		return fmt.Errorf("list pending approvals: %w", err)
	}

	snap := Snapshot{Sessions: sessions, Metrics: metrics, Approvals: pending}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ImportSnapshot restores exported state into the stores. Session records
// and pending approvals are upserted; metrics are appended.
type ImportSnapshot struct {
	sessions  domain.SessionStore
	metrics   domain.MetricsStore
	approvals domain.ApprovalStore
}

// NewImportSnapshot creates a new ImportSnapshot use case.
func NewImportSnapshot(sessions domain.SessionStore, metrics domain.MetricsStore, approvals domain.ApprovalStore) *ImportSnapshot {
	return &ImportSnapshot{sessions: sessions, metrics: metrics, approvals: approvals}
}

// Execute reads a YAML snapshot from r and writes it into the stores.
func (uc *ImportSnapshot) Execute(_ context.Context, r io.Reader) error {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	for _, rec := range snap.Sessions {
		if err := uc.sessions.Put(rec); err != nil {
			return fmt.Errorf("restore session %s: %w", rec.ID, err)
		}
	}
	for _, outcome := range snap.Metrics {
		if err := uc.metrics.Append(outcome); err != nil {
			return fmt.Errorf("restore metrics for #%d: %w", outcome.TaskID, err)
		}
	}
	for _, artifact := range snap.Approvals {
		if err := uc.approvals.CreatePending(artifact); err != nil {
			return fmt.Errorf("restore approval for #%d: %w", artifact.TaskID, err)
		}
	}
	return nil
}
