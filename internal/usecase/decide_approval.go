package usecase

import (
	"context"
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// DecideApprovalInput contains the parameters for recording a decision on
// a pending approval artifact.
// Fields are ordered to minimize memory padding.
type DecideApprovalInput struct {
	Checkpoint domain.Checkpoint // Empty = the task's single pending checkpoint
	Decision   domain.ApprovalDecision
	Message    string
	TaskID     int
}

// DecideApproval records an approve/reject/skip decision so a waiting
// loop can pick it up on its next poll.
type DecideApproval struct {
	approvals domain.ApprovalStore
	clock     domain.Clock
}

// NewDecideApproval creates a new DecideApproval use case.
func NewDecideApproval(approvals domain.ApprovalStore, clock domain.Clock) *DecideApproval {
	return &DecideApproval{approvals: approvals, clock: clock}
}

// Execute records the decision. When no checkpoint is named, the task
// must have exactly one pending artifact.
func (uc *DecideApproval) Execute(_ context.Context, in DecideApprovalInput) error {
	if !in.Decision.Terminal() {
		return fmt.Errorf("decision %q: %w", in.Decision, domain.ErrInvalidAction)
	}

	checkpoint := in.Checkpoint
	if checkpoint == "" {
		pending, err := uc.approvals.ListPending()
		if err != nil {
			return fmt.Errorf("list pending approvals: %w", err)
		}
		for _, a := range pending {
			if a.TaskID != in.TaskID {
				continue
			}
			if checkpoint != "" {
				return fmt.Errorf("task #%d has multiple pending checkpoints, name one", in.TaskID)
			}
			checkpoint = a.Checkpoint
		}
		if checkpoint == "" {
			return fmt.Errorf("task #%d: %w", in.TaskID, domain.ErrArtifactNotFound)
		}
	}

	if err := uc.approvals.Decide(in.TaskID, checkpoint, in.Decision, in.Message); err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// ListPendingApprovals returns all artifacts awaiting a decision.
type ListPendingApprovals struct {
	approvals domain.ApprovalStore
}

// NewListPendingApprovals creates a new ListPendingApprovals use case.
func NewListPendingApprovals(approvals domain.ApprovalStore) *ListPendingApprovals {
	return &ListPendingApprovals{approvals: approvals}
}

// Execute returns the pending artifacts.
func (uc *ListPendingApprovals) Execute(_ context.Context) ([]domain.ApprovalArtifact, error) {
	return uc.approvals.ListPending()
}
