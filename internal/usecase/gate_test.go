package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

func interactiveApproval() domain.ApprovalConfig {
	cfg := domain.NewDefaultConfig().Approval
	cfg.Interactive = true
	return cfg
}

func TestApprovalGate_Wait_DisabledReturnsApproved(t *testing.T) {
	cfg := domain.NewDefaultConfig().Approval // Interactive defaults to off
	store := newMockApprovalStore()
	gate := NewApprovalGate(store, &instantWaiter{}, newMockClock(), nopLogger{}, &bytes.Buffer{}, cfg)

	res, err := gate.Wait(context.Background(), &domain.Task{ID: 1}, domain.CheckpointPreTask, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionApproved, res.Decision)
	assert.Zero(t, store.created)
}

func TestApprovalGate_Wait_DisabledCheckpoint(t *testing.T) {
	cfg := interactiveApproval() // phase1 is off by default
	store := newMockApprovalStore()
	gate := NewApprovalGate(store, &instantWaiter{}, newMockClock(), nopLogger{}, &bytes.Buffer{}, cfg)

	res, err := gate.Wait(context.Background(), &domain.Task{ID: 1}, domain.CheckpointPhase1, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionApproved, res.Decision)
	assert.Zero(t, store.created)
}

func TestApprovalGate_Wait_Approved(t *testing.T) {
	cfg := interactiveApproval()
	store := newMockApprovalStore()
	waiter := &decideAfterWaiter{
		store:    store,
		decision: domain.DecisionApproved,
		cp:       domain.CheckpointPreTask,
		taskID:   1,
		after:    2,
	}
	out := &bytes.Buffer{}
	gate := NewApprovalGate(store, waiter, newMockClock(), nopLogger{}, out, cfg)

	res, err := gate.Wait(context.Background(), &domain.Task{ID: 1, Title: "fix login"}, domain.CheckpointPreTask, "labels: high")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionApproved, res.Decision)
	assert.Equal(t, 1, store.created)
	// Consumed decisions leave no artifact behind.
	assert.Equal(t, 1, store.deleted)
	assert.Contains(t, out.String(), "fix login")
	assert.Contains(t, out.String(), "pre_task")
}

func TestApprovalGate_Wait_RejectedWithMessage(t *testing.T) {
	cfg := interactiveApproval()
	store := newMockApprovalStore()
	waiter := &decideAfterWaiter{
		store:    store,
		decision: domain.DecisionRejected,
		message:  "wrong approach",
		cp:       domain.CheckpointPreTask,
		taskID:   1,
		after:    1,
	}
	gate := NewApprovalGate(store, waiter, newMockClock(), nopLogger{}, &bytes.Buffer{}, cfg)

	res, err := gate.Wait(context.Background(), &domain.Task{ID: 1}, domain.CheckpointPreTask, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, res.Decision)
	assert.Equal(t, "wrong approach", res.Message)
}

func TestApprovalGate_Wait_Timeout(t *testing.T) {
	cfg := interactiveApproval()
	cfg.TimeoutSeconds = 60
	clock := newMockClock()
	store := newMockApprovalStore()
	waiter := &instantWaiter{clock: clock, advance: 30 * time.Second}
	gate := NewApprovalGate(store, waiter, clock, nopLogger{}, &bytes.Buffer{}, cfg)

	res, err := gate.Wait(context.Background(), &domain.Task{ID: 1}, domain.CheckpointPreTask, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DecisionTimedOut, res.Decision)
	assert.Equal(t, 1, store.deleted)
}

func TestApprovalGate_Wait_InterruptLeavesArtifact(t *testing.T) {
	cfg := interactiveApproval()
	ctx, cancel := context.WithCancel(context.Background())
	store := newMockApprovalStore()
	waiter := &instantWaiter{cancelAfter: 2, cancel: cancel}
	gate := NewApprovalGate(store, waiter, newMockClock(), nopLogger{}, &bytes.Buffer{}, cfg)

	_, err := gate.Wait(ctx, &domain.Task{ID: 1}, domain.CheckpointPreTask, "")

	assert.ErrorIs(t, err, context.Canceled)
	// The pending artifact survives the interrupt for later inspection.
	assert.Zero(t, store.deleted)
	_, getErr := store.Get(1, domain.CheckpointPreTask)
	assert.NoError(t, getErr)
}

func TestApprovalGate_ClassifyOutcome(t *testing.T) {
	tests := []struct {
		name          string
		decision      domain.ApprovalDecision
		timeoutAction domain.TimeoutAction
		wantStatus    domain.OutcomeStatus
		wantInduced   bool
	}{
		{name: "approved proceeds", decision: domain.DecisionApproved},
		{name: "rejected fails", decision: domain.DecisionRejected, wantStatus: domain.OutcomeFailed, wantInduced: true},
		{name: "skipped skips", decision: domain.DecisionSkipped, wantStatus: domain.OutcomeSkipped, wantInduced: true},
		{name: "timeout rejects by default", decision: domain.DecisionTimedOut, timeoutAction: domain.TimeoutReject, wantStatus: domain.OutcomeFailed, wantInduced: true},
		{name: "timeout skip action", decision: domain.DecisionTimedOut, timeoutAction: domain.TimeoutSkip, wantStatus: domain.OutcomeSkipped, wantInduced: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := interactiveApproval()
			cfg.TimeoutAction = tt.timeoutAction
			gate := NewApprovalGate(newMockApprovalStore(), &instantWaiter{}, newMockClock(), nopLogger{}, &bytes.Buffer{}, cfg)

			status, induced := gate.ClassifyOutcome(tt.decision)

			assert.Equal(t, tt.wantInduced, induced)
			if tt.wantInduced {
				assert.Equal(t, tt.wantStatus, status)
			}
		})
	}
}
