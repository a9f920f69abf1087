package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// GateResult is the observed end state of one checkpoint wait.
type GateResult struct {
	Decision domain.ApprovalDecision
	Message  string // Optional human-supplied message
}

// ApprovalGate suspends progress at configured checkpoints until a human
// records a decision on the durable approval artifact. The wait is a
// cooperative poll: it blocks only the current task, and the context stays
// responsive so an interrupt can end it at any poll boundary.
type ApprovalGate struct {
	store  domain.ApprovalStore
	waiter domain.Waiter
	clock  domain.Clock
	logger domain.Logger
	out    io.Writer
	cfg    domain.ApprovalConfig
}

// NewApprovalGate creates an ApprovalGate. out receives the human-readable
// prompt when a checkpoint enters pending.
func NewApprovalGate(store domain.ApprovalStore, waiter domain.Waiter, clock domain.Clock, logger domain.Logger, out io.Writer, cfg domain.ApprovalConfig) *ApprovalGate {
	return &ApprovalGate{
		store:  store,
		waiter: waiter,
		clock:  clock,
		logger: logger,
		out:    out,
		cfg:    cfg,
	}
}

// Wait gates the task at the named checkpoint. Disabled checkpoints (and
// non-interactive mode) return approved immediately without creating an
// artifact. Otherwise a pending artifact is created, a prompt is emitted,
// and the gate polls until a terminal decision is observed, the configured
// timeout elapses, or ctx is cancelled. The artifact is removed once a
// terminal decision has been consumed.
func (g *ApprovalGate) Wait(ctx context.Context, task *domain.Task, checkpoint domain.Checkpoint, summary string) (GateResult, error) {
	if !g.cfg.CheckpointEnabled(checkpoint) {
		return GateResult{Decision: domain.DecisionApproved}, nil
	}

	started := g.clock.Now()
	artifact := domain.ApprovalArtifact{
		Created:    started,
		Checkpoint: checkpoint,
		Decision:   domain.DecisionPending,
		TaskTitle:  task.Title,
		Summary:    summary,
		TaskID:     task.ID,
	}
	if err := g.store.CreatePending(artifact); err != nil {
		return GateResult{}, fmt.Errorf("create approval artifact: %w", err)
	}
	g.prompt(task, checkpoint, summary)
	g.logger.Info(task.ID, "approval", fmt.Sprintf("waiting at checkpoint %s", checkpoint))

	for {
		if err := g.waiter.Wait(ctx, g.cfg.PollInterval()); err != nil {
			// Interrupted mid-wait. The artifact stays on disk so the
			// reviewer can see what was pending.
			return GateResult{}, err
		}

		current, err := g.store.Get(task.ID, checkpoint)
		if err != nil {
			return GateResult{}, fmt.Errorf("observe approval artifact: %w", err)
		}
		if current.Decision.Terminal() {
			_ = g.store.Delete(task.ID, checkpoint)
			g.logger.Info(task.ID, "approval", fmt.Sprintf("checkpoint %s: %s", checkpoint, current.Decision))
			return GateResult{Decision: current.Decision, Message: current.Message}, nil
		}

		if timeout := g.cfg.Timeout(); timeout > 0 && g.clock.Now().Sub(started) >= timeout {
			_ = g.store.Delete(task.ID, checkpoint)
			g.logger.Warn(task.ID, "approval", fmt.Sprintf("checkpoint %s timed out", checkpoint))
			return GateResult{Decision: domain.DecisionTimedOut}, nil
		}
	}
}

// ClassifyOutcome maps a terminal gate decision to the task outcome it
// induces. Approved yields no outcome (the task proceeds).
func (g *ApprovalGate) ClassifyOutcome(decision domain.ApprovalDecision) (domain.OutcomeStatus, bool) {
	switch decision {
	case domain.DecisionRejected:
		return domain.OutcomeFailed, true
	case domain.DecisionSkipped:
		return domain.OutcomeSkipped, true
	case domain.DecisionTimedOut:
		if g.cfg.TimeoutAction == domain.TimeoutSkip {
			return domain.OutcomeSkipped, true
		}
		return domain.OutcomeFailed, true
	}
	return "", false
}

// prompt emits the human-readable checkpoint prompt.
func (g *ApprovalGate) prompt(task *domain.Task, checkpoint domain.Checkpoint, summary string) {
	fmt.Fprintf(g.out, "\n[approval] checkpoint %s for task #%d: %s\n", checkpoint, task.ID, task.Title)
	if summary != "" {
		fmt.Fprintf(g.out, "%s\n", summary)
	}
	fmt.Fprintf(g.out, "Run 'chadgi review' (or approve/reject): [a]pprove  [r]eject  [d]iff  [s]kip\n")
}
