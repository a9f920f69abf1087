package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Stop reasons reported by RunBacklog.
const (
	StopBacklogEmpty  = "backlog empty"
	StopAllBlocked    = "all candidates blocked"
	StopMaxTasks      = "max tasks reached"
	StopSessionBudget = "session budget exceeded"
	StopInterrupted   = "interrupted"
	StopPersistBroken = "session persistence unavailable"
)

// RunBacklogInput contains the parameters for a backlog run.
// Fields are ordered to minimize memory padding.
type RunBacklogInput struct {
	MaxTasks    int  // Stop after this many attempted tasks (0 = unlimited)
	DryRun      bool // Non-mutating: select and report only
	IgnoreDeps  bool // Per-invocation dependency override
	Interactive bool // Force interactive mode on regardless of config
}

// RunBacklogOutput contains the result of a backlog run.
type RunBacklogOutput struct {
	StopReason string
	Record     domain.SessionRecord
}

// RunBacklog is the orchestration control loop: it repeatedly selects the
// next eligible task, gates it behind dependency, priority, budget, and
// approval constraints, drives the external agent to completion, and
// records outcome and cost telemetry.
//
// The loop is single-threaded and cooperative. Exactly one task is ever
// in flight; suspension happens only in the approval gate's poll wait and
// in the agent wait, both of which stay responsive to ctx cancellation.
type RunBacklog struct {
	tracker   domain.Tracker
	agent     domain.AgentRunner
	sessions  domain.SessionStore
	metrics   domain.MetricsStore
	approvals domain.ApprovalStore
	notifier  domain.Notifier
	repo      domain.Repo
	waiter    domain.Waiter
	clock     domain.Clock
	logger    domain.Logger
	cfg       *domain.Config
	out       io.Writer
}

// NewRunBacklog creates the control-loop use case.
func NewRunBacklog(
	tracker domain.Tracker,
	agent domain.AgentRunner,
	sessions domain.SessionStore,
	metrics domain.MetricsStore,
	approvals domain.ApprovalStore,
	notifier domain.Notifier,
	repo domain.Repo,
	waiter domain.Waiter,
	clock domain.Clock,
	logger domain.Logger,
	cfg *domain.Config,
	out io.Writer,
) *RunBacklog {
	return &RunBacklog{
		tracker:   tracker,
		agent:     agent,
		sessions:  sessions,
		metrics:   metrics,
		approvals: approvals,
		notifier:  notifier,
		repo:      repo,
		waiter:    waiter,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
		out:       out,
	}
}

// Execute runs the loop until the backlog is exhausted, a stop condition
// fires, or ctx is cancelled. The session record is persisted on every
// exit path, including interrupts.
func (uc *RunBacklog) Execute(ctx context.Context, in RunBacklogInput) (*RunBacklogOutput, error) {
	cfg := *uc.cfg
	if in.Interactive {
		cfg.Approval.Interactive = true
	}

	branch, headSHA := uc.repoContext()
	recorder := NewSessionRecorder(uc.sessions, uc.metrics, uc.logger, uc.clock.Now(), branch, headSHA)
	ledger := domain.NewBudgetLedger(cfg.Budget, in.DryRun)
	selector := NewSelector(uc.tracker, uc.clock, uc.logger, &cfg)
	gate := NewApprovalGate(uc.approvals, uc.waiter, uc.clock, uc.logger, uc.out, cfg.Approval)
	driver := NewExecutionDriver(uc.agent, ledger, uc.clock, uc.logger, uc.repo.Root())

	stopReason, loopErr := uc.loop(ctx, in, recorder, ledger, selector, gate, driver)

	// RECORDING is traversed on every exit path: normal exhaustion,
	// fatal error, and interrupt.
	if !in.DryRun {
		if err := recorder.Persist(uc.clock.Now()); err != nil && loopErr == nil {
			loopErr = err
		}
	}

	uc.notify(context.WithoutCancel(ctx), "session_finished", domain.NotifyPayload{
		Event:   "session_finished",
		Message: stopReason,
		Cost:    recorder.Summarize().TotalCost,
	})

	out := &RunBacklogOutput{StopReason: stopReason, Record: recorder.Record()}
	return out, loopErr
}

// loop is the SELECTING -> (gates) -> EXECUTING -> RECORDING cycle.
func (uc *RunBacklog) loop(
	ctx context.Context,
	in RunBacklogInput,
	recorder *SessionRecorder,
	ledger *domain.BudgetLedger,
	selector *Selector,
	gate *ApprovalGate,
	driver *ExecutionDriver,
) (string, error) {
	attempted := 0
	for {
		if ctx.Err() != nil {
			return StopInterrupted, nil
		}
		if in.MaxTasks > 0 && attempted >= in.MaxTasks {
			return StopMaxTasks, nil
		}

		// SELECTING
		candidates, err := uc.tracker.ListReadyTasks(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return StopInterrupted, nil
			}
			return "tracker unavailable", fmt.Errorf("list ready tasks: %w", err)
		}

		task, skipped, err := selector.SelectNext(ctx, candidates, in.IgnoreDeps)
		uc.reportSkipped(skipped)
		if err != nil {
			return StopInterrupted, nil
		}
		if task == nil {
			if len(skipped) > 0 && len(skipped) == len(candidates) {
				return StopAllBlocked, nil
			}
			return StopBacklogEmpty, nil
		}

		// Once selected, the task is executed to an outcome or explicitly
		// skipped; it is never silently dropped.
		attempted++
		ledger.StartTask()
		outcome, interrupted := uc.runTask(ctx, in, task, gate, driver)
		if !in.DryRun {
			uc.flagAutoMerge(context.WithoutCancel(ctx), &outcome)
		}
		recorder.RecordTask(outcome)

		if !in.DryRun {
			uc.applyOutcome(context.WithoutCancel(ctx), task, outcome)
			if err := recorder.Persist(uc.clock.Now()); err != nil {
				return StopPersistBroken, err
			}
		}
		selector.InvalidateCache()

		if interrupted {
			return StopInterrupted, nil
		}
		if ledger.SessionExceeded() {
			// The only defined session-scope action is stop.
			uc.logger.Error(0, "budget",
				fmt.Sprintf("session budget exceeded ($%.4f of $%.2f), stopping", ledger.Session().Cost(), ledger.Session().Limit()))
			return StopSessionBudget, nil
		}
	}
}

// runTask drives one selected task through its gates and execution.
// The bool result reports an interrupt observed while the task was in
// flight; the task itself is recorded as skipped in that case.
func (uc *RunBacklog) runTask(ctx context.Context, in RunBacklogInput, task *domain.Task, gate *ApprovalGate, driver *ExecutionDriver) (domain.TaskOutcome, bool) {
	if in.DryRun {
		uc.logger.Info(task.ID, "loop", "dry-run: would execute")
		return domain.TaskOutcome{
			TaskID: task.ID,
			Title:  task.Title,
			Status: domain.OutcomeSkipped,
			Reason: "dry-run",
		}, false
	}

	// Checkpoint: pre_task.
	res, err := gate.Wait(ctx, task, domain.CheckpointPreTask, uc.taskSummary(task))
	if err != nil {
		return uc.interruptedOutcome(task), true
	}
	if status, induced := gate.ClassifyOutcome(res.Decision); induced {
		return uc.gateOutcome(task, res, status), false
	}

	// EXECUTING
	outcome := driver.Run(ctx, task)
	if ctx.Err() != nil {
		return outcome, true
	}

	// Post-execution checkpoints gate finalization of successful work.
	if outcome.Status == domain.OutcomeSuccess {
		for _, cp := range []domain.Checkpoint{domain.CheckpointPhase1, domain.CheckpointPhase2} {
			res, err := gate.Wait(ctx, task, cp, uc.outcomeSummary(outcome))
			if err != nil {
				outcome.Status = domain.OutcomeSkipped
				outcome.Reason = "interrupted"
				return outcome, true
			}
			if status, induced := gate.ClassifyOutcome(res.Decision); induced {
				outcome.Status = status
				outcome.Reason = gateReason(cp, res)
				return outcome, false
			}
		}
	}
	return outcome, false
}

// flagAutoMerge marks a successful outcome whose pull request the
// tracker already reports as merged. Lookup failures are logged and the
// outcome recorded without the flag.
func (uc *RunBacklog) flagAutoMerge(ctx context.Context, outcome *domain.TaskOutcome) {
	if outcome.Status != domain.OutcomeSuccess || outcome.PR == "" {
		return
	}
	merged, err := uc.tracker.IsPRMerged(ctx, outcome.PR)
	if err != nil {
		uc.logger.Warn(outcome.TaskID, "tracker", fmt.Sprintf("merge check for %s: %v", outcome.PR, err))
		return
	}
	outcome.AutoMerged = merged
}

// applyOutcome performs the tracker side effects for a terminal outcome
// and emits the notification. Failures here are reported but never abort
// the loop; the outcome has already been recorded.
func (uc *RunBacklog) applyOutcome(ctx context.Context, task *domain.Task, outcome domain.TaskOutcome) {
	switch outcome.Status {
	case domain.OutcomeSuccess:
		if err := uc.tracker.MoveTask(ctx, task.ID, uc.cfg.Tracker.DoneColumn); err != nil {
			uc.logger.Error(task.ID, "tracker", fmt.Sprintf("move to %q: %v", uc.cfg.Tracker.DoneColumn, err))
		}
		// Drop the ready label so the task is not picked up again.
		if task.HasLabel(uc.cfg.Tracker.ReadyLabel) {
			labels := slices.DeleteFunc(slices.Clone(task.Labels), func(l string) bool {
				return l == uc.cfg.Tracker.ReadyLabel
			})
			if err := uc.tracker.SetLabels(ctx, task.ID, labels); err != nil {
				uc.logger.Error(task.ID, "tracker", fmt.Sprintf("set labels: %v", err))
			}
		}
	case domain.OutcomeFailed:
		if err := uc.tracker.MoveTask(ctx, task.ID, uc.cfg.Tracker.FailedColumn); err != nil {
			uc.logger.Error(task.ID, "tracker", fmt.Sprintf("move to %q: %v", uc.cfg.Tracker.FailedColumn, err))
		}
	case domain.OutcomeSkipped:
		// Stays in its column for the next run.
	}

	uc.notify(ctx, "task_"+string(outcome.Status), domain.NotifyPayload{
		Event:   "task_" + string(outcome.Status),
		TaskID:  task.ID,
		Title:   task.Title,
		Status:  string(outcome.Status),
		Message: outcome.Reason,
		Cost:    outcome.Cost,
	})
}

// notify sends a fire-and-forget notification. Failures are logged and
// swallowed.
func (uc *RunBacklog) notify(ctx context.Context, event string, payload domain.NotifyPayload) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Send(ctx, event, payload); err != nil {
		uc.logger.Warn(payload.TaskID, "notify", fmt.Sprintf("%s: %v", event, err))
	}
}

func (uc *RunBacklog) reportSkipped(skipped []SkippedTask) {
	for _, s := range skipped {
		if len(s.BlockingIDs) > 0 {
			fmt.Fprintf(uc.out, "skipping #%d %q: blocked by %v\n", s.Task.ID, s.Task.Title, s.BlockingIDs)
		} else {
			fmt.Fprintf(uc.out, "skipping #%d %q: dependency check failed\n", s.Task.ID, s.Task.Title)
		}
	}
}

func (uc *RunBacklog) repoContext() (branch, headSHA string) {
	if uc.repo == nil {
		return "", ""
	}
	branch, _ = uc.repo.Branch()
	headSHA, _ = uc.repo.HeadSHA()
	return branch, headSHA
}

func (uc *RunBacklog) interruptedOutcome(task *domain.Task) domain.TaskOutcome {
	return domain.TaskOutcome{
		TaskID: task.ID,
		Title:  task.Title,
		Status: domain.OutcomeSkipped,
		Reason: "interrupted",
	}
}

func (uc *RunBacklog) gateOutcome(task *domain.Task, res GateResult, status domain.OutcomeStatus) domain.TaskOutcome {
	return domain.TaskOutcome{
		TaskID: task.ID,
		Title:  task.Title,
		Status: status,
		Reason: gateReason(domain.CheckpointPreTask, res),
	}
}

func gateReason(cp domain.Checkpoint, res GateResult) string {
	reason := fmt.Sprintf("approval %s at %s", res.Decision, cp)
	if res.Message != "" {
		reason += ": " + res.Message
	}
	return reason
}

// taskSummary is the prompt body for a pre-execution checkpoint.
func (uc *RunBacklog) taskSummary(task *domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "labels: %s", strings.Join(task.Labels, ", "))
	if body := strings.TrimSpace(task.Body); body != "" {
		if len(body) > 400 {
			body = body[:400] + "..."
		}
		fmt.Fprintf(&b, "\n%s", body)
	}
	return b.String()
}

// outcomeSummary is the prompt body for a post-execution checkpoint.
func (uc *RunBacklog) outcomeSummary(outcome domain.TaskOutcome) string {
	s := fmt.Sprintf("agent finished: cost $%.4f, %.1fs", outcome.Cost, outcome.ElapsedSec)
	if outcome.PR != "" {
		s += ", PR " + outcome.PR
	}
	return s
}

// IsInterrupted reports whether the error chain represents cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
