package usecase

import (
	"context"
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// ExecutionDriver invokes the external agent for one task and folds its
// telemetry stream into a terminal outcome. Budget checks are applied as
// cost events arrive, so an exceeded budget aborts the agent mid-flight
// instead of only gating the next task.
type ExecutionDriver struct {
	agent   domain.AgentRunner
	ledger  *domain.BudgetLedger
	clock   domain.Clock
	logger  domain.Logger
	workDir string
}

// NewExecutionDriver creates an ExecutionDriver.
func NewExecutionDriver(agent domain.AgentRunner, ledger *domain.BudgetLedger, clock domain.Clock, logger domain.Logger, workDir string) *ExecutionDriver {
	return &ExecutionDriver{
		agent:   agent,
		ledger:  ledger,
		clock:   clock,
		logger:  logger,
		workDir: workDir,
	}
}

// Run executes the task and classifies the terminal state. A budget- or
// cancellation-induced abort never yields success.
func (d *ExecutionDriver) Run(ctx context.Context, task *domain.Task) domain.TaskOutcome {
	started := d.clock.Now()
	outcome := domain.TaskOutcome{TaskID: task.ID, Title: task.Title}

	d.logger.Info(task.ID, "driver", fmt.Sprintf("starting agent for %q", task.Title))

	agentCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := d.agent.Run(agentCtx, task, d.workDir)
	if err != nil {
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = fmt.Sprintf("agent invocation: %v", err)
		outcome.ElapsedSec = d.clock.Now().Sub(started).Seconds()
		d.logger.Error(task.ID, "driver", outcome.Reason)
		return outcome
	}

	var (
		abortStatus domain.OutcomeStatus
		abortReason string
		warnedOver  bool
	)

	for ev := range events {
		switch ev.Kind {
		case domain.AgentEventCost:
			outcome.Cost += ev.CostDelta
			d.ledger.AddCost(ev.CostDelta)
			d.applyWarnings(task.ID)

			if abortStatus == "" && d.ledger.SessionExceeded() {
				abortStatus = domain.OutcomeFailed
				abortReason = "session budget exceeded"
				d.logger.Error(task.ID, "budget", abortReason)
				cancel()
			}
			if abortStatus == "" && d.ledger.TaskExceeded() {
				switch d.ledger.TaskAction() {
				case domain.TaskActionSkip:
					abortStatus = domain.OutcomeSkipped
					abortReason = "task budget exceeded"
					cancel()
				case domain.TaskActionFail:
					abortStatus = domain.OutcomeFailed
					abortReason = "task budget exceeded"
					cancel()
				case domain.TaskActionWarn:
					if !warnedOver {
						warnedOver = true
						d.logger.Warn(task.ID, "budget", "task budget exceeded, continuing (action=warn)")
					}
				}
				if abortStatus != "" {
					d.logger.Warn(task.ID, "budget", fmt.Sprintf("%s, aborting (action=%s)", abortReason, d.ledger.TaskAction()))
				}
			}

		case domain.AgentEventStatus:
			d.logger.Debug(task.ID, "agent", ev.Status)

		case domain.AgentEventExit:
			outcome.PR = ev.PR
			switch {
			case abortStatus != "":
				outcome.Status = abortStatus
				outcome.Reason = abortReason
			case ev.Err != nil:
				outcome.Status = domain.OutcomeFailed
				outcome.Reason = fmt.Sprintf("agent: %v", ev.Err)
			case ev.ExitCode == 0:
				outcome.Status = domain.OutcomeSuccess
			default:
				outcome.Status = domain.OutcomeFailed
				outcome.Reason = fmt.Sprintf("agent exited with code %d", ev.ExitCode)
			}
		}
	}

	// Stream closed without an exit event (abort or interrupt mid-flight).
	if outcome.Status == "" {
		switch {
		case abortStatus != "":
			outcome.Status = abortStatus
			outcome.Reason = abortReason
		case ctx.Err() != nil:
			outcome.Status = domain.OutcomeSkipped
			outcome.Reason = "interrupted"
		default:
			outcome.Status = domain.OutcomeFailed
			outcome.Reason = "agent stream ended unexpectedly"
		}
	}

	outcome.ElapsedSec = d.clock.Now().Sub(started).Seconds()
	d.logger.Info(task.ID, "driver",
		fmt.Sprintf("finished: %s (cost $%.4f, %.1fs)", outcome.Status, outcome.Cost, outcome.ElapsedSec))
	return outcome
}

// applyWarnings logs each budget warning exactly once per scope.
func (d *ExecutionDriver) applyWarnings(taskID int) {
	if d.ledger.TaskWarning() {
		d.logger.Warn(taskID, "budget",
			fmt.Sprintf("task budget at %d%% of limit $%.2f", d.ledger.Task().Percentage(), d.ledger.Task().Limit()))
	}
	if d.ledger.SessionWarning() {
		d.logger.Warn(taskID, "budget",
			fmt.Sprintf("session budget at %d%% of limit $%.2f", d.ledger.Session().Percentage(), d.ledger.Session().Limit()))
	}
}
