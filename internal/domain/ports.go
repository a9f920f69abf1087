package domain

import (
	"context"
	"time"
)

// Tracker is the issue-tracker boundary. Query retries live behind this
// interface, not in the core loop.
type Tracker interface {
	// ListReadyTasks returns the backlog in tracker order.
	ListReadyTasks(ctx context.Context) ([]*Task, error)

	// IsTaskClosed reports whether a task is closed or merged.
	IsTaskClosed(ctx context.Context, id int) (bool, error)

	// LinkedIssues returns the ids of issues the tracker links to a task,
	// beyond what the task body references.
	LinkedIssues(ctx context.Context, id int) ([]int, error)

	// IsPRMerged reports whether a pull request has been merged.
	IsPRMerged(ctx context.Context, ref string) (bool, error)

	// MoveTask moves a task to another board column.
	MoveTask(ctx context.Context, id int, toColumn string) error

	// SetLabels replaces the labels on a task.
	SetLabels(ctx context.Context, id int, labels []string) error
}

// AgentEventKind discriminates events on the agent telemetry stream.
type AgentEventKind string

const (
	// AgentEventCost carries an incremental cost delta.
	AgentEventCost AgentEventKind = "cost"
	// AgentEventStatus carries a human-readable progress note.
	AgentEventStatus AgentEventKind = "status"
	// AgentEventExit is the terminal event; the channel closes after it.
	AgentEventExit AgentEventKind = "exit"
)

// AgentEvent is one telemetry event from the external agent.
// Fields are ordered to minimize memory padding.
type AgentEvent struct {
	Kind      AgentEventKind
	Status    string  // Progress note (AgentEventStatus)
	PR        string  // Pull-request reference, if reported (AgentEventExit)
	Err       error   // Invocation failure (AgentEventExit)
	CostDelta float64 // USD since the previous cost event (AgentEventCost)
	ExitCode  int     // Agent exit code (AgentEventExit)
}

// AgentRunner invokes the external code-generation agent.
type AgentRunner interface {
	// Run starts the agent for the task and streams telemetry. The
	// returned channel delivers zero or more cost/status events followed
	// by exactly one exit event, then closes. Cancelling ctx terminates
	// the agent process.
	Run(ctx context.Context, task *Task, workDir string) (<-chan AgentEvent, error)
}

// SessionStore persists session records. History is append-only: Put
// overwrites at most the record with the same ID, never earlier runs.
type SessionStore interface {
	// Put inserts or replaces the record with the same ID.
	Put(record SessionRecord) error

	// List returns all records ordered by start time.
	List() ([]SessionRecord, error)
}

// MetricsStore is the append-only per-task metrics log.
type MetricsStore interface {
	// Append adds one task outcome to the log.
	Append(outcome TaskOutcome) error

	// List returns all recorded outcomes in append order.
	List() ([]TaskOutcome, error)
}

// ApprovalStore manages durable approval artifacts.
type ApprovalStore interface {
	// CreatePending writes a pending artifact for the checkpoint.
	CreatePending(artifact ApprovalArtifact) error

	// Get reads the artifact for a task checkpoint.
	// Returns ErrArtifactNotFound if absent.
	Get(taskID int, checkpoint Checkpoint) (*ApprovalArtifact, error)

	// Decide records a decision with an optional message on an existing
	// pending artifact.
	Decide(taskID int, checkpoint Checkpoint, decision ApprovalDecision, message string) error

	// Delete removes the artifact for a task checkpoint.
	Delete(taskID int, checkpoint Checkpoint) error

	// ListPending returns all artifacts still awaiting a decision.
	ListPending() ([]ApprovalArtifact, error)
}

// Notifier delivers fire-and-forget notifications. Failures must never
// abort the loop; callers log the returned error and move on.
type Notifier interface {
	Send(ctx context.Context, event string, payload NotifyPayload) error
}

// NotifyPayload carries the variables available to notification templates.
// Fields are ordered to minimize memory padding.
type NotifyPayload struct {
	Event   string
	Title   string
	Status  string
	Message string
	Cost    float64
	TaskID  int
}

// ExecCommand describes one external command invocation.
// Fields are ordered to minimize memory padding.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
}

// CommandExecutor runs external commands to completion.
type CommandExecutor interface {
	// Execute runs the command and returns its combined output.
	Execute(ctx context.Context, cmd *ExecCommand) ([]byte, error)
}

// Repo exposes the enclosing git repository.
type Repo interface {
	// Root returns the repository root directory.
	Root() string

	// GitDir returns the .git directory path.
	GitDir() string

	// Branch returns the current branch name.
	Branch() (string, error)

	// HeadSHA returns the commit hash HEAD points at.
	HeadSHA() (string, error)
}

// Logger writes categorized log entries, optionally scoped to a task.
type Logger interface {
	Debug(taskID int, category, msg string)
	Info(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Waiter blocks between approval-gate polls. It is injectable so tests
// can replace the suspension mechanism without changing gate semantics.
type Waiter interface {
	// Wait blocks for d or until ctx is cancelled, returning ctx.Err()
	// in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// RealWaiter implements Waiter with a timer.
type RealWaiter struct{}

// Wait blocks for d or until ctx is cancelled.
func (RealWaiter) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
