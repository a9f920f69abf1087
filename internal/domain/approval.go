package domain

import "time"

// Checkpoint is a named point in task execution where human approval may
// be required.
type Checkpoint string

const (
	CheckpointPreTask Checkpoint = "pre_task"
	CheckpointPhase1  Checkpoint = "phase1"
	CheckpointPhase2  Checkpoint = "phase2"
)

// AllCheckpoints returns the checkpoints in gating order.
func AllCheckpoints() []Checkpoint {
	return []Checkpoint{CheckpointPreTask, CheckpointPhase1, CheckpointPhase2}
}

// ApprovalDecision is the state of a checkpoint gate.
type ApprovalDecision string

const (
	DecisionPending  ApprovalDecision = "pending"
	DecisionApproved ApprovalDecision = "approved"
	DecisionRejected ApprovalDecision = "rejected"
	DecisionSkipped  ApprovalDecision = "skipped" // reviewer asked to pass the task over
	DecisionTimedOut ApprovalDecision = "timed_out"
)

// Terminal returns true when the decision ends the wait.
func (d ApprovalDecision) Terminal() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionSkipped, DecisionTimedOut:
		return true
	}
	return false
}

// TimeoutAction controls how a timed-out checkpoint is classified.
type TimeoutAction string

const (
	TimeoutReject TimeoutAction = "reject" // treat like rejection (task failed)
	TimeoutSkip   TimeoutAction = "skip"   // skip the task instead
)

// Valid returns true for a known timeout action.
func (a TimeoutAction) Valid() bool {
	return a == TimeoutReject || a == TimeoutSkip
}

// ApprovalArtifact is the durable, filesystem-visible record of one
// checkpoint gate. Its presence is the sole signal the gate polls for:
// an external actor observes the pending artifact, records a decision,
// and the loop picks it up on the next poll.
// Fields are ordered to minimize memory padding.
type ApprovalArtifact struct {
	Created    time.Time        `json:"created"`
	Decided    time.Time        `json:"decided,omitempty"`
	Checkpoint Checkpoint       `json:"checkpoint"`
	Decision   ApprovalDecision `json:"decision"`
	TaskTitle  string           `json:"taskTitle"`
	Summary    string           `json:"summary,omitempty"` // Pending-change summary shown to the reviewer
	Message    string           `json:"message,omitempty"` // Optional human-supplied message
	TaskID     int              `json:"taskID"`
}
