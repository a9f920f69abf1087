// Package domain contains core business entities and interfaces.
package domain

import "slices"

// Task represents one backlog item drawn from the external tracker.
// Fields are ordered to minimize memory padding.
type Task struct {
	Title  string   // Title (required)
	Body   string   // Free-text body
	Column string   // Originating board column
	Labels []string // Label strings
	ID     int      // Tracker issue number (unique, immutable)
}

// HasLabel returns true if the task carries the given label.
func (t *Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels, label)
}

// OutcomeStatus is the terminal classification of one task execution.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Valid returns true for a known outcome status.
func (s OutcomeStatus) Valid() bool {
	switch s {
	case OutcomeSuccess, OutcomeSkipped, OutcomeFailed:
		return true
	}
	return false
}

// TaskOutcome is the result of driving a single task to completion.
// Fields are ordered to minimize memory padding.
type TaskOutcome struct {
	Title      string        `json:"title"`
	Status     OutcomeStatus `json:"status"`
	PR         string        `json:"pr,omitempty"`     // Pull-request reference, if one was opened
	Reason     string        `json:"reason,omitempty"` // Why the task was skipped or failed
	Cost       float64       `json:"cost"`             // USD
	ElapsedSec float64       `json:"elapsedSec"`
	TaskID     int           `json:"taskID"`
	AutoMerged bool          `json:"autoMerged,omitempty"`
}
