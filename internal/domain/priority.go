package domain

import "slices"

// Priority is the ordinal priority class of a task.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Ordinal returns the sort ordinal of the priority class.
// Lower sorts first. The mapping is fixed and independent of configuration.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 2 // unknown classes sort with normal
}

// PriorityLabelSets maps each non-default priority class to the labels
// that assign it.
type PriorityLabelSets struct {
	Critical []string
	High     []string
	Low      []string
}

// ClassifyPriority maps a task's labels to a priority class.
// Label sets are checked in fixed precedence order critical > high > low;
// the first class whose set intersects the labels wins. No match yields
// PriorityNormal.
func ClassifyPriority(labels []string, sets PriorityLabelSets) Priority {
	if intersects(labels, sets.Critical) {
		return PriorityCritical
	}
	if intersects(labels, sets.High) {
		return PriorityHigh
	}
	if intersects(labels, sets.Low) {
		return PriorityLow
	}
	return PriorityNormal
}

func intersects(labels, set []string) bool {
	for _, l := range labels {
		if slices.Contains(set, l) {
			return true
		}
	}
	return false
}
