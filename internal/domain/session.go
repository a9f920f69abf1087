package domain

import "time"

// SessionRecord captures a single process run. Records are append-only:
// a later run never mutates a persisted record, it only appends its own.
// Fields are ordered to minimize memory padding.
type SessionRecord struct {
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished,omitempty"`
	ID       string         `json:"id"`     // Unique per run, derived from the start timestamp
	Branch   string         `json:"branch"` // Branch the run started on
	HeadSHA  string         `json:"headSHA,omitempty"`
	Tasks    []TaskOutcome  `json:"tasks"`
	Summary  SessionSummary `json:"summary"`
}

// SessionSummary aggregates a session's task outcomes.
// Fields are ordered to minimize memory padding.
type SessionSummary struct {
	TotalCost    float64 `json:"totalCost"`
	AvgCost      float64 `json:"avgCost"`
	TotalElapsed float64 `json:"totalElapsedSec"`
	AvgElapsed   float64 `json:"avgElapsedSec"`
	Attempted    int     `json:"attempted"`
	Succeeded    int     `json:"succeeded"`
	Skipped      int     `json:"skipped"`
	Failed       int     `json:"failed"`
	AutoMerges   int     `json:"autoMerges"`
	PullRequests int     `json:"pullRequests"`
}

// Summarize derives the aggregate counts from a list of task outcomes.
func Summarize(tasks []TaskOutcome) SessionSummary {
	s := SessionSummary{Attempted: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case OutcomeSuccess:
			s.Succeeded++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		}
		if t.AutoMerged {
			s.AutoMerges++
		}
		if t.PR != "" {
			s.PullRequests++
		}
		s.TotalCost += t.Cost
		s.TotalElapsed += t.ElapsedSec
	}
	if s.Attempted > 0 {
		s.AvgCost = s.TotalCost / float64(s.Attempted)
		s.AvgElapsed = s.TotalElapsed / float64(s.Attempted)
	}
	return s
}
