package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tasks := []TaskOutcome{
		{TaskID: 1, Status: OutcomeSuccess, Cost: 1.0, ElapsedSec: 60, PR: "org/repo#10", AutoMerged: true},
		{TaskID: 2, Status: OutcomeSkipped, Cost: 0, ElapsedSec: 0},
		{TaskID: 3, Status: OutcomeFailed, Cost: 0.5, ElapsedSec: 30},
		{TaskID: 4, Status: OutcomeSuccess, Cost: 0.5, ElapsedSec: 30, PR: "org/repo#11"},
	}

	s := Summarize(tasks)

	assert.Equal(t, 4, s.Attempted)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.AutoMerges)
	assert.Equal(t, 2, s.PullRequests)
	assert.InDelta(t, 2.0, s.TotalCost, 1e-9)
	assert.InDelta(t, 0.5, s.AvgCost, 1e-9)
	assert.InDelta(t, 120.0, s.TotalElapsed, 1e-9)
	assert.InDelta(t, 30.0, s.AvgElapsed, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Attempted)
	assert.Equal(t, 0.0, s.AvgCost)
	assert.Equal(t, 0.0, s.AvgElapsed)
}
