package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostCounter_WarningFiresOnce(t *testing.T) {
	c := NewCostCounter(2.00, 80)

	c.AddCost(1.0)
	assert.False(t, c.CheckWarning(), "50%% is below threshold")

	c.AddCost(0.6)
	assert.Equal(t, 80, c.Percentage())
	assert.True(t, c.CheckWarning(), "first crossing fires")
	assert.False(t, c.CheckWarning(), "second query does not fire again")

	c.AddCost(10)
	assert.False(t, c.CheckWarning(), "still only one warning per scope")
}

func TestCostCounter_ExceededMonotonic(t *testing.T) {
	c := NewCostCounter(2.00, 80)

	c.AddCost(1.6)
	assert.False(t, c.CheckExceeded())

	c.AddCost(0.5)
	assert.True(t, c.CheckExceeded(), "2.1 >= 2.0")
	assert.True(t, c.CheckExceeded(), "remains true once set")
}

func TestCostCounter_ExactLimitExceeds(t *testing.T) {
	// >=, not >
	c := NewCostCounter(1.00, 80)
	c.AddCost(1.00)
	assert.True(t, c.CheckExceeded())
}

func TestCostCounter_Unlimited(t *testing.T) {
	c := NewCostCounter(0, 80)
	c.AddCost(1000)

	assert.Equal(t, 0, c.Percentage())
	assert.False(t, c.CheckWarning())
	assert.False(t, c.CheckExceeded())
	assert.True(t, c.Unlimited())
}

func TestCostCounter_PercentageRoundsDown(t *testing.T) {
	c := NewCostCounter(3.00, 80)
	c.AddCost(1.00)
	assert.Equal(t, 33, c.Percentage())
}

func TestCostCounter_ResetClearsFlags(t *testing.T) {
	c := NewCostCounter(1.00, 80)
	c.AddCost(2.00)
	assert.True(t, c.CheckWarning())
	assert.True(t, c.CheckExceeded())

	c.Reset()
	assert.Equal(t, 0.0, c.Cost())
	assert.False(t, c.CheckExceeded())
	c.AddCost(0.9)
	assert.True(t, c.CheckWarning(), "warning can fire again in a new scope")
}

func TestBudgetLedger_ScenarioFromSpec(t *testing.T) {
	// limit=2.00, threshold=80%; costs arrive as 1.0, 0.6, 0.5.
	l := NewBudgetLedger(BudgetConfig{
		TaskLimit:          2.00,
		WarningThreshold:   80,
		TaskExceededAction: TaskActionFail,
	}, false)
	l.StartTask()

	l.AddCost(1.0)
	assert.False(t, l.TaskWarning())
	assert.False(t, l.TaskExceeded())

	l.AddCost(0.6)
	assert.True(t, l.TaskWarning())
	assert.False(t, l.TaskWarning())
	assert.False(t, l.TaskExceeded())

	l.AddCost(0.5)
	assert.True(t, l.TaskExceeded())
	assert.Equal(t, TaskActionFail, l.TaskAction())
}

func TestBudgetLedger_TaskResetsSessionDoesNot(t *testing.T) {
	l := NewBudgetLedger(BudgetConfig{TaskLimit: 1.00, SessionLimit: 3.00}, false)

	l.StartTask()
	l.AddCost(1.5)
	assert.True(t, l.TaskExceeded())

	l.StartTask()
	assert.False(t, l.TaskExceeded(), "task scope resets per task")
	assert.Equal(t, 1.5, l.Session().Cost(), "session cost is monotonic")

	l.AddCost(2.0)
	assert.True(t, l.SessionExceeded())
}

func TestBudgetLedger_DryRunBypassesChecks(t *testing.T) {
	l := NewBudgetLedger(BudgetConfig{TaskLimit: 0.01, SessionLimit: 0.01}, true)
	l.StartTask()
	l.AddCost(100)

	assert.False(t, l.TaskWarning())
	assert.False(t, l.TaskExceeded())
	assert.False(t, l.SessionWarning())
	assert.False(t, l.SessionExceeded())
}

func TestBudgetLedger_DefaultAction(t *testing.T) {
	l := NewBudgetLedger(BudgetConfig{}, false)
	assert.Equal(t, TaskActionSkip, l.TaskAction())
}
