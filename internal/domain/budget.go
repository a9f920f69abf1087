package domain

// TaskExceededAction is what to do when the task-scope budget is exceeded.
type TaskExceededAction string

const (
	TaskActionSkip TaskExceededAction = "skip" // abort current task, continue loop
	TaskActionFail TaskExceededAction = "fail" // abort current task, mark failed, continue loop
	TaskActionWarn TaskExceededAction = "warn" // log only, continue task
)

// Valid returns true for a known task-scope action.
func (a TaskExceededAction) Valid() bool {
	switch a {
	case TaskActionSkip, TaskActionFail, TaskActionWarn:
		return true
	}
	return false
}

// SessionExceededAction is what to do when the session-scope budget is
// exceeded. Stopping the loop is the only defined action.
type SessionExceededAction string

// SessionActionStop flushes the session record and terminates the loop.
const SessionActionStop SessionExceededAction = "stop"

// Valid returns true for a known session-scope action.
func (a SessionExceededAction) Valid() bool {
	return a == SessionActionStop
}

// DefaultWarningThreshold is the warning threshold in percent of the
// limit when the configuration does not override it.
const DefaultWarningThreshold = 80

// CostCounter tracks accumulated cost for one budget scope against an
// optional limit. A zero or negative limit means unlimited: Percentage
// reports 0 and both checks are disabled.
// Fields are ordered to minimize memory padding.
type CostCounter struct {
	cost          float64
	limit         float64
	warnThreshold int
	warned        bool
	exceeded      bool
}

// NewCostCounter creates a counter with the given limit (<=0 = unlimited)
// and warning threshold in percent (<=0 uses DefaultWarningThreshold).
func NewCostCounter(limit float64, warnThreshold int) *CostCounter {
	if warnThreshold <= 0 {
		warnThreshold = DefaultWarningThreshold
	}
	return &CostCounter{limit: limit, warnThreshold: warnThreshold}
}

// AddCost accumulates cost into the counter.
func (c *CostCounter) AddCost(amount float64) {
	c.cost += amount
}

// Cost returns the accumulated cost.
func (c *CostCounter) Cost() float64 {
	return c.cost
}

// Limit returns the configured limit (0 = unlimited).
func (c *CostCounter) Limit() float64 {
	if c.limit <= 0 {
		return 0
	}
	return c.limit
}

// Unlimited returns true when no limit is configured.
func (c *CostCounter) Unlimited() bool {
	return c.limit <= 0
}

// Percentage returns the consumed share of the limit in percent, rounded
// down. May exceed 100. Returns 0 for an unlimited counter.
func (c *CostCounter) Percentage() int {
	if c.limit <= 0 {
		return 0
	}
	return int(c.cost / c.limit * 100)
}

// CheckWarning reports the first crossing of the warning threshold.
// It returns true exactly once per scope, no matter how often it is
// queried above the threshold. Always false for an unlimited counter.
func (c *CostCounter) CheckWarning() bool {
	if c.limit <= 0 || c.warned {
		return false
	}
	if c.Percentage() >= c.warnThreshold {
		c.warned = true
		return true
	}
	return false
}

// CheckExceeded reports whether the limit has been reached or surpassed
// (>=, not >). The result is monotonic within a scope: once true it never
// reverts until Reset. Always false for an unlimited counter.
func (c *CostCounter) CheckExceeded() bool {
	if c.limit <= 0 {
		return false
	}
	if c.cost >= c.limit {
		c.exceeded = true
	}
	return c.exceeded
}

// Reset clears the accumulated cost and both flags. Called exactly once
// per task start for the task-scope counter; never for the session scope.
func (c *CostCounter) Reset() {
	c.cost = 0
	c.warned = false
	c.exceeded = false
}

// BudgetLedger owns the two budget counters of a run. All cost mutation
// goes through its methods so the loop can be tested in isolation.
// Fields are ordered to minimize memory padding.
type BudgetLedger struct {
	task       *CostCounter
	session    *CostCounter
	taskAction TaskExceededAction
	bypass     bool
}

// NewBudgetLedger creates a ledger from the budget configuration.
// When bypass is true (dry-run) all warning/exceeded checks are disabled.
func NewBudgetLedger(cfg BudgetConfig, bypass bool) *BudgetLedger {
	action := cfg.TaskExceededAction
	if action == "" {
		action = TaskActionSkip
	}
	return &BudgetLedger{
		task:       NewCostCounter(cfg.TaskLimit, cfg.WarningThreshold),
		session:    NewCostCounter(cfg.SessionLimit, cfg.WarningThreshold),
		taskAction: action,
		bypass:     bypass,
	}
}

// StartTask resets the task-scope counter for a new task.
func (l *BudgetLedger) StartTask() {
	l.task.Reset()
}

// AddCost records cost against both scopes.
func (l *BudgetLedger) AddCost(amount float64) {
	l.task.AddCost(amount)
	l.session.AddCost(amount)
}

// Task returns the task-scope counter.
func (l *BudgetLedger) Task() *CostCounter {
	return l.task
}

// Session returns the session-scope counter.
func (l *BudgetLedger) Session() *CostCounter {
	return l.session
}

// TaskAction returns the configured task-scope exceeded action.
func (l *BudgetLedger) TaskAction() TaskExceededAction {
	return l.taskAction
}

// TaskWarning reports the first crossing of the task warning threshold.
func (l *BudgetLedger) TaskWarning() bool {
	return !l.bypass && l.task.CheckWarning()
}

// SessionWarning reports the first crossing of the session warning threshold.
func (l *BudgetLedger) SessionWarning() bool {
	return !l.bypass && l.session.CheckWarning()
}

// TaskExceeded reports whether the task budget is exhausted.
func (l *BudgetLedger) TaskExceeded() bool {
	return !l.bypass && l.task.CheckExceeded()
}

// SessionExceeded reports whether the session budget is exhausted.
func (l *BudgetLedger) SessionExceeded() bool {
	return !l.bypass && l.session.CheckExceeded()
}
