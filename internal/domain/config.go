package domain

import (
	"fmt"
	"log/slog"
	"time"
)

// Config represents the application configuration, merged from defaults,
// the global config file, and the repository config file.
type Config struct {
	Priority     PriorityConfig   // [priority] settings
	Dependencies DependencyConfig // [dependencies] settings
	Budget       BudgetConfig     // [budget] settings
	Approval     ApprovalConfig   // [approval] settings
	Tracker      TrackerConfig    // [tracker] settings
	Agent        AgentConfig      // [agent] settings
	Notify       NotifyConfig     // [notify] settings
	Log          LogConfig        // [log] settings
	Warnings     []string         // Unknown-key warnings collected while loading
}

// PriorityConfig holds the [priority] section.
type PriorityConfig struct {
	CriticalLabels []string // Labels assigning the critical class
	HighLabels     []string // Labels assigning the high class
	NormalLabels   []string // Recognized but ignored: normal is the default class
	LowLabels      []string // Labels assigning the low class
	Enabled        bool     // Order candidates by priority class
}

// LabelSets returns the classifier input for this configuration.
func (c PriorityConfig) LabelSets() PriorityLabelSets {
	return PriorityLabelSets{
		Critical: c.CriticalLabels,
		High:     c.HighLabels,
		Low:      c.LowLabels,
	}
}

// DependencyConfig holds the [dependencies] section.
type DependencyConfig struct {
	Patterns          []string // Trigger phrases ("depends on", ...)
	CacheTTLSeconds   int      // Blocking-check memoization TTL
	Enabled           bool     // Dependency checking on/off
	CheckLinkedIssues bool     // Also treat tracker-linked issues as dependencies
}

// CacheTTL returns the cache TTL as a duration.
func (c DependencyConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// BudgetConfig holds the [budget] section.
type BudgetConfig struct {
	TaskLimit             float64               // USD per task, 0 = unlimited
	SessionLimit          float64               // USD per session, 0 = unlimited
	WarningThreshold      int                   // Percent of limit, default 80
	TaskExceededAction    TaskExceededAction    // skip|fail|warn
	SessionExceededAction SessionExceededAction // stop
}

// ApprovalConfig holds the [approval] section.
type ApprovalConfig struct {
	TimeoutSeconds      int           // 0 = wait forever
	PollIntervalSeconds int           // Gate poll interval
	TimeoutAction       TimeoutAction // reject|skip
	Interactive         bool          // Master switch; off = gate is a no-op
	PreTask             bool          // Enable the pre_task checkpoint
	Phase1              bool          // Enable the phase1 checkpoint
	Phase2              bool          // Enable the phase2 checkpoint
}

// CheckpointEnabled returns true when the named checkpoint gates execution.
func (c ApprovalConfig) CheckpointEnabled(cp Checkpoint) bool {
	if !c.Interactive {
		return false
	}
	switch cp {
	case CheckpointPreTask:
		return c.PreTask
	case CheckpointPhase1:
		return c.Phase1
	case CheckpointPhase2:
		return c.Phase2
	}
	return false
}

// Timeout returns the gate timeout as a duration (0 = none).
func (c ApprovalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollInterval returns the gate poll interval as a duration.
func (c ApprovalConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// TrackerConfig holds the [tracker] section.
type TrackerConfig struct {
	ReadyColumn  string // Board column holding ready tasks
	DoneColumn   string // Column for successful tasks
	FailedColumn string // Column for failed tasks
	ReadyLabel   string // Label selecting issues this tool may pick up
}

// AgentConfig holds the [agent] section.
type AgentConfig struct {
	Command string // Agent executable
	Args    string // Additional arguments, whitespace separated
}

// NotifyConfig holds the [notify] section.
type NotifyConfig struct {
	Command string // sh -c template; empty disables notifications
}

// LogConfig holds the [log] section.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// NewDefaultConfig returns the configuration used when no config file
// exists.
func NewDefaultConfig() *Config {
	return &Config{
		Priority: PriorityConfig{
			Enabled:        true,
			CriticalLabels: []string{"critical", "urgent"},
			HighLabels:     []string{"high", "important"},
			NormalLabels:   []string{"normal"},
			LowLabels:      []string{"low", "someday"},
		},
		Dependencies: DependencyConfig{
			Enabled:         true,
			Patterns:        DefaultDependencyPatterns,
			CacheTTLSeconds: 300,
		},
		Budget: BudgetConfig{
			WarningThreshold:      DefaultWarningThreshold,
			TaskExceededAction:    TaskActionSkip,
			SessionExceededAction: SessionActionStop,
		},
		Approval: ApprovalConfig{
			PreTask:             true,
			TimeoutSeconds:      1800,
			PollIntervalSeconds: 2,
			TimeoutAction:       TimeoutReject,
		},
		Tracker: TrackerConfig{
			ReadyColumn:  "ready",
			DoneColumn:   "done",
			FailedColumn: "failed",
			ReadyLabel:   "chadgi",
		},
		Agent: AgentConfig{
			Command: "claude",
			Args:    "-p --output-format stream-json --verbose",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks limits and action enums. Configuration errors are fatal
// and reported before the loop starts.
func (c *Config) Validate() error {
	if c.Budget.TaskLimit < 0 || c.Budget.SessionLimit < 0 {
		return ErrInvalidLimit
	}
	if c.Budget.WarningThreshold < 0 || c.Budget.WarningThreshold > 100 {
		return ErrInvalidThreshold
	}
	if c.Budget.TaskExceededAction != "" && !c.Budget.TaskExceededAction.Valid() {
		return fmt.Errorf("task_exceeded_action %q: %w", c.Budget.TaskExceededAction, ErrInvalidAction)
	}
	if c.Budget.SessionExceededAction != "" && !c.Budget.SessionExceededAction.Valid() {
		return fmt.Errorf("session_exceeded_action %q: %w", c.Budget.SessionExceededAction, ErrInvalidAction)
	}
	if c.Approval.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}
	if c.Approval.TimeoutAction != "" && !c.Approval.TimeoutAction.Valid() {
		return fmt.Errorf("timeout_action %q: %w", c.Approval.TimeoutAction, ErrInvalidAction)
	}
	if c.Log.Level != "" {
		if _, err := ParseLogLevel(c.Log.Level); err != nil {
			return err
		}
	}
	return nil
}

// ParseLogLevel parses a log level string into slog.Level.
func ParseLogLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%q: %w", levelStr, ErrInvalidLogLevel)
}
