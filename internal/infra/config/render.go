package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// renderedConfig mirrors the TOML schema with every field present, for
// displaying the effective merged configuration.
type renderedConfig struct {
	Priority struct {
		Enabled        bool     `toml:"enabled"`
		CriticalLabels []string `toml:"critical_labels"`
		HighLabels     []string `toml:"high_labels"`
		NormalLabels   []string `toml:"normal_labels"`
		LowLabels      []string `toml:"low_labels"`
	} `toml:"priority"`
	Dependencies struct {
		Enabled           bool     `toml:"enabled"`
		Patterns          []string `toml:"patterns"`
		CacheTTLSeconds   int      `toml:"cache_ttl_seconds"`
		CheckLinkedIssues bool     `toml:"check_linked_issues"`
	} `toml:"dependencies"`
	Budget struct {
		TaskLimit             float64 `toml:"task_limit"`
		SessionLimit          float64 `toml:"session_limit"`
		WarningThreshold      int     `toml:"warning_threshold"`
		TaskExceededAction    string  `toml:"task_exceeded_action"`
		SessionExceededAction string  `toml:"session_exceeded_action"`
	} `toml:"budget"`
	Approval struct {
		Interactive         bool   `toml:"interactive"`
		PreTask             bool   `toml:"pre_task"`
		Phase1              bool   `toml:"phase1"`
		Phase2              bool   `toml:"phase2"`
		TimeoutSeconds      int    `toml:"timeout_seconds"`
		TimeoutAction       string `toml:"timeout_action"`
		PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	} `toml:"approval"`
	Tracker struct {
		ReadyColumn  string `toml:"ready_column"`
		DoneColumn   string `toml:"done_column"`
		FailedColumn string `toml:"failed_column"`
		ReadyLabel   string `toml:"ready_label"`
	} `toml:"tracker"`
	Agent struct {
		Command string `toml:"command"`
		Args    string `toml:"args"`
	} `toml:"agent"`
	Notify struct {
		Command string `toml:"command"`
	} `toml:"notify"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Render serializes the merged configuration back to TOML.
func Render(cfg *domain.Config) ([]byte, error) {
	var r renderedConfig

	r.Priority.Enabled = cfg.Priority.Enabled
	r.Priority.CriticalLabels = cfg.Priority.CriticalLabels
	r.Priority.HighLabels = cfg.Priority.HighLabels
	r.Priority.NormalLabels = cfg.Priority.NormalLabels
	r.Priority.LowLabels = cfg.Priority.LowLabels

	r.Dependencies.Enabled = cfg.Dependencies.Enabled
	r.Dependencies.Patterns = cfg.Dependencies.Patterns
	r.Dependencies.CacheTTLSeconds = cfg.Dependencies.CacheTTLSeconds
	r.Dependencies.CheckLinkedIssues = cfg.Dependencies.CheckLinkedIssues

	r.Budget.TaskLimit = cfg.Budget.TaskLimit
	r.Budget.SessionLimit = cfg.Budget.SessionLimit
	r.Budget.WarningThreshold = cfg.Budget.WarningThreshold
	r.Budget.TaskExceededAction = string(cfg.Budget.TaskExceededAction)
	r.Budget.SessionExceededAction = string(cfg.Budget.SessionExceededAction)

	r.Approval.Interactive = cfg.Approval.Interactive
	r.Approval.PreTask = cfg.Approval.PreTask
	r.Approval.Phase1 = cfg.Approval.Phase1
	r.Approval.Phase2 = cfg.Approval.Phase2
	r.Approval.TimeoutSeconds = cfg.Approval.TimeoutSeconds
	r.Approval.TimeoutAction = string(cfg.Approval.TimeoutAction)
	r.Approval.PollIntervalSeconds = cfg.Approval.PollIntervalSeconds

	r.Tracker.ReadyColumn = cfg.Tracker.ReadyColumn
	r.Tracker.DoneColumn = cfg.Tracker.DoneColumn
	r.Tracker.FailedColumn = cfg.Tracker.FailedColumn
	r.Tracker.ReadyLabel = cfg.Tracker.ReadyLabel

	r.Agent.Command = cfg.Agent.Command
	r.Agent.Args = cfg.Agent.Args
	r.Notify.Command = cfg.Notify.Command
	r.Log.Level = cfg.Log.Level

	data, err := toml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
