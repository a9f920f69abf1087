// Package config loads the chadgi configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Loader loads configuration from TOML files, merging the global file
// and the repository file over the built-in defaults. Repository config
// takes precedence over global config.
type Loader struct {
	stateDir      string // Path to .git/chadgi
	globalConfDir string // Path to global config directory (e.g., ~/.config/chadgi)
}

// NewLoader creates a new Loader.
func NewLoader(stateDir string) *Loader {
	return &Loader{
		stateDir:      stateDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(stateDir, globalConfDir string) *Loader {
	return &Loader{
		stateDir:      stateDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Sources returns the config file paths in merge order, global first.
func (l *Loader) Sources() []string {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	return append(paths, filepath.Join(l.stateDir, domain.ConfigFileName))
}

// Load returns the merged configuration. Missing files are not an
// error; unknown keys are collected into Config.Warnings.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		if err := applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if err := applyFile(cfg, filepath.Join(l.stateDir, domain.ConfigFileName)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile merges one TOML file into cfg.
func applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	file.apply(cfg)

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err == nil {
		cfg.Warnings = append(cfg.Warnings, collectUnknownKeys(raw)...)
	}
	return nil
}

// fileConfig mirrors the TOML schema with optional fields so that an
// absent key never clobbers a default or an earlier file.
type fileConfig struct {
	Priority struct {
		Enabled        *bool    `toml:"enabled"`
		CriticalLabels []string `toml:"critical_labels"`
		HighLabels     []string `toml:"high_labels"`
		NormalLabels   []string `toml:"normal_labels"`
		LowLabels      []string `toml:"low_labels"`
	} `toml:"priority"`
	Dependencies struct {
		Enabled           *bool    `toml:"enabled"`
		Patterns          []string `toml:"patterns"`
		CacheTTLSeconds   *int     `toml:"cache_ttl_seconds"`
		CheckLinkedIssues *bool    `toml:"check_linked_issues"`
	} `toml:"dependencies"`
	Budget struct {
		TaskLimit             *float64 `toml:"task_limit"`
		SessionLimit          *float64 `toml:"session_limit"`
		WarningThreshold      *int     `toml:"warning_threshold"`
		TaskExceededAction    *string  `toml:"task_exceeded_action"`
		SessionExceededAction *string  `toml:"session_exceeded_action"`
	} `toml:"budget"`
	Approval struct {
		Interactive         *bool   `toml:"interactive"`
		PreTask             *bool   `toml:"pre_task"`
		Phase1              *bool   `toml:"phase1"`
		Phase2              *bool   `toml:"phase2"`
		TimeoutSeconds      *int    `toml:"timeout_seconds"`
		TimeoutAction       *string `toml:"timeout_action"`
		PollIntervalSeconds *int    `toml:"poll_interval_seconds"`
	} `toml:"approval"`
	Tracker struct {
		ReadyColumn  *string `toml:"ready_column"`
		DoneColumn   *string `toml:"done_column"`
		FailedColumn *string `toml:"failed_column"`
		ReadyLabel   *string `toml:"ready_label"`
	} `toml:"tracker"`
	Agent struct {
		Command *string `toml:"command"`
		Args    *string `toml:"args"`
	} `toml:"agent"`
	Notify struct {
		Command *string `toml:"command"`
	} `toml:"notify"`
	Log struct {
		Level *string `toml:"level"`
	} `toml:"log"`
}

// apply merges the present fields into cfg.
func (f *fileConfig) apply(cfg *domain.Config) {
	setBool(&cfg.Priority.Enabled, f.Priority.Enabled)
	setSlice(&cfg.Priority.CriticalLabels, f.Priority.CriticalLabels)
	setSlice(&cfg.Priority.HighLabels, f.Priority.HighLabels)
	setSlice(&cfg.Priority.NormalLabels, f.Priority.NormalLabels)
	setSlice(&cfg.Priority.LowLabels, f.Priority.LowLabels)

	setBool(&cfg.Dependencies.Enabled, f.Dependencies.Enabled)
	setSlice(&cfg.Dependencies.Patterns, f.Dependencies.Patterns)
	setInt(&cfg.Dependencies.CacheTTLSeconds, f.Dependencies.CacheTTLSeconds)
	setBool(&cfg.Dependencies.CheckLinkedIssues, f.Dependencies.CheckLinkedIssues)

	setFloat(&cfg.Budget.TaskLimit, f.Budget.TaskLimit)
	setFloat(&cfg.Budget.SessionLimit, f.Budget.SessionLimit)
	setInt(&cfg.Budget.WarningThreshold, f.Budget.WarningThreshold)
	if f.Budget.TaskExceededAction != nil {
		cfg.Budget.TaskExceededAction = domain.TaskExceededAction(*f.Budget.TaskExceededAction)
	}
	if f.Budget.SessionExceededAction != nil {
		cfg.Budget.SessionExceededAction = domain.SessionExceededAction(*f.Budget.SessionExceededAction)
	}

	setBool(&cfg.Approval.Interactive, f.Approval.Interactive)
	setBool(&cfg.Approval.PreTask, f.Approval.PreTask)
	setBool(&cfg.Approval.Phase1, f.Approval.Phase1)
	setBool(&cfg.Approval.Phase2, f.Approval.Phase2)
	setInt(&cfg.Approval.TimeoutSeconds, f.Approval.TimeoutSeconds)
	if f.Approval.TimeoutAction != nil {
		cfg.Approval.TimeoutAction = domain.TimeoutAction(*f.Approval.TimeoutAction)
	}
	setInt(&cfg.Approval.PollIntervalSeconds, f.Approval.PollIntervalSeconds)

	setString(&cfg.Tracker.ReadyColumn, f.Tracker.ReadyColumn)
	setString(&cfg.Tracker.DoneColumn, f.Tracker.DoneColumn)
	setString(&cfg.Tracker.FailedColumn, f.Tracker.FailedColumn)
	setString(&cfg.Tracker.ReadyLabel, f.Tracker.ReadyLabel)

	setString(&cfg.Agent.Command, f.Agent.Command)
	setString(&cfg.Agent.Args, f.Agent.Args)
	setString(&cfg.Notify.Command, f.Notify.Command)
	setString(&cfg.Log.Level, f.Log.Level)
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setSlice(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}

// knownKeys lists the recognized keys per section.
var knownKeys = map[string][]string{
	"priority":     {"enabled", "critical_labels", "high_labels", "normal_labels", "low_labels"},
	"dependencies": {"enabled", "patterns", "cache_ttl_seconds", "check_linked_issues"},
	"budget":       {"task_limit", "session_limit", "warning_threshold", "task_exceeded_action", "session_exceeded_action"},
	"approval":     {"interactive", "pre_task", "phase1", "phase2", "timeout_seconds", "timeout_action", "poll_interval_seconds"},
	"tracker":      {"ready_column", "done_column", "failed_column", "ready_label"},
	"agent":        {"command", "args"},
	"notify":       {"command"},
	"log":          {"level"},
}

// collectUnknownKeys returns one warning per unrecognized section or key.
func collectUnknownKeys(raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		known, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		for key := range m {
			if !contains(known, key) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
