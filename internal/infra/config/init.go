package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// defaultConfigTOML is the annotated starting configuration written by
// `chadgi init`. Values match the built-in defaults.
const defaultConfigTOML = `# chadgi configuration.
# Repository config lives in .git/chadgi/config.toml and overrides the
# global config in ~/.config/chadgi/config.toml.

[priority]
enabled = true
critical_labels = ["critical", "urgent"]
high_labels = ["high", "important"]
low_labels = ["low", "someday"]

[dependencies]
enabled = true
patterns = ["depends on", "blocked by", "requires"]
cache_ttl_seconds = 300

[budget]
# USD. 0 or absent means unlimited.
# task_limit = 5.0
# session_limit = 50.0
warning_threshold = 80
task_exceeded_action = "skip"   # skip | fail | warn
session_exceeded_action = "stop"

[approval]
interactive = false
pre_task = true
phase1 = false
phase2 = false
timeout_seconds = 1800
timeout_action = "reject"       # reject | skip
poll_interval_seconds = 2

[tracker]
ready_column = "ready"
done_column = "done"
failed_column = "failed"
ready_label = "chadgi"

[agent]
command = "claude"
args = "-p --output-format stream-json --verbose"

[notify]
# Shell command template, expanded with the event payload.
# command = "notify-send chadgi '{{.Event}}: #{{.TaskID}} {{.Status}}'"

[log]
level = "info"
`

// InitRepoConfig creates the state directory and writes the annotated
// default configuration. An existing config file is left untouched.
func (l *Loader) InitRepoConfig() error {
	if err := os.MkdirAll(l.stateDir, 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	path := filepath.Join(l.stateDir, domain.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return domain.ErrAlreadyInitialized
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// IsInitialized reports whether the repository config file exists.
func (l *Loader) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(l.stateDir, domain.ConfigFileName))
	return err == nil
}
