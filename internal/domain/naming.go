package domain

import (
	"fmt"
	"path/filepath"
)

// ConfigFileName is the configuration file name in both the repo and the
// global config directory.
const ConfigFileName = "config.toml"

// RepoStateDir returns the chadgi state directory inside .git.
func RepoStateDir(gitDir string) string {
	return filepath.Join(gitDir, "chadgi")
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "chadgi")
}

// SessionStorePath returns the path to the append-only session history.
func SessionStorePath(stateDir string) string {
	return filepath.Join(stateDir, "sessions.json")
}

// MetricsStorePath returns the path to the append-only task metrics log.
func MetricsStorePath(stateDir string) string {
	return filepath.Join(stateDir, "metrics.jsonl")
}

// ApprovalsDir returns the directory holding approval artifacts.
func ApprovalsDir(stateDir string) string {
	return filepath.Join(stateDir, "approvals")
}

// ApprovalArtifactPath returns the artifact path for one checkpoint gate.
func ApprovalArtifactPath(stateDir string, taskID int, checkpoint Checkpoint) string {
	return filepath.Join(ApprovalsDir(stateDir), fmt.Sprintf("task-%d-%s.json", taskID, checkpoint))
}

// TaskLogPath returns the path to the task log file.
func TaskLogPath(stateDir string, taskID int) string {
	return filepath.Join(stateDir, "logs", fmt.Sprintf("task-%d.log", taskID))
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(stateDir string) string {
	return filepath.Join(stateDir, "logs", "chadgi.log")
}
