package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotGitRepository   = errors.New("not a git repository (or any of the parent directories)")
	ErrNotInitialized     = errors.New("chadgi not initialized (run 'chadgi init' first)")
	ErrAlreadyInitialized = errors.New("chadgi already initialized")
	ErrArtifactNotFound   = errors.New("approval artifact not found")
	ErrArtifactExists     = errors.New("approval artifact already exists")
	ErrSessionNotFound    = errors.New("session record not found")
	ErrAgentNotFound      = errors.New("agent command not found")
	ErrInvalidAction      = errors.New("invalid budget action")
	ErrInvalidThreshold   = errors.New("warning threshold must be between 1 and 100")
	ErrInvalidLimit       = errors.New("budget limit must not be negative")
	ErrInvalidTimeout     = errors.New("approval timeout must not be negative")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrSessionStopped     = errors.New("session budget exceeded")
	ErrPersistUnavailable = errors.New("session persistence unavailable")
)
