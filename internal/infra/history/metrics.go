package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure MetricsStore implements the domain port.
var _ domain.MetricsStore = (*MetricsStore)(nil)

// MetricsStore is the append-only per-task metrics log: one JSON object
// per line. Appends never rewrite existing lines, so a crash can at
// worst truncate the final entry.
type MetricsStore struct {
	path string
}

// NewMetricsStore creates a MetricsStore for the given file path.
func NewMetricsStore(path string) *MetricsStore {
	return &MetricsStore{path: path}
}

// Append adds one task outcome to the log.
func (s *MetricsStore) Append(outcome domain.TaskOutcome) error {
	line, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal task outcome: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open metrics log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append metrics: %w", err)
	}
	return nil
}

// List returns all recorded outcomes in append order. Unparseable lines
// (for example a truncated final line) are skipped.
func (s *MetricsStore) List() ([]domain.TaskOutcome, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open metrics log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var outcomes []domain.TaskOutcome
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var outcome domain.TaskOutcome
		if err := json.Unmarshal(line, &outcome); err != nil {
			continue
		}
		outcomes = append(outcomes, outcome)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metrics log: %w", err)
	}
	return outcomes, nil
}
