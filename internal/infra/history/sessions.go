// Package history persists session records and per-task metrics under
// the chadgi state directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure SessionStore implements the domain port.
var _ domain.SessionStore = (*SessionStore)(nil)

// sessionsFile is the JSON file structure of sessions.json.
type sessionsFile struct {
	Sessions []domain.SessionRecord `json:"sessions"`
}

// SessionStore keeps the session history in a single JSON file guarded
// by a flock, written atomically via temp file and rename. Concurrent
// runs of the tool in the same repository cannot corrupt it.
type SessionStore struct {
	path     string
	lockPath string
}

// NewSessionStore creates a SessionStore for the given file path.
// The file does not need to exist; it is created on first write.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Put inserts or replaces the record with the same ID. Earlier runs are
// never mutated.
func (s *SessionStore) Put(record domain.SessionRecord) error {
	return s.withLockWrite(func(data *sessionsFile) error {
		for i, rec := range data.Sessions {
			if rec.ID == record.ID {
				data.Sessions[i] = record
				return nil
			}
		}
		data.Sessions = append(data.Sessions, record)
		return nil
	})
}

// List returns all records ordered by start time.
func (s *SessionStore) List() ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	err := s.withLock(func(data *sessionsFile) error {
		records = slices.Clone(data.Sessions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b domain.SessionRecord) int {
		return a.Started.Compare(b.Started)
	})
	return records, nil
}

// withLock executes fn with a shared (read) lock.
func (s *SessionStore) withLock(fn func(*sessionsFile) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// withLockWrite executes fn with an exclusive lock and writes the result.
func (s *SessionStore) withLockWrite(fn func(*sessionsFile) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.write(data)
}

func (s *SessionStore) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return lock, nil
}

func releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *SessionStore) read() (*sessionsFile, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &sessionsFile{}, nil
		}
		return nil, fmt.Errorf("read session store: %w", err)
	}

	var data sessionsFile
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse session store: %w", err)
	}
	return &data, nil
}

func (s *SessionStore) write(data *sessionsFile) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session store: %w", err)
	}

	// Write to temp file first, then rename for atomicity.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
