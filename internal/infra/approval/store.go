// Package approval stores checkpoint approval artifacts as JSON files
// under the chadgi state directory. The file is the coordination point
// between a waiting loop and the reviewer: the loop writes a pending
// artifact and polls it, any other process records the decision.
package approval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure Store implements the domain port.
var _ domain.ApprovalStore = (*Store)(nil)

// Store reads and writes approval artifacts in a single directory.
type Store struct {
	stateDir string
	clock    domain.Clock
}

// New creates a Store rooted at the chadgi state directory.
func New(stateDir string, clock domain.Clock) *Store {
	return &Store{stateDir: stateDir, clock: clock}
}

// CreatePending writes a pending artifact for the checkpoint. An
// existing artifact for the same task and checkpoint is an error; a
// stale one must be decided or deleted first.
func (s *Store) CreatePending(artifact domain.ApprovalArtifact) error {
	if err := os.MkdirAll(domain.ApprovalsDir(s.stateDir), 0o750); err != nil {
		return fmt.Errorf("create approvals directory: %w", err)
	}

	path := domain.ApprovalArtifactPath(s.stateDir, artifact.TaskID, artifact.Checkpoint)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("task #%d checkpoint %s: %w", artifact.TaskID, artifact.Checkpoint, domain.ErrArtifactExists)
		}
		return fmt.Errorf("create approval artifact: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write approval artifact: %w", err)
	}
	return f.Close()
}

// Get reads the artifact for a task checkpoint.
func (s *Store) Get(taskID int, checkpoint domain.Checkpoint) (*domain.ApprovalArtifact, error) {
	return readArtifact(domain.ApprovalArtifactPath(s.stateDir, taskID, checkpoint))
}

// Decide records a terminal decision on an existing pending artifact.
func (s *Store) Decide(taskID int, checkpoint domain.Checkpoint, decision domain.ApprovalDecision, message string) error {
	path := domain.ApprovalArtifactPath(s.stateDir, taskID, checkpoint)
	artifact, err := readArtifact(path)
	if err != nil {
		return err
	}
	if artifact.Decision.Terminal() {
		return fmt.Errorf("task #%d checkpoint %s already decided (%s): %w",
			taskID, checkpoint, artifact.Decision, domain.ErrInvalidAction)
	}

	artifact.Decision = decision
	artifact.Message = message
	artifact.Decided = s.clock.Now()
	return writeArtifact(path, artifact)
}

// Delete removes the artifact for a task checkpoint.
func (s *Store) Delete(taskID int, checkpoint domain.Checkpoint) error {
	path := domain.ApprovalArtifactPath(s.stateDir, taskID, checkpoint)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrArtifactNotFound
		}
		return fmt.Errorf("delete approval artifact: %w", err)
	}
	return nil
}

// ListPending returns all artifacts still awaiting a decision, ordered
// by creation time.
func (s *Store) ListPending() ([]domain.ApprovalArtifact, error) {
	entries, err := os.ReadDir(domain.ApprovalsDir(s.stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read approvals directory: %w", err)
	}

	var pending []domain.ApprovalArtifact
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		artifact, err := readArtifact(filepath.Join(domain.ApprovalsDir(s.stateDir), entry.Name()))
		if err != nil {
			continue
		}
		if artifact.Decision == domain.DecisionPending {
			pending = append(pending, *artifact)
		}
	}
	slices.SortStableFunc(pending, func(a, b domain.ApprovalArtifact) int {
		return a.Created.Compare(b.Created)
	})
	return pending, nil
}

func readArtifact(path string) (*domain.ApprovalArtifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("read approval artifact: %w", err)
	}
	var artifact domain.ApprovalArtifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return nil, fmt.Errorf("parse approval artifact: %w", err)
	}
	return &artifact, nil
}

func writeArtifact(path string, artifact *domain.ApprovalArtifact) error {
	content, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal approval artifact: %w", err)
	}

	// Rename keeps a polling reader from seeing a partial write.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
