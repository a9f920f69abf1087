package cli

import (
	"fmt"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// fakeSessionStore is an in-memory domain.SessionStore.
type fakeSessionStore struct {
	records []domain.SessionRecord
}

func (s *fakeSessionStore) Put(record domain.SessionRecord) error {
	for i, r := range s.records {
		if r.ID == record.ID {
			s.records[i] = record
			return nil
		}
	}
	s.records = append(s.records, record)
	return nil
}

func (s *fakeSessionStore) List() ([]domain.SessionRecord, error) {
	return s.records, nil
}

// fakeApprovalStore is an in-memory domain.ApprovalStore tracking only
// what the CLI commands exercise.
type fakeApprovalStore struct {
	artifacts map[string]*domain.ApprovalArtifact
}

func newFakeApprovalStore() *fakeApprovalStore {
	return &fakeApprovalStore{artifacts: make(map[string]*domain.ApprovalArtifact)}
}

func approvalKey(taskID int, checkpoint domain.Checkpoint) string {
	return fmt.Sprintf("%d:%s", taskID, checkpoint)
}

func (s *fakeApprovalStore) CreatePending(artifact domain.ApprovalArtifact) error {
	a := artifact
	s.artifacts[approvalKey(a.TaskID, a.Checkpoint)] = &a
	return nil
}

func (s *fakeApprovalStore) Get(taskID int, checkpoint domain.Checkpoint) (*domain.ApprovalArtifact, error) {
	a, ok := s.artifacts[approvalKey(taskID, checkpoint)]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return a, nil
}

func (s *fakeApprovalStore) Decide(taskID int, checkpoint domain.Checkpoint, decision domain.ApprovalDecision, message string) error {
	a, ok := s.artifacts[approvalKey(taskID, checkpoint)]
	if !ok {
		return domain.ErrArtifactNotFound
	}
	if a.Decision.Terminal() {
		return domain.ErrInvalidAction
	}
	a.Decision = decision
	a.Message = message
	a.Decided = time.Now()
	return nil
}

func (s *fakeApprovalStore) Delete(taskID int, checkpoint domain.Checkpoint) error {
	key := approvalKey(taskID, checkpoint)
	if _, ok := s.artifacts[key]; !ok {
		return domain.ErrArtifactNotFound
	}
	delete(s.artifacts, key)
	return nil
}

func (s *fakeApprovalStore) ListPending() ([]domain.ApprovalArtifact, error) {
	var pending []domain.ApprovalArtifact
	for _, a := range s.artifacts {
		if a.Decision == domain.DecisionPending {
			pending = append(pending, *a)
		}
	}
	return pending, nil
}
