package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// mockClock is a test double for domain.Clock with manual advancing.
type mockClock struct {
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockClock) Now() time.Time {
	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// nopLogger discards all log entries.
type nopLogger struct{}

func (nopLogger) Debug(int, string, string) {}
func (nopLogger) Info(int, string, string)  {}
func (nopLogger) Warn(int, string, string)  {}
func (nopLogger) Error(int, string, string) {}

// mockTracker is a test double for domain.Tracker.
// Fields are ordered to minimize memory padding.
type mockTracker struct {
	tasks       []*domain.Task
	closed      map[int]bool
	moves       map[int]string
	labels      map[int][]string
	linked      map[int][]int
	mergedPRs   map[string]bool
	listErr     error
	closedErr   error
	linkedErr   error
	listCalls   int
	isClosed    int // IsTaskClosed call count
	linkedCalls int
}

func newMockTracker(tasks ...*domain.Task) *mockTracker {
	return &mockTracker{
		tasks:     tasks,
		closed:    make(map[int]bool),
		moves:     make(map[int]string),
		labels:    make(map[int][]string),
		linked:    make(map[int][]int),
		mergedPRs: make(map[string]bool),
	}
}

func (m *mockTracker) ListReadyTasks(_ context.Context) ([]*domain.Task, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Tasks moved out of the ready pool disappear from later queries.
	var ready []*domain.Task
	for _, t := range m.tasks {
		if _, moved := m.moves[t.ID]; !moved {
			ready = append(ready, t)
		}
	}
	return ready, nil
}

func (m *mockTracker) IsTaskClosed(_ context.Context, id int) (bool, error) {
	m.isClosed++
	if m.closedErr != nil {
		return false, m.closedErr
	}
	return m.closed[id], nil
}

func (m *mockTracker) MoveTask(_ context.Context, id int, toColumn string) error {
	m.moves[id] = toColumn
	return nil
}

func (m *mockTracker) SetLabels(_ context.Context, id int, labels []string) error {
	m.labels[id] = slices.Clone(labels)
	return nil
}

func (m *mockTracker) LinkedIssues(_ context.Context, id int) ([]int, error) {
	m.linkedCalls++
	if m.linkedErr != nil {
		return nil, m.linkedErr
	}
	return m.linked[id], nil
}

func (m *mockTracker) IsPRMerged(_ context.Context, ref string) (bool, error) {
	return m.mergedPRs[ref], nil
}

// scriptedAgent is a test double for domain.AgentRunner that replays a
// fixed event sequence per invocation.
type scriptedAgent struct {
	events [][]domain.AgentEvent
	runErr error
	calls  int
}

func (m *scriptedAgent) Run(ctx context.Context, _ *domain.Task, _ string) (<-chan domain.AgentEvent, error) {
	if m.runErr != nil {
		return nil, m.runErr
	}
	var script []domain.AgentEvent
	if m.calls < len(m.events) {
		script = m.events[m.calls]
	}
	m.calls++

	ch := make(chan domain.AgentEvent)
	go func() {
		defer close(ch)
		for _, ev := range script {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// mockSessionStore is an in-memory domain.SessionStore.
type mockSessionStore struct {
	records []domain.SessionRecord
	putErr  error
	puts    int
}

func (m *mockSessionStore) Put(record domain.SessionRecord) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	for i, r := range m.records {
		if r.ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockSessionStore) List() ([]domain.SessionRecord, error) {
	return slices.Clone(m.records), nil
}

// mockMetricsStore is an in-memory domain.MetricsStore.
type mockMetricsStore struct {
	outcomes  []domain.TaskOutcome
	appendErr error
}

func (m *mockMetricsStore) Append(outcome domain.TaskOutcome) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

func (m *mockMetricsStore) List() ([]domain.TaskOutcome, error) {
	return slices.Clone(m.outcomes), nil
}

// mockApprovalStore is an in-memory domain.ApprovalStore.
type mockApprovalStore struct {
	artifacts map[string]*domain.ApprovalArtifact
	created   int
	deleted   int
}

func newMockApprovalStore() *mockApprovalStore {
	return &mockApprovalStore{artifacts: make(map[string]*domain.ApprovalArtifact)}
}

func approvalKey(taskID int, cp domain.Checkpoint) string {
	return fmt.Sprintf("%d:%s", taskID, cp)
}

func (m *mockApprovalStore) CreatePending(artifact domain.ApprovalArtifact) error {
	m.created++
	a := artifact
	m.artifacts[approvalKey(artifact.TaskID, artifact.Checkpoint)] = &a
	return nil
}

func (m *mockApprovalStore) Get(taskID int, cp domain.Checkpoint) (*domain.ApprovalArtifact, error) {
	a, ok := m.artifacts[approvalKey(taskID, cp)]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	cp2 := *a
	return &cp2, nil
}

func (m *mockApprovalStore) Decide(taskID int, cp domain.Checkpoint, decision domain.ApprovalDecision, message string) error {
	a, ok := m.artifacts[approvalKey(taskID, cp)]
	if !ok {
		return domain.ErrArtifactNotFound
	}
	a.Decision = decision
	a.Message = message
	return nil
}

func (m *mockApprovalStore) Delete(taskID int, cp domain.Checkpoint) error {
	m.deleted++
	delete(m.artifacts, approvalKey(taskID, cp))
	return nil
}

func (m *mockApprovalStore) ListPending() ([]domain.ApprovalArtifact, error) {
	var pending []domain.ApprovalArtifact
	for _, a := range m.artifacts {
		if a.Decision == domain.DecisionPending {
			pending = append(pending, *a)
		}
	}
	return pending, nil
}

// mockNotifier records sent notifications.
type mockNotifier struct {
	events  []string
	sendErr error
}

func (m *mockNotifier) Send(_ context.Context, event string, _ domain.NotifyPayload) error {
	m.events = append(m.events, event)
	return m.sendErr
}

// mockRepo is a static domain.Repo.
type mockRepo struct{}

func (mockRepo) Root() string             { return "/tmp/repo" }
func (mockRepo) GitDir() string           { return "/tmp/repo/.git" }
func (mockRepo) Branch() (string, error)  { return "main", nil }
func (mockRepo) HeadSHA() (string, error) { return "abc123", nil }

// instantWaiter returns immediately, optionally advancing a clock so
// timeout paths can be exercised, and optionally cancelling the context
// after a number of polls.
type instantWaiter struct {
	clock       *mockClock
	advance     time.Duration
	cancelAfter int
	cancel      context.CancelFunc
	waits       int
}

func (w *instantWaiter) Wait(ctx context.Context, _ time.Duration) error {
	w.waits++
	if w.clock != nil && w.advance > 0 {
		w.clock.Advance(w.advance)
	}
	if w.cancel != nil && w.waits >= w.cancelAfter {
		w.cancel()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// decideAfterWaiter records a decision on the store after n polls.
type decideAfterWaiter struct {
	store    *mockApprovalStore
	decision domain.ApprovalDecision
	message  string
	cp       domain.Checkpoint
	taskID   int
	after    int
	waits    int
}

func (w *decideAfterWaiter) Wait(ctx context.Context, _ time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	w.waits++
	if w.waits >= w.after {
		_ = w.store.Decide(w.taskID, w.cp, w.decision, w.message)
	}
	return nil
}
