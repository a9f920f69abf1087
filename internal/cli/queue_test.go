package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/app"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// fakeTracker serves a fixed backlog.
type fakeTracker struct {
	tasks  []*domain.Task
	closed map[int]bool
}

func (tr *fakeTracker) ListReadyTasks(_ context.Context) ([]*domain.Task, error) {
	return tr.tasks, nil
}

func (tr *fakeTracker) IsTaskClosed(_ context.Context, id int) (bool, error) {
	return tr.closed[id], nil
}

func (tr *fakeTracker) MoveTask(_ context.Context, _ int, _ string) error { return nil }

func (tr *fakeTracker) SetLabels(_ context.Context, _ int, _ []string) error { return nil }

func (tr *fakeTracker) LinkedIssues(_ context.Context, _ int) ([]int, error) { return nil, nil }

func (tr *fakeTracker) IsPRMerged(_ context.Context, _ string) (bool, error) { return false, nil }

// nopLogger discards all log entries.
type nopLogger struct{}

func (nopLogger) Debug(int, string, string) {}
func (nopLogger) Info(int, string, string)  {}
func (nopLogger) Warn(int, string, string)  {}
func (nopLogger) Error(int, string, string) {}

func TestQueueCommand_RendersBacklog(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	c := &app.Container{
		Tracker: &fakeTracker{
			tasks: []*domain.Task{
				{ID: 3, Title: "Fix crash on start", Labels: []string{"critical"}},
				{ID: 5, Title: "Add export command", Body: "Depends on #3"},
			},
		},
		Clock:  domain.RealClock{},
		Logger: nopLogger{},
		Config: cfg,
	}
	root := NewRootCommand(c, "test-version")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"queue"})

	err := root.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "#3")
	assert.Contains(t, out.String(), "Fix crash on start")
	assert.Contains(t, out.String(), "#5")
	assert.Contains(t, out.String(), "Add export command")
}

func TestQueueCommand_EmptyBacklog(t *testing.T) {
	c := &app.Container{
		Tracker: &fakeTracker{},
		Clock:   domain.RealClock{},
		Logger:  nopLogger{},
		Config:  domain.NewDefaultConfig(),
	}
	root := NewRootCommand(c, "test-version")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"queue"})

	err := root.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No ready issues")
}
