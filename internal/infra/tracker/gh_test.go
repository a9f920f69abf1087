package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(int, string, string) {}
func (nopLogger) Info(int, string, string)  {}
func (nopLogger) Warn(int, string, string)  {}
func (nopLogger) Error(int, string, string) {}

// fakeExecutor replays canned outputs keyed by the leading gh arguments
// and records every invocation.
type fakeExecutor struct {
	outputs  map[string][]byte
	err      error
	failures int // Fail this many calls before succeeding
	calls    [][]string
	dirs     []string
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{outputs: make(map[string][]byte)}
}

func (f *fakeExecutor) Execute(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	f.calls = append(f.calls, append([]string{cmd.Program}, cmd.Args...))
	f.dirs = append(f.dirs, cmd.Dir)
	if f.failures > 0 {
		f.failures--
		return []byte("gh: transient error"), errors.New("exit status 1")
	}
	if f.err != nil {
		return nil, f.err
	}
	key := strings.Join(cmd.Args[:2], " ")
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return []byte("{}"), nil
}

func trackerConfig() domain.TrackerConfig {
	return domain.TrackerConfig{
		ReadyColumn:  "ready",
		DoneColumn:   "done",
		FailedColumn: "failed",
		ReadyLabel:   "chadgi",
	}
}

func TestGH_ListReadyTasks(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["issue list"] = []byte(`[
		{"number": 12, "title": "fix login", "body": "Depends on #7", "labels": [{"name": "chadgi"}, {"name": "high"}]},
		{"number": 14, "title": "cleanup", "body": "", "labels": [{"name": "chadgi"}]}
	]`)
	gh := New(exec, nopLogger{}, trackerConfig(), "/tmp/repo")

	tasks, err := gh.ListReadyTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 12, tasks[0].ID)
	assert.Equal(t, "fix login", tasks[0].Title)
	assert.Equal(t, []string{"chadgi", "high"}, tasks[0].Labels)
	assert.Equal(t, "ready", tasks[0].Column)

	require.Len(t, exec.calls, 1)
	call := strings.Join(exec.calls[0], " ")
	assert.Contains(t, call, "--label chadgi")
	assert.Contains(t, call, "--state open")
	assert.Equal(t, "/tmp/repo", exec.dirs[0])
}

func TestGH_ListReadyTasks_RetriesTransientFailure(t *testing.T) {
	exec := newFakeExecutor()
	exec.failures = 2
	exec.outputs["issue list"] = []byte(`[]`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	tasks, err := gh.ListReadyTasks(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Len(t, exec.calls, 3)
}

func TestGH_ListReadyTasks_GivesUpAfterMaxAttempts(t *testing.T) {
	exec := newFakeExecutor()
	exec.failures = 5
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	_, err := gh.ListReadyTasks(context.Background())

	require.Error(t, err)
	assert.Len(t, exec.calls, maxAttempts)
	assert.Contains(t, err.Error(), "transient error")
}

func TestGH_IsTaskClosed(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["issue view"] = []byte(`{"state": "CLOSED"}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	closed, err := gh.IsTaskClosed(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, closed)
}

func TestGH_IsTaskClosed_Open(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["issue view"] = []byte(`{"state": "OPEN"}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	closed, err := gh.IsTaskClosed(context.Background(), 7)

	require.NoError(t, err)
	assert.False(t, closed)
}

func TestGH_LinkedIssues(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["api repos/{owner}/{repo}/issues/7/timeline"] = []byte(`[
		{"event": "cross-referenced", "source": {"issue": {"number": 12}}},
		{"event": "labeled"},
		{"event": "cross-referenced", "source": {"issue": {"number": 5}}},
		{"event": "cross-referenced", "source": {"issue": {"number": 12}}},
		{"event": "cross-referenced", "source": {"issue": {"number": 7}}}
	]`)
	gh := New(exec, nopLogger{}, trackerConfig(), "/tmp/repo")

	linked, err := gh.LinkedIssues(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, []int{5, 12}, linked)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"gh", "api", "repos/{owner}/{repo}/issues/7/timeline"}, exec.calls[0])
	assert.Equal(t, "/tmp/repo", exec.dirs[0])
}

func TestGH_LinkedIssues_NoCrossReferences(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["api repos/{owner}/{repo}/issues/7/timeline"] = []byte(`[
		{"event": "labeled"},
		{"event": "commented"}
	]`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	linked, err := gh.LinkedIssues(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestGH_IsPRMerged(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["pr view"] = []byte(`{"state": "MERGED"}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	merged, err := gh.IsPRMerged(context.Background(), "https://github.com/acme/widgets/pull/42")

	require.NoError(t, err)
	assert.True(t, merged)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"gh", "pr", "view", "https://github.com/acme/widgets/pull/42", "--json", "state"}, exec.calls[0])
}

func TestGH_IsPRMerged_OpenPR(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["pr view"] = []byte(`{"state": "OPEN"}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	merged, err := gh.IsPRMerged(context.Background(), "42")

	require.NoError(t, err)
	assert.False(t, merged)
}

func TestGH_MoveTask_SwapsColumnLabels(t *testing.T) {
	exec := newFakeExecutor()
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	require.NoError(t, gh.MoveTask(context.Background(), 12, "failed"))

	require.Len(t, exec.calls, 1)
	call := strings.Join(exec.calls[0], " ")
	assert.Contains(t, call, "issue edit 12")
	assert.Contains(t, call, "--add-label failed")
	assert.Contains(t, call, "--remove-label ready")
	assert.Contains(t, call, "--remove-label done")
	assert.NotContains(t, call, "--remove-label failed")
}

func TestGH_MoveTask_DoneClosesIssue(t *testing.T) {
	exec := newFakeExecutor()
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	require.NoError(t, gh.MoveTask(context.Background(), 12, "done"))

	require.Len(t, exec.calls, 2)
	assert.Contains(t, strings.Join(exec.calls[0], " "), "--add-label done")
	assert.Equal(t, []string{"gh", "issue", "close", "12"}, exec.calls[1])
}

func TestGH_SetLabels_AppliesDelta(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["issue view"] = []byte(`{"labels": [{"name": "chadgi"}, {"name": "high"}]}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	require.NoError(t, gh.SetLabels(context.Background(), 12, []string{"high", "done"}))

	require.Len(t, exec.calls, 2)
	call := strings.Join(exec.calls[1], " ")
	assert.Contains(t, call, "--add-label done")
	assert.Contains(t, call, "--remove-label chadgi")
	assert.NotContains(t, call, "--add-label high")
}

func TestGH_SetLabels_NoChangeSkipsEdit(t *testing.T) {
	exec := newFakeExecutor()
	exec.outputs["issue view"] = []byte(`{"labels": [{"name": "chadgi"}]}`)
	gh := New(exec, nopLogger{}, trackerConfig(), "")

	require.NoError(t, gh.SetLabels(context.Background(), 12, []string{"chadgi"}))

	assert.Len(t, exec.calls, 1)
}
