package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

func newTestSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "sessions.json"))
}

func TestSessionStore_PutAndList(t *testing.T) {
	store := newTestSessionStore(t)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(domain.SessionRecord{
		ID:      "20240301-100000",
		Started: started,
		Branch:  "main",
		Tasks: []domain.TaskOutcome{
			{TaskID: 1, Title: "one", Status: domain.OutcomeSuccess, Cost: 0.5},
		},
	}))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "20240301-100000", records[0].ID)
	assert.Equal(t, "main", records[0].Branch)
	require.Len(t, records[0].Tasks, 1)
	assert.Equal(t, domain.OutcomeSuccess, records[0].Tasks[0].Status)
}

func TestSessionStore_PutUpsertsByID(t *testing.T) {
	store := newTestSessionStore(t)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(domain.SessionRecord{ID: "a", Started: started}))
	require.NoError(t, store.Put(domain.SessionRecord{
		ID:      "a",
		Started: started,
		Tasks:   []domain.TaskOutcome{{TaskID: 1, Status: domain.OutcomeSuccess}},
	}))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Tasks, 1)
}

func TestSessionStore_PutPreservesEarlierRuns(t *testing.T) {
	store := newTestSessionStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(domain.SessionRecord{ID: "old", Started: base}))
	require.NoError(t, store.Put(domain.SessionRecord{ID: "new", Started: base.Add(time.Hour)}))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "old", records[0].ID)
	assert.Equal(t, "new", records[1].ID)
}

func TestSessionStore_ListOrdersByStartTime(t *testing.T) {
	store := newTestSessionStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(domain.SessionRecord{ID: "later", Started: base.Add(time.Hour)}))
	require.NoError(t, store.Put(domain.SessionRecord{ID: "earlier", Started: base}))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "earlier", records[0].ID)
}

func TestSessionStore_ListEmptyWhenMissing(t *testing.T) {
	store := newTestSessionStore(t)

	records, err := store.List()

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSessionStore_CorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	store := NewSessionStore(path)

	_, err := store.List()

	assert.Error(t, err)
}

func newTestMetricsStore(t *testing.T) *MetricsStore {
	t.Helper()
	return NewMetricsStore(filepath.Join(t.TempDir(), "metrics.jsonl"))
}

func TestMetricsStore_AppendAndList(t *testing.T) {
	store := newTestMetricsStore(t)

	require.NoError(t, store.Append(domain.TaskOutcome{TaskID: 1, Title: "one", Status: domain.OutcomeSuccess, Cost: 0.5}))
	require.NoError(t, store.Append(domain.TaskOutcome{TaskID: 2, Title: "two", Status: domain.OutcomeFailed, Reason: "agent exited with code 1"}))

	outcomes, err := store.List()
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, 1, outcomes[0].TaskID)
	assert.Equal(t, 2, outcomes[1].TaskID)
	assert.Equal(t, "agent exited with code 1", outcomes[1].Reason)
}

func TestMetricsStore_ListEmptyWhenMissing(t *testing.T) {
	store := newTestMetricsStore(t)

	outcomes, err := store.List()

	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestMetricsStore_SkipsTruncatedLine(t *testing.T) {
	store := newTestMetricsStore(t)
	require.NoError(t, store.Append(domain.TaskOutcome{TaskID: 1, Status: domain.OutcomeSuccess}))

	// Simulate a crash mid-append.
	f, err := os.OpenFile(store.path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"taskID": 2, "stat`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	outcomes, err := store.List()
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, outcomes[0].TaskID)
}
