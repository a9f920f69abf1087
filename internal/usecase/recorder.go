package usecase

import (
	"fmt"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// persistFailureLimit is how many consecutive failed Persist calls are
// tolerated before persistence is considered unrecoverable for the
// session.
const persistFailureLimit = 3

// SessionRecorder accumulates per-task and per-session metrics and writes
// them to durable storage. It is the sole source of truth for every
// downstream reporting view.
type SessionRecorder struct {
	sessions domain.SessionStore
	metrics  domain.MetricsStore
	logger   domain.Logger
	record   domain.SessionRecord

	// Consecutive Persist failures. Store errors are non-fatal per call,
	// but an entire session without a single successful write surfaces as
	// ErrPersistUnavailable.
	persistFailures int
}

// NewSessionRecorder creates the recorder and the session record for this
// run. The record id is derived from the start timestamp.
func NewSessionRecorder(sessions domain.SessionStore, metrics domain.MetricsStore, logger domain.Logger, started time.Time, branch, headSHA string) *SessionRecorder {
	return &SessionRecorder{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		record: domain.SessionRecord{
			ID:      started.UTC().Format("20060102-150405"),
			Started: started,
			Branch:  branch,
			HeadSHA: headSHA,
		},
	}
}

// RecordTask appends one outcome to the in-memory session totals and to
// the append-only task-metrics store. Metrics-store failures are logged
// loudly but never abort the loop.
func (r *SessionRecorder) RecordTask(outcome domain.TaskOutcome) {
	r.record.Tasks = append(r.record.Tasks, outcome)
	if err := r.metrics.Append(outcome); err != nil {
		r.logger.Error(outcome.TaskID, "recorder", fmt.Sprintf("append task metrics: %v", err))
	}
}

// Summarize aggregates the session's outcomes so far.
func (r *SessionRecorder) Summarize() domain.SessionSummary {
	return domain.Summarize(r.record.Tasks)
}

// Record returns a copy of the current session record.
func (r *SessionRecorder) Record() domain.SessionRecord {
	rec := r.record
	rec.Summary = domain.Summarize(rec.Tasks)
	return rec
}

// Persist writes the current summary plus full task list, overwriting any
// previous persisted record for this run and never touching prior runs.
// It is idempotent and safe to call from every exit path. A single failed
// write is non-fatal; once persistFailureLimit consecutive writes have
// failed, ErrPersistUnavailable is returned so the loop can stop instead
// of silently losing the whole session.
func (r *SessionRecorder) Persist(finished time.Time) error {
	rec := r.Record()
	rec.Finished = finished

	if err := r.sessions.Put(rec); err != nil {
		r.persistFailures++
		r.logger.Error(0, "recorder", fmt.Sprintf("persist session record: %v", err))
		if r.persistFailures >= persistFailureLimit {
			return fmt.Errorf("%d consecutive failures: %w", r.persistFailures, domain.ErrPersistUnavailable)
		}
		return nil
	}
	r.persistFailures = 0
	r.record.Finished = finished
	return nil
}
