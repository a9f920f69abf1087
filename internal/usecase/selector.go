// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// SkippedTask records why a candidate was passed over during selection.
type SkippedTask struct {
	Task        *domain.Task
	BlockingIDs []int
}

// depCacheEntry memoizes one blocking-status check. An entry older than
// the configured TTL is treated as absent.
type depCacheEntry struct {
	fetched     time.Time
	blockingIDs []int
}

// Selector picks the next eligible task from the backlog: it orders
// candidates by priority class and skips tasks with unmet dependencies.
// The selector is owned by a single loop; the dependency cache needs no
// locking.
type Selector struct {
	tracker  domain.Tracker
	clock    domain.Clock
	logger   domain.Logger
	cfg      *domain.Config
	depCache map[int]depCacheEntry
}

// NewSelector creates a Selector.
func NewSelector(tracker domain.Tracker, clock domain.Clock, logger domain.Logger, cfg *domain.Config) *Selector {
	return &Selector{
		tracker:  tracker,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		depCache: make(map[int]depCacheEntry),
	}
}

// OrderCandidates returns candidates in execution order. With priority
// ordering enabled this is a stable sort by ascending priority ordinal,
// preserving tracker order among equal-priority tasks; otherwise the
// tracker order is kept as-is.
func (s *Selector) OrderCandidates(candidates []*domain.Task) []*domain.Task {
	ordered := slices.Clone(candidates)
	if !s.cfg.Priority.Enabled {
		return ordered
	}
	sets := s.cfg.Priority.LabelSets()
	slices.SortStableFunc(ordered, func(a, b *domain.Task) int {
		return domain.ClassifyPriority(a.Labels, sets).Ordinal() -
			domain.ClassifyPriority(b.Labels, sets).Ordinal()
	})
	return ordered
}

// SelectNext returns the next unblocked task, or nil when every candidate
// is blocked or the sequence is empty (the loop's terminal signal). The
// returned skip list explains each task that was passed over.
//
// A failed dependency lookup is treated as blocked: the candidate is
// skipped rather than run with unverified dependencies, and the loop
// moves on. Only context cancellation aborts selection.
func (s *Selector) SelectNext(ctx context.Context, candidates []*domain.Task, ignoreDeps bool) (*domain.Task, []SkippedTask, error) {
	var skipped []SkippedTask
	for _, task := range s.OrderCandidates(candidates) {
		blocking, err := s.BlockingIDs(ctx, task, ignoreDeps)
		if err != nil {
			if ctx.Err() != nil {
				return nil, skipped, ctx.Err()
			}
			s.logger.Error(task.ID, "selector", fmt.Sprintf("dependency check failed, skipping: %v", err))
			skipped = append(skipped, SkippedTask{Task: task})
			continue
		}
		if len(blocking) > 0 {
			s.logger.Info(task.ID, "selector", fmt.Sprintf("blocked by %v, skipping", blocking))
			skipped = append(skipped, SkippedTask{Task: task, BlockingIDs: blocking})
			continue
		}
		return task, skipped, nil
	}
	return nil, skipped, nil
}

// BlockingIDs returns the ids of unfinished dependencies of a task.
// It returns nil immediately when dependency checking is globally disabled
// or overridden for this invocation. With linked-issue checking enabled,
// issues the tracker links to the task are folded into the dependency set
// alongside the body references. Results are memoized per task id for
// the configured TTL.
func (s *Selector) BlockingIDs(ctx context.Context, task *domain.Task, ignoreDeps bool) ([]int, error) {
	if !s.cfg.Dependencies.Enabled || ignoreDeps {
		return nil, nil
	}

	if entry, ok := s.depCache[task.ID]; ok {
		if s.clock.Now().Sub(entry.fetched) < s.cfg.Dependencies.CacheTTL() {
			return entry.blockingIDs, nil
		}
		delete(s.depCache, task.ID)
	}

	deps := domain.ExtractDependencyIDs(task.Body, s.cfg.Dependencies.Patterns)
	if s.cfg.Dependencies.CheckLinkedIssues {
		linked, err := s.tracker.LinkedIssues(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("linked issues: %w", err)
		}
		for _, id := range linked {
			if id != task.ID && !slices.Contains(deps, id) {
				deps = append(deps, id)
			}
		}
	}
	var blocking []int
	for _, id := range deps {
		closed, err := s.tracker.IsTaskClosed(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("task #%d: %w", id, err)
		}
		if !closed {
			blocking = append(blocking, id)
		}
	}

	s.depCache[task.ID] = depCacheEntry{fetched: s.clock.Now(), blockingIDs: blocking}
	return blocking, nil
}

// InvalidateCache drops all memoized blocking checks. Called after a task
// completes, since its completion may unblock others.
func (s *Selector) InvalidateCache() {
	clear(s.depCache)
}
