package usecase

import (
	"context"
	"fmt"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// QueueEntry is one backlog task in execution order with its derived
// attributes.
// Fields are ordered to minimize memory padding.
type QueueEntry struct {
	Task        *domain.Task
	Priority    domain.Priority
	BlockingIDs []int
	Blocked     bool
}

// ListQueueInput contains the parameters for previewing the queue.
type ListQueueInput struct {
	IgnoreDeps bool
}

// ListQueueOutput contains the ordered queue with blocking annotations.
type ListQueueOutput struct {
	Entries []QueueEntry
}

// ListQueue previews what the control loop would run, in order, with the
// reason any task would be passed over.
type ListQueue struct {
	tracker domain.Tracker
	clock   domain.Clock
	logger  domain.Logger
	cfg     *domain.Config
}

// NewListQueue creates a new ListQueue use case.
func NewListQueue(tracker domain.Tracker, clock domain.Clock, logger domain.Logger, cfg *domain.Config) *ListQueue {
	return &ListQueue{tracker: tracker, clock: clock, logger: logger, cfg: cfg}
}

// Execute queries the backlog and annotates every candidate.
func (uc *ListQueue) Execute(ctx context.Context, in ListQueueInput) (*ListQueueOutput, error) {
	candidates, err := uc.tracker.ListReadyTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ready tasks: %w", err)
	}

	selector := NewSelector(uc.tracker, uc.clock, uc.logger, uc.cfg)
	sets := uc.cfg.Priority.LabelSets()

	out := &ListQueueOutput{}
	for _, task := range selector.OrderCandidates(candidates) {
		entry := QueueEntry{
			Task:     task,
			Priority: domain.ClassifyPriority(task.Labels, sets),
		}
		blocking, err := selector.BlockingIDs(ctx, task, in.IgnoreDeps)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			entry.Blocked = true
		} else {
			entry.BlockingIDs = blocking
			entry.Blocked = len(blocking) > 0
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}
