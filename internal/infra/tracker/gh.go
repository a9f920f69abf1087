// Package tracker adapts the GitHub issue tracker through the gh CLI.
// Board columns are represented as issue labels; moving a task to the
// done column also closes the issue so dependents unblock.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

const (
	maxAttempts = 3
	retryDelay  = 500 * time.Millisecond
	listLimit   = 200
)

// Ensure GH implements the domain port.
var _ domain.Tracker = (*GH)(nil)

// GH implements domain.Tracker by shelling out to gh. Transient query
// failures are retried here with a fixed backoff; callers see only the
// final error.
type GH struct {
	exec   domain.CommandExecutor
	logger domain.Logger
	cfg    domain.TrackerConfig
	dir    string
}

// New creates a GH tracker rooted at the repository directory.
func New(exec domain.CommandExecutor, logger domain.Logger, cfg domain.TrackerConfig, dir string) *GH {
	return &GH{exec: exec, logger: logger, cfg: cfg, dir: dir}
}

// ghIssue is the subset of gh's issue JSON we consume.
type ghIssue struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Number int `json:"number"`
}

func (i ghIssue) labelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// ListReadyTasks returns open issues carrying the ready label, in the
// order gh reports them.
func (g *GH) ListReadyTasks(ctx context.Context) ([]*domain.Task, error) {
	out, err := g.run(ctx, "issue", "list",
		"--state", "open",
		"--label", g.cfg.ReadyLabel,
		"--json", "number,title,body,labels",
		"--limit", strconv.Itoa(listLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("list ready issues: %w", err)
	}

	var issues []ghIssue
	if err := json.Unmarshal(out, &issues); err != nil {
		return nil, fmt.Errorf("parse issue list: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(issues))
	for _, issue := range issues {
		tasks = append(tasks, &domain.Task{
			ID:     issue.Number,
			Title:  issue.Title,
			Body:   issue.Body,
			Column: g.cfg.ReadyColumn,
			Labels: issue.labelNames(),
		})
	}
	return tasks, nil
}

// IsTaskClosed reports whether the issue is closed.
func (g *GH) IsTaskClosed(ctx context.Context, id int) (bool, error) {
	out, err := g.run(ctx, "issue", "view", strconv.Itoa(id), "--json", "state")
	if err != nil {
		return false, fmt.Errorf("view issue #%d: %w", id, err)
	}

	var issue ghIssue
	if err := json.Unmarshal(out, &issue); err != nil {
		return false, fmt.Errorf("parse issue #%d: %w", id, err)
	}
	return strings.EqualFold(issue.State, "closed"), nil
}

// ghTimelineEvent is the subset of the issue timeline JSON we consume.
type ghTimelineEvent struct {
	Event  string `json:"event"`
	Source struct {
		Issue struct {
			Number int `json:"number"`
		} `json:"issue"`
	} `json:"source"`
}

// LinkedIssues returns the issues cross-referenced to an issue on its
// timeline, excluding the issue itself.
func (g *GH) LinkedIssues(ctx context.Context, id int) ([]int, error) {
	out, err := g.run(ctx, "api", fmt.Sprintf("repos/{owner}/{repo}/issues/%d/timeline", id))
	if err != nil {
		return nil, fmt.Errorf("timeline for issue #%d: %w", id, err)
	}

	var events []ghTimelineEvent
	if err := json.Unmarshal(out, &events); err != nil {
		return nil, fmt.Errorf("parse timeline for issue #%d: %w", id, err)
	}

	var linked []int
	for _, ev := range events {
		n := ev.Source.Issue.Number
		if ev.Event != "cross-referenced" || n == 0 || n == id {
			continue
		}
		if !slices.Contains(linked, n) {
			linked = append(linked, n)
		}
	}
	slices.Sort(linked)
	return linked, nil
}

// IsPRMerged reports whether the pull request has been merged.
func (g *GH) IsPRMerged(ctx context.Context, ref string) (bool, error) {
	out, err := g.run(ctx, "pr", "view", ref, "--json", "state")
	if err != nil {
		return false, fmt.Errorf("view pull request %s: %w", ref, err)
	}

	var pr struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(out, &pr); err != nil {
		return false, fmt.Errorf("parse pull request %s: %w", ref, err)
	}
	return strings.EqualFold(pr.State, "merged"), nil
}

// MoveTask moves a task to another board column by swapping column
// labels. Moving to the done column additionally closes the issue.
func (g *GH) MoveTask(ctx context.Context, id int, toColumn string) error {
	args := []string{"issue", "edit", strconv.Itoa(id), "--add-label", toColumn}
	for _, col := range []string{g.cfg.ReadyColumn, g.cfg.DoneColumn, g.cfg.FailedColumn} {
		if col != "" && col != toColumn {
			args = append(args, "--remove-label", col)
		}
	}
	if _, err := g.run(ctx, args...); err != nil {
		return fmt.Errorf("move issue #%d to %q: %w", id, toColumn, err)
	}

	if toColumn == g.cfg.DoneColumn {
		if _, err := g.run(ctx, "issue", "close", strconv.Itoa(id)); err != nil {
			return fmt.Errorf("close issue #%d: %w", id, err)
		}
	}
	return nil
}

// SetLabels replaces the labels on an issue. gh edits labels by delta,
// so the current set is read first and the difference applied.
func (g *GH) SetLabels(ctx context.Context, id int, labels []string) error {
	out, err := g.run(ctx, "issue", "view", strconv.Itoa(id), "--json", "labels")
	if err != nil {
		return fmt.Errorf("view issue #%d: %w", id, err)
	}
	var issue ghIssue
	if err := json.Unmarshal(out, &issue); err != nil {
		return fmt.Errorf("parse issue #%d: %w", id, err)
	}
	current := issue.labelNames()

	args := []string{"issue", "edit", strconv.Itoa(id)}
	changed := false
	for _, l := range labels {
		if !slices.Contains(current, l) {
			args = append(args, "--add-label", l)
			changed = true
		}
	}
	for _, l := range current {
		if !slices.Contains(labels, l) {
			args = append(args, "--remove-label", l)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if _, err := g.run(ctx, args...); err != nil {
		return fmt.Errorf("edit labels on issue #%d: %w", id, err)
	}
	return nil
}

// run executes gh with bounded retries.
func (g *GH) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := &domain.ExecCommand{Program: "gh", Args: args, Dir: g.dir}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := g.exec.Execute(ctx, cmd)
		if err == nil {
			return out, nil
		}
		lastErr = fmt.Errorf("gh %s: %w: %s", strings.Join(args[:2], " "), err, strings.TrimSpace(string(out)))
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt < maxAttempts {
			g.logger.Warn(0, "tracker", fmt.Sprintf("gh attempt %d/%d failed: %v", attempt, maxAttempts, err))
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(retryDelay):
			}
		}
	}
	return nil, lastErr
}
