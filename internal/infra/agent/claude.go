// Package agent invokes the external code-generation agent CLI and
// translates its stream-json output into telemetry events.
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure Claude implements the domain port.
var _ domain.AgentRunner = (*Claude)(nil)

// prExpr matches a pull-request URL in the agent's result text.
var prExpr = regexp.MustCompile(`https://github\.com/[^\s"]+/pull/\d+`)

// Claude runs the claude CLI with --output-format stream-json and
// parses one JSON object per stdout line. Cost is reported cumulatively
// by the CLI; the adapter converts it to deltas so the budget ledger can
// be fed as the stream arrives.
type Claude struct {
	logger domain.Logger
	cfg    domain.AgentConfig
}

// New creates a Claude agent runner.
func New(logger domain.Logger, cfg domain.AgentConfig) *Claude {
	return &Claude{logger: logger, cfg: cfg}
}

// Run starts the agent for the task. The returned channel carries cost
// and status events followed by exactly one exit event, then closes.
func (c *Claude) Run(ctx context.Context, task *domain.Task, workDir string) (<-chan domain.AgentEvent, error) {
	args := append(strings.Fields(c.cfg.Args), buildPrompt(task))
	// #nosec G204 - the command comes from validated configuration
	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	cmd.Dir = workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("agent stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", c.cfg.Command, domain.ErrAgentNotFound)
		}
		return nil, fmt.Errorf("start agent: %w", err)
	}
	c.logger.Debug(task.ID, "agent", fmt.Sprintf("exec %s (pid %d)", c.cfg.Command, cmd.Process.Pid))

	events := make(chan domain.AgentEvent)
	go func() {
		defer close(events)

		var (
			lastCost float64
			pr       string
		)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			for _, ev := range parseLine(line, &lastCost, &pr) {
				select {
				case events <- ev:
				case <-ctx.Done():
					_ = cmd.Wait()
					return
				}
			}
		}

		err := cmd.Wait()
		exit := domain.AgentEvent{Kind: domain.AgentEventExit, PR: pr}
		var exitErr *exec.ExitError
		switch {
		case err == nil:
		case errors.As(err, &exitErr):
			exit.ExitCode = exitErr.ExitCode()
		default:
			exit.Err = err
		}
		select {
		case events <- exit:
		case <-ctx.Done():
		}
	}()
	return events, nil
}

// streamLine is the subset of the CLI's stream-json lines we consume.
type streamLine struct {
	Type      string  `json:"type"`
	Subtype   string  `json:"subtype"`
	Result    string  `json:"result"`
	TotalCost float64 `json:"total_cost_usd"`
	IsError   bool    `json:"is_error"`
}

// parseLine converts one stream-json line into telemetry events.
// Unparseable lines are dropped; the stream carries free-form text when
// the agent misbehaves, and losing a line only delays cost accounting
// to the next one.
func parseLine(line []byte, lastCost *float64, pr *string) []domain.AgentEvent {
	if len(line) == 0 {
		return nil
	}
	var parsed streamLine
	if err := json.Unmarshal(line, &parsed); err != nil {
		return nil
	}

	var events []domain.AgentEvent

	if parsed.TotalCost > *lastCost {
		events = append(events, domain.AgentEvent{
			Kind:      domain.AgentEventCost,
			CostDelta: parsed.TotalCost - *lastCost,
		})
		*lastCost = parsed.TotalCost
	}

	switch parsed.Type {
	case "system":
		if parsed.Subtype != "" {
			events = append(events, domain.AgentEvent{Kind: domain.AgentEventStatus, Status: parsed.Subtype})
		}
	case "result":
		if m := prExpr.FindString(parsed.Result); m != "" {
			*pr = m
		}
		status := parsed.Subtype
		if status == "" {
			status = "result"
		}
		events = append(events, domain.AgentEvent{Kind: domain.AgentEventStatus, Status: status})
	}
	return events
}

// buildPrompt renders the task into the agent's work instruction.
func buildPrompt(task *domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Work on issue #%d: %s\n", task.ID, task.Title)
	if body := strings.TrimSpace(task.Body); body != "" {
		fmt.Fprintf(&b, "\n%s\n", body)
	}
	b.WriteString("\nImplement the change, run the tests, and open a pull request referencing the issue.")
	return b.String()
}
