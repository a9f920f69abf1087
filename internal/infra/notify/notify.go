// Package notify delivers fire-and-forget event notifications by
// running a user-configured shell command.
package notify

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
)

// Ensure Command implements the domain port.
var _ domain.Notifier = (*Command)(nil)

// Command renders the configured template with the event payload and
// runs it through sh -c. An empty template disables notifications.
type Command struct {
	exec   domain.CommandExecutor
	logger domain.Logger
	tmpl   string
}

// New creates a Command notifier.
func New(exec domain.CommandExecutor, logger domain.Logger, cfg domain.NotifyConfig) *Command {
	return &Command{exec: exec, logger: logger, tmpl: cfg.Command}
}

// Send runs the notification command. The payload fields are available
// as template variables ({{.Event}}, {{.TaskID}}, {{.Title}}, ...).
func (n *Command) Send(ctx context.Context, event string, payload domain.NotifyPayload) error {
	if n.tmpl == "" {
		return nil
	}

	tmpl, err := template.New("notify").Parse(n.tmpl)
	if err != nil {
		return fmt.Errorf("parse notify command: %w", err)
	}
	var rendered strings.Builder
	if err := tmpl.Execute(&rendered, payload); err != nil {
		return fmt.Errorf("render notify command: %w", err)
	}

	out, err := n.exec.Execute(ctx, &domain.ExecCommand{
		Program: "sh",
		Args:    []string{"-c", rendered.String()},
	})
	if err != nil {
		return fmt.Errorf("notify %s: %w: %s", event, err, strings.TrimSpace(string(out)))
	}
	n.logger.Debug(payload.TaskID, "notify", fmt.Sprintf("sent %s", event))
	return nil
}
