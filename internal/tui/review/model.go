// Package review provides the interactive TUI for deciding pending
// approval checkpoints.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
)

// Lister loads the pending approval artifacts.
type Lister interface {
	Execute(ctx context.Context) ([]domain.ApprovalArtifact, error)
}

// Decider records a terminal decision on a pending artifact.
type Decider interface {
	Execute(ctx context.Context, in usecase.DecideApprovalInput) error
}

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRejectMessage
	ModeDetail
)

// Model is the review TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	lister  Lister
	decider Decider

	pending []domain.ApprovalArtifact
	err     error
	status  string

	keys         KeyMap
	styles       Styles
	messageInput textinput.Model

	cursor int
	width  int
	height int
	mode   Mode

	loading bool
}

// New creates a new review TUI model.
func New(lister Lister, decider Decider) *Model {
	mi := textinput.New()
	mi.Placeholder = "Reason for rejection (optional)..."
	mi.CharLimit = 500

	return &Model{
		lister:       lister,
		decider:      decider,
		keys:         DefaultKeyMap(),
		styles:       DefaultStyles(),
		messageInput: mi,
		loading:      true,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.loadPending()
}

// loadPending loads the pending artifacts from the store.
func (m *Model) loadPending() tea.Cmd {
	return func() tea.Msg {
		pending, err := m.lister.Execute(context.Background())
		return MsgPendingLoaded{Pending: pending, Err: err}
	}
}

// decide records a decision for the artifact under the cursor.
func (m *Model) decide(decision domain.ApprovalDecision, message string) tea.Cmd {
	artifact := m.pending[m.cursor]
	return func() tea.Msg {
		err := m.decider.Execute(context.Background(), usecase.DecideApprovalInput{
			TaskID:     artifact.TaskID,
			Checkpoint: artifact.Checkpoint,
			Decision:   decision,
			Message:    message,
		})
		return MsgDecided{TaskID: artifact.TaskID, Decision: decision, Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MsgPendingLoaded:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.pending = msg.Pending
		if m.cursor >= len(m.pending) && m.cursor > 0 {
			m.cursor = len(m.pending) - 1
		}
		return m, nil

	case MsgDecided:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = fmt.Sprintf("Issue #%d: %s", msg.TaskID, msg.Decision)
		m.loading = true
		return m, m.loadPending()
	}

	return m, nil
}

// handleKey handles key events.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode { //nolint:exhaustive // ModeNormal handled in default
	case ModeRejectMessage:
		return m.handleRejectMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.pending)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Approve):
		if len(m.pending) > 0 {
			return m, m.decide(domain.DecisionApproved, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Reject):
		if len(m.pending) > 0 {
			m.mode = ModeRejectMessage
			m.messageInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		if len(m.pending) > 0 {
			return m, m.decide(domain.DecisionSkipped, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if len(m.pending) > 0 {
			m.mode = ModeDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadPending()
	}

	return m, nil
}

// handleRejectMode handles keys while entering a rejection message.
func (m *Model) handleRejectMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		message := m.messageInput.Value()
		m.mode = ModeNormal
		m.messageInput.Reset()
		return m, m.decide(domain.DecisionRejected, message)

	case "esc":
		m.mode = ModeNormal
		m.messageInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.messageInput, cmd = m.messageInput.Update(msg)
	return m, cmd
}

// handleDetailMode handles keys while the detail pane is open.
func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d", "enter", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

// View renders the TUI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Pending Approvals"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Age.Render("Loading..."))
		b.WriteString("\n")
	case len(m.pending) == 0:
		b.WriteString(m.styles.Age.Render("No pending approvals"))
		b.WriteString("\n")
	default:
		for i, a := range m.pending {
			line := fmt.Sprintf("#%-5d %-9s %-8s %s",
				a.TaskID, a.Checkpoint, age(a.Created), a.TaskTitle)
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render(line))
			} else {
				b.WriteString(m.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.mode == ModeDetail && m.cursor < len(m.pending) {
		b.WriteString("\n")
		b.WriteString(m.styles.Detail.Render(m.detailView(m.pending[m.cursor])))
		b.WriteString("\n")
	}

	if m.mode == ModeRejectMessage {
		b.WriteString("\n")
		b.WriteString(m.styles.Input.Render(m.messageInput.View()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Decided.Render(m.status))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.helpView()))
	return b.String()
}

// detailView renders the detail pane for one artifact.
func (m *Model) detailView(a domain.ApprovalArtifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue #%d: %s\n", a.TaskID, a.TaskTitle)
	fmt.Fprintf(&b, "Checkpoint: %s\n", a.Checkpoint)
	fmt.Fprintf(&b, "Waiting since: %s\n", a.Created.Format(time.DateTime))
	if a.Summary != "" {
		fmt.Fprintf(&b, "\n%s", a.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

// helpView renders the keybinding help line for the current mode.
func (m *Model) helpView() string {
	switch m.mode {
	case ModeRejectMessage:
		return "enter: confirm rejection • esc: cancel"
	case ModeDetail:
		return "esc: close"
	default:
		return "a: approve • r: reject • s: skip task • d: details • R: refresh • q: quit"
	}
}

// age formats how long an artifact has been waiting.
func age(created time.Time) string {
	d := time.Since(created).Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
