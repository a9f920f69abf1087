package review

import "github.com/charmbracelet/lipgloss"

// Colors used in the review TUI.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the review TUI.
type Styles struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Normal     lipgloss.Style
	Checkpoint lipgloss.Style
	Age        lipgloss.Style
	Detail     lipgloss.Style
	Decided    lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Input      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1),
		Normal: lipgloss.NewStyle().
			Padding(0, 1),
		Checkpoint: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Age: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),
		Decided: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
	}
}
