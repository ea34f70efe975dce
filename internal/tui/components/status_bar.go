package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)
)

// StatusBar represents the status bar component
type StatusBar struct {
	width   int
	mode    string
	message string
	isError bool
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetWidth sets the width of the status bar
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetMode sets the picker mode shown at the left
func (sb *StatusBar) SetMode(mode string) {
	sb.mode = mode
}

// SetMessage replaces the hints with message. An empty message restores
// them.
func (sb *StatusBar) SetMessage(message string, isError bool) {
	sb.message = message
	sb.isError = isError
}

// View renders the status bar
func (sb *StatusBar) View() string {
	text := "ctrl+c:quit esc:cancel enter:select v:zoom /:type"
	style := statusBarStyle
	if sb.message != "" {
		text = sb.message
		if sb.isError {
			style = statusBarErrorStyle
		}
	}
	if sb.mode != "" {
		text = "[" + sb.mode + "] " + text
	}

	// Truncate if too long
	if sb.width > 5 && len(text) > sb.width-2 {
		text = text[:sb.width-5] + "..."
	}

	if sb.width > 0 {
		style = style.Width(sb.width)
	}
	return style.Render(text)
}
