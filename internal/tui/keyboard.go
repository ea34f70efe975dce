package tui

import (
	"github.com/MikeBiancalana/calpick/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

// Keyboard Handlers
//
// handleKeyPress is the keyboard dispatcher. Program-level keys are handled
// here; everything else goes to the picker, which owns navigation.

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		logger.Debug("tui: interrupted")
		m.cancelled = true
		return m, m.quit()
	}

	if m.terminalTooSmall {
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	m.statusBar.SetMode(m.picker.Mode().String())

	// Key presses clear transient status messages, not errors
	if m.lastError == nil {
		m.statusBar.SetMessage("", false)
	}

	return m, tea.Batch(cmd, m.pendingBlackouts())
}
