package tui

import (
	"fmt"
	stdtime "time"

	"github.com/MikeBiancalana/calpick/internal/blackout"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// Message Handlers
//
// These methods handle specific message types, keeping the main Update()
// function a plain dispatcher. Each handler follows the pattern:
//
//   func (m *Model) handle<MessageType>(msg <MessageType>) (tea.Model, tea.Cmd)

// handleWindowSize handles terminal resize events
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.terminalTooSmall = msg.Width < MinTerminalWidth || msg.Height < MinTerminalHeight

	m.statusBar.SetWidth(msg.Width)
	m.picker.SetWidth(CalculatePaneDimensions(msg.Width, msg.Height).PickerWidth)
	return m, nil
}

// handlePickerSelect stores the committed value and ends the program.
func (m *Model) handlePickerSelect(msg components.DatePickerSelectMsg) (tea.Model, tea.Cmd) {
	logger.Debug("tui: value selected", "value", msg.Value, "range", msg.RangeStart != nil)
	m.result = &msg
	return m, m.quit()
}

func (m *Model) handlePickerCancel(_ components.DatePickerCancelMsg) (tea.Model, tea.Cmd) {
	logger.Debug("tui: picker cancelled")
	m.cancelled = true
	return m, m.quit()
}

// handleBlackoutsLoaded replaces the blackout cache. Sources that failed
// are reported; dates from the others are still used.
func (m *Model) handleBlackoutsLoaded(msg blackoutsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		// Loaded with a resolver that a reload replaced
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.lastError = fmt.Errorf("some blackout sources failed: %w", msg.err)
	}

	m.blackouts = msg.dates
	m.loadedFrom, m.loadedTo = msg.from, msg.to
	logger.Debug("tui: blackout dates loaded", "count", len(msg.dates), "from", msg.from, "to", msg.to)

	// Re-rendering may ask for a window outside the new cache
	m.picker.SetDisabledSource(m.disabledDates)
	return m, m.pendingBlackouts()
}

// handleConfigReloaded applies a configuration the watcher re-read. A file
// that fails to load keeps the current configuration.
func (m *Model) handleConfigReloaded(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	next := m.waitForFileChange()

	if msg.event.Err != nil {
		m.lastError = fmt.Errorf("config reload failed: %w", msg.event.Err)
		return m, next
	}
	cfg := msg.event.Config
	if cfg == nil {
		return m, next
	}

	construct, err := cfg.Constructor()
	if err != nil {
		m.lastError = err
		return m, next
	}
	resolver, err := blackout.FromConfig(cfg, m.repo, construct(nil).Location())
	if err != nil {
		m.lastError = err
		return m, next
	}

	logger.Info("tui: configuration reloaded", "path", msg.event.FilePath)
	if m.watcher != nil {
		// Follow ICS files the new configuration added
		if err := m.watcher.Add(cfg.ICSFiles...); err != nil {
			logger.Warn("tui: failed to watch ICS files", "error", err)
		}
	}
	m.cfg = cfg
	m.resolver = resolver
	m.lastError = nil
	m.statusBar.SetMessage("configuration reloaded", false)

	// Drop the cache; the refresh below asks for the visible window again.
	m.generation++
	m.blackouts = nil
	m.loadedFrom, m.loadedTo = stdtime.Time{}, stdtime.Time{}
	m.loading = false
	m.picker.Reconfigure(construct, cfg.Options(), cfg.Params())
	m.statusBar.SetMode(m.picker.Mode().String())

	return m, tea.Batch(next, m.pendingBlackouts())
}

// handleError handles error messages
func (m *Model) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	m.lastError = msg.err
	return m, nil
}
