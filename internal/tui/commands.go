package tui

import (
	"context"
	"log/slog"
	stdtime "time"

	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/perf"
	tea "github.com/charmbracelet/bubbletea"
)

// Command Builders
//
// These methods create tea.Cmd functions for async operations. They capture
// every value they need BEFORE returning the closure; the model may change
// before the command runs.

const (
	blackoutTimeout = 5 * stdtime.Second
	// blackoutMargin widens every load so paging a few months stays cached.
	blackoutMargin = 6
)

// disabledDates serves the picker from the blackout cache. A window the
// cache does not cover is remembered and loaded after the current update.
func (m *Model) disabledDates(from, to stdtime.Time) []stdtime.Time {
	if m.loadedFrom.IsZero() || from.Before(m.loadedFrom) || to.After(m.loadedTo) {
		m.wantFrom, m.wantTo = from, to
	}

	var out []stdtime.Time
	for _, d := range m.blackouts {
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
	}
	return out
}

// pendingBlackouts loads the window the picker last asked for, if the cache
// misses it and no load is running.
func (m *Model) pendingBlackouts() tea.Cmd {
	if m.wantFrom.IsZero() || m.loading {
		return nil
	}
	from := m.wantFrom.AddDate(0, -blackoutMargin, 0)
	to := m.wantTo.AddDate(0, blackoutMargin, 0)
	m.wantFrom, m.wantTo = stdtime.Time{}, stdtime.Time{}
	m.loading = true
	return m.loadBlackouts(from, to)
}

// loadBlackouts resolves disabled dates between from and to
func (m *Model) loadBlackouts(from, to stdtime.Time) tea.Cmd {
	capturedResolver := m.resolver
	capturedGeneration := m.generation

	return func() tea.Msg {
		defer perf.Track("tui.loadBlackouts", logger.GetLogger(), 100*stdtime.Millisecond).Stop()

		ctx, cancel := context.WithTimeout(context.Background(), blackoutTimeout)
		defer cancel()

		logger.Debug("tui: loading blackout dates", "from", from, "to", to)
		dates, err := capturedResolver.Dates(ctx, from, to)
		return blackoutsLoadedMsg{generation: capturedGeneration, from: from, to: to, dates: dates, err: err}
	}
}

// waitForFileChange waits for the next configuration reload from the
// watcher. The closure blocks on the watcher channel, not the update loop.
func (m *Model) waitForFileChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()

	return func() tea.Msg {
		event, ok := <-changes
		if !ok {
			return nil
		}
		return configReloadedMsg{event: event}
	}
}

// quit stops background work and ends the program.
func (m *Model) quit() tea.Cmd {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	perf.LogAll(slog.LevelDebug)
	return tea.Quit
}
