package tui

import (
	"fmt"
	stdtime "time"

	"github.com/MikeBiancalana/calpick/internal/blackout"
	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/storage"
	"github.com/MikeBiancalana/calpick/internal/sync"
	"github.com/MikeBiancalana/calpick/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Minimum terminal dimensions
const (
	MinTerminalWidth  = 40
	MinTerminalHeight = 20
)

// Model hosts a date picker full screen. It keeps the picker's disabled
// dates in sync with the configured blackout sources and reconfigures the
// picker when the configuration file changes.
//
// Commands capture the values they need before returning their closure; see
// commands.go.
type Model struct {
	cfg      *config.Picker
	repo     *storage.BlackoutRepository
	resolver *blackout.Resolver
	watcher  *sync.Watcher
	initial  stdtime.Time

	picker    *components.DatePicker
	statusBar *components.StatusBar

	// Blackout cache. wantFrom is non-zero when the picker showed a window
	// the cache does not cover.
	blackouts            []stdtime.Time
	loadedFrom, loadedTo stdtime.Time
	wantFrom, wantTo     stdtime.Time
	loading              bool
	generation           int

	result    *components.DatePickerSelectMsg
	cancelled bool
	lastError error

	width            int
	height           int
	terminalTooSmall bool
}

// NewModel creates a model for cfg showing initial (zero means now). repo
// may be nil. A non-empty configPath enables live reload.
func NewModel(cfg *config.Picker, initial stdtime.Time, repo *storage.BlackoutRepository, configPath string) (*Model, error) {
	construct, err := cfg.Constructor()
	if err != nil {
		return nil, err
	}
	resolver, err := blackout.FromConfig(cfg, repo, construct(nil).Location())
	if err != nil {
		return nil, fmt.Errorf("failed to configure blackout dates: %w", err)
	}

	m := &Model{
		cfg:       cfg,
		repo:      repo,
		resolver:  resolver,
		initial:   initial,
		statusBar: components.NewStatusBar(),
	}
	m.picker = components.NewDatePicker(title(cfg), construct, cfg.Options(), cfg.Params())
	m.picker.SetDisabledSource(m.disabledDates)

	if configPath != "" {
		watcher, err := sync.NewWatcher(configPath)
		if err != nil {
			// Continue without live reload
			logger.Warn("tui: config watcher unavailable", "error", err)
		} else {
			m.watcher = watcher
		}
	}
	return m, nil
}

func title(cfg *config.Picker) string {
	switch {
	case cfg.Range:
		return "Select a range"
	case cfg.Time && !cfg.Date:
		return "Select a time"
	default:
		return "Select a date"
	}
}

// Result returns the committed value, if the user made one.
func (m *Model) Result() (components.DatePickerSelectMsg, bool) {
	if m.result == nil {
		return components.DatePickerSelectMsg{}, false
	}
	return *m.result, true
}

// Cancelled reports whether the user dismissed the picker.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Show(m.initial)}
	m.statusBar.SetMode(m.picker.Mode().String())

	if m.watcher != nil {
		if err := m.watcher.Start(m.cfg.ICSFiles...); err != nil {
			logger.Warn("tui: failed to start config watcher", "error", err)
		} else {
			cmds = append(cmds, m.waitForFileChange())
		}
	}
	cmds = append(cmds, m.pendingBlackouts())

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case components.DatePickerSelectMsg:
		return m.handlePickerSelect(msg)

	case components.DatePickerCancelMsg:
		return m.handlePickerCancel(msg)

	case blackoutsLoadedMsg:
		return m.handleBlackoutsLoaded(msg)

	case configReloadedMsg:
		return m.handleConfigReloaded(msg)

	case errMsg:
		return m.handleError(msg)
	}

	// Forward everything else (cursor blink and the like) to the picker
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// View renders the model
func (m *Model) View() string {
	if m.terminalTooSmall {
		return fmt.Sprintf(
			"Terminal too small: %dx%d\nMinimum required: %dx%d\n\nPlease resize your terminal.",
			m.width, m.height, MinTerminalWidth, MinTerminalHeight)
	}

	if m.lastError != nil {
		m.statusBar.SetMessage(m.lastError.Error(), true)
	}

	picker := m.picker.View()
	if m.width == 0 || m.height == 0 {
		return picker + "\n" + m.statusBar.View()
	}

	dims := CalculatePaneDimensions(m.width, m.height)
	body := lipgloss.Place(dims.PickerWidth, dims.PickerHeight, lipgloss.Center, lipgloss.Center, picker)
	return body + "\n" + m.statusBar.View()
}

// Message types
type blackoutsLoadedMsg struct {
	generation int
	from, to   stdtime.Time
	dates      []stdtime.Time
	err        error
}

type configReloadedMsg struct {
	event sync.ReloadEvent
}

type errMsg struct {
	err error
}

func (e errMsg) Error() string {
	return e.err.Error()
}
