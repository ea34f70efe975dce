package cli

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// datePickerModel runs a DatePicker inline, without the full screen model.
type datePickerModel struct {
	picker   *components.DatePicker
	initial  time.Time
	value    time.Time
	canceled bool
}

func (m datePickerModel) Init() tea.Cmd {
	return m.picker.Show(m.initial)
}

func (m datePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Allow ctrl+c to quit
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}

	case components.DatePickerSelectMsg:
		m.value = msg.Value
		return m, tea.Quit

	case components.DatePickerCancelMsg:
		m.canceled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m datePickerModel) View() string {
	return m.picker.View()
}

// PickDate lets the user pick a single date inline. disabled may be nil.
// Returns the date, whether it was canceled, and any error.
func PickDate(title string, construct datehandler.Constructor, params calendar.Params, initial time.Time, disabled components.DisabledFunc) (date time.Time, canceled bool, err error) {
	picker := components.NewDatePicker(title, construct, calendar.Options{Date: true}, params)
	if disabled != nil {
		picker.SetDisabledSource(disabled)
	}

	m := datePickerModel{
		picker:  picker,
		initial: initial,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to run date picker: %w", err)
	}

	result := finalModel.(datePickerModel)
	return result.value, result.canceled, nil
}
