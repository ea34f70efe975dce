package components

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MikeBiancalana/calpick/internal/blackout"
	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	datePickerBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")).
				Padding(1, 2)

	datePickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	datePickerHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	datePickerWeekdayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	datePickerCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7"))

	datePickerCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("4")).
				Bold(true)

	datePickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("39"))

	datePickerDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("238"))

	datePickerTodayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Underline(true)

	datePickerPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("40")).
				Italic(true)

	datePickerErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Italic(true)

	datePickerHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

// DatePickerSelectMsg is sent when the user commits a value. RangeStart is
// set for range pickers.
type DatePickerSelectMsg struct {
	Value      time.Time
	RangeStart *time.Time
}

// DatePickerCancelMsg is sent when the user dismisses the picker.
type DatePickerCancelMsg struct{}

// DisabledFunc returns the dates to disable between from and to, inclusive.
type DisabledFunc func(from, to time.Time) []time.Time

// DatePicker is a TUI component that hosts the calendar grids
type DatePicker struct {
	cal       *calendar.Calendar
	construct datehandler.Constructor
	params    calendar.Params
	disabled  DisabledFunc

	value time.Time
	view  time.Time
	mode  calendar.Mode
	cells []calendar.Cell

	cursor int

	rangeStart *time.Time
	hoverEnd   *time.Time
	// pendingAnchor is set between the start click and the end of its
	// hour and minute picks.
	pendingAnchor bool
	anchored      bool

	keys DatePickerKeyMap
	help help.Model

	entry    textinput.Model
	entering bool
	error    string
	preview  string

	visible bool
	title   string
	width   int

	now     func() time.Time
	pending tea.Msg
}

// NewDatePicker creates a new date picker component
func NewDatePicker(title string, construct datehandler.Constructor, opts calendar.Options, params calendar.Params) *DatePicker {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD, t, tm, mon-sun, +3d, +2w"
	ti.CharLimit = 100
	ti.Width = 30

	h := help.New()
	h.ShowAll = true

	dp := &DatePicker{
		construct: construct,
		params:    params,
		keys:      DefaultDatePickerKeyMap(),
		help:      h,
		entry:     ti,
		title:     title,
		now:       time.Now,
	}
	dp.cal = &calendar.Calendar{
		New:           construct,
		Options:       opts,
		Params:        params,
		OnDateSelect:  dp.onDateSelect,
		OnChangeMonth: dp.onChangeView,
		OnChangeYear:  dp.onChangeView,
	}
	dp.mode = calendar.InitialMode(opts)
	return dp
}

// Show displays the picker at value. A zero value means now.
func (dp *DatePicker) Show(value time.Time) tea.Cmd {
	if value.IsZero() {
		value = dp.now()
	}
	h := dp.construct(value)
	dp.value = h.Time()
	dp.view = dp.value
	dp.mode = calendar.InitialMode(dp.cal.Options)
	dp.resetRange()
	dp.visible = true
	dp.closeEntry()
	dp.refresh()
	return nil
}

// Hide hides the date picker
func (dp *DatePicker) Hide() {
	dp.visible = false
	dp.closeEntry()
}

func (dp *DatePicker) IsVisible() bool {
	return dp.visible
}

func (dp *DatePicker) Value() time.Time {
	return dp.value
}

func (dp *DatePicker) Mode() calendar.Mode {
	return dp.mode
}

// RangeStart returns the committed start of a range, or nil.
func (dp *DatePicker) RangeStart() *time.Time {
	return dp.rangeStart
}

// Cells returns the grid currently shown.
func (dp *DatePicker) Cells() []calendar.Cell {
	return dp.cells
}

func (dp *DatePicker) Cursor() int {
	return dp.cursor
}

// SetWidth centers the picker in width columns.
func (dp *DatePicker) SetWidth(width int) {
	dp.width = width
}

// SetDisabledSource installs the lookup used to disable dates around the
// visible month.
func (dp *DatePicker) SetDisabledSource(fn DisabledFunc) {
	dp.disabled = fn
	if dp.visible {
		dp.refresh()
	}
}

// Reconfigure swaps the handler and grid parameters, e.g. after the
// configuration file changed. The current value is kept.
func (dp *DatePicker) Reconfigure(construct datehandler.Constructor, opts calendar.Options, params calendar.Params) {
	dp.construct = construct
	dp.params = params
	dp.cal.New = construct
	dp.cal.Params = params
	if dp.cal.Options != opts {
		dp.cal.Options = opts
		dp.mode = calendar.InitialMode(opts)
		dp.resetRange()
	}
	if dp.visible {
		dp.refresh()
	}
}

func (dp *DatePicker) resetRange() {
	dp.rangeStart = nil
	dp.hoverEnd = nil
	dp.pendingAnchor = false
	dp.anchored = false
}

func (dp *DatePicker) onDateSelect(_ calendar.Event, value time.Time, next calendar.Mode, rangeAnchor *time.Time) {
	from := dp.mode
	dp.value = value
	dp.view = value
	dp.mode = next

	if rangeAnchor != nil {
		dp.pendingAnchor = true
	}
	if dp.pendingAnchor && next == calendar.ModeDay && (from == calendar.ModeDay || from == calendar.ModeMinute) {
		start := value
		dp.rangeStart = &start
		dp.hoverEnd = nil
		dp.pendingAnchor = false
		dp.anchored = true
	}

	if next != calendar.ModeNone {
		return
	}

	msg := DatePickerSelectMsg{Value: value}
	if dp.anchored && dp.rangeStart != nil {
		start := *dp.rangeStart
		msg.RangeStart = &start
	}
	dp.pending = msg
	logger.Info("date picker: value committed", "value", value, "range", msg.RangeStart != nil)

	dp.mode = calendar.InitialMode(dp.cal.Options)
	dp.anchored = false
	dp.Hide()
}

func (dp *DatePicker) onChangeView(_ calendar.Event, view time.Time) {
	dp.view = view
}

func (dp *DatePicker) onHover(_ calendar.Event, date time.Time) {
	d := date
	dp.hoverEnd = &d
}

// refresh rebuilds the grid for the current mode and view and puts the
// cursor on the cell for the view.
func (dp *DatePicker) refresh() {
	p := dp.params
	if dp.disabled != nil && dp.mode == calendar.ModeDay {
		from, to := blackout.Window(dp.view)
		p.DisabledDates = append(slices.Clone(p.DisabledDates), dp.disabled(from, to)...)
	}

	switch {
	case dp.anchored:
		p.SelectionStart = dp.rangeStart
		p.SelectionEnd = dp.rangeStart
		if dp.hoverEnd != nil {
			p.SelectionEnd = dp.hoverEnd
		}
		p.InclusiveSingleDay = true
		p.OnHover = dp.onHover
	case dp.rangeStart != nil:
		value := dp.value
		p.SelectionStart = dp.rangeStart
		p.SelectionEnd = &value
	default:
		value := dp.value
		p.SelectionStart = &value
		p.SelectionEnd = &value
		p.InclusiveSingleDay = true
	}

	dp.keys.setMode(dp.mode)
	dp.cal.Params = p
	dp.cal.Phase = calendar.PhaseFor(dp.cal.Options, dp.anchored)
	dp.cells = dp.cal.Cells(dp.view, dp.mode)
	dp.cursor = dp.cursorFor(dp.view)
}

func (dp *DatePicker) cursorFor(t time.Time) int {
	step := dp.params.MinuteStep
	if step <= 0 {
		step = calendar.DefaultMinuteStep
	}
	sig := datehandler.Signature(t)

	for i, c := range dp.cells {
		var match bool
		switch dp.mode {
		case calendar.ModeDay:
			match = !c.Date.IsZero() && datehandler.Signature(c.Date) == sig
		case calendar.ModeMonth:
			match = c.Value == int(t.Month())
		case calendar.ModeYear:
			match = c.Value == t.Year()
		case calendar.ModeHour:
			match = c.Value == t.Hour()
		case calendar.ModeMinute:
			match = c.Value == t.Minute()/step*step
		}
		if match {
			return i
		}
	}
	return 0
}

func (dp *DatePicker) moveCursor(delta int) {
	if len(dp.cells) == 0 {
		return
	}
	dp.cursor = min(max(dp.cursor+delta, 0), len(dp.cells)-1)
	if dp.anchored {
		dp.cells[dp.cursor].Hover(nil)
		dp.refreshKeepCursor()
	}
}

// refreshKeepCursor rebuilds the grid without moving the cursor.
func (dp *DatePicker) refreshKeepCursor() {
	cursor := dp.cursor
	dp.refresh()
	dp.cursor = min(cursor, max(len(dp.cells)-1, 0))
}

func (dp *DatePicker) emit() tea.Cmd {
	if dp.pending == nil {
		return nil
	}
	msg := dp.pending
	dp.pending = nil
	return func() tea.Msg { return msg }
}

// Update handles Bubble Tea messages
func (dp *DatePicker) Update(msg tea.Msg) (*DatePicker, tea.Cmd) {
	if !dp.visible {
		return dp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if dp.entering {
			var cmd tea.Cmd
			dp.entry, cmd = dp.entry.Update(msg)
			return dp, cmd
		}
		return dp, nil
	}

	if dp.entering {
		return dp.updateEntry(keyMsg)
	}

	cols := calendar.Columns(dp.mode)
	switch {
	case key.Matches(keyMsg, dp.keys.Cancel):
		dp.Hide()
		dp.resetRange()
		return dp, func() tea.Msg { return DatePickerCancelMsg{} }
	case key.Matches(keyMsg, dp.keys.Left):
		dp.moveCursor(-1)
	case key.Matches(keyMsg, dp.keys.Right):
		dp.moveCursor(1)
	case key.Matches(keyMsg, dp.keys.Up):
		dp.moveCursor(-cols)
	case key.Matches(keyMsg, dp.keys.Down):
		dp.moveCursor(cols)
	case key.Matches(keyMsg, dp.keys.Select):
		if dp.cursor < len(dp.cells) && !dp.cells[dp.cursor].Disabled {
			dp.cells[dp.cursor].Click(keyMsg)
			if dp.visible {
				dp.refresh()
			}
		}
		return dp, dp.emit()
	case key.Matches(keyMsg, dp.keys.Prev):
		dp.cal.Page(keyMsg, dp.view, dp.mode, -1)
		dp.refresh()
	case key.Matches(keyMsg, dp.keys.Next):
		dp.cal.Page(keyMsg, dp.view, dp.mode, 1)
		dp.refresh()
	case key.Matches(keyMsg, dp.keys.Zoom):
		dp.cal.ChangeMode(keyMsg, dp.value, dp.mode)
		dp.refresh()
	case key.Matches(keyMsg, dp.keys.Today):
		dp.view = dp.construct(dp.now()).Time()
		dp.refresh()
	case key.Matches(keyMsg, dp.keys.Type):
		dp.entering = true
		dp.entry.SetValue("")
		return dp, dp.entry.Focus()
	}
	return dp, nil
}

func (dp *DatePicker) updateEntry(msg tea.KeyMsg) (*DatePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		dp.closeEntry()
		return dp, nil
	case tea.KeyEnter:
		input := dp.entry.Value()
		if strings.TrimSpace(input) == "" {
			dp.error = "Please enter a date"
			return dp, nil
		}
		h, err := ParseRelativeDate(input, dp.construct(dp.now()), dp.construct)
		if err != nil {
			dp.error = "Invalid date: " + err.Error()
			return dp, nil
		}
		dp.value = h.Time()
		dp.view = dp.value
		dp.mode = calendar.InitialMode(dp.cal.Options)
		dp.closeEntry()
		dp.refresh()
		return dp, nil
	}

	var cmd tea.Cmd
	dp.entry, cmd = dp.entry.Update(msg)
	dp.updatePreview()
	return dp, cmd
}

func (dp *DatePicker) closeEntry() {
	dp.entering = false
	dp.entry.Blur()
	dp.entry.SetValue("")
	dp.error = ""
	dp.preview = ""
}

// updatePreview updates the preview and error messages based on current input
func (dp *DatePicker) updatePreview() {
	input := dp.entry.Value()
	if strings.TrimSpace(input) == "" {
		dp.error = ""
		dp.preview = ""
		return
	}

	h, err := ParseRelativeDate(input, dp.construct(dp.now()), dp.construct)
	if err != nil {
		dp.error = err.Error()
		dp.preview = ""
		return
	}
	dp.error = ""
	dp.preview = dp.cal.FormatValue(h) + " (" + GetDateDescription(h.Time(), dp.now()) + ")"
}

// View renders the date picker
func (dp *DatePicker) View() string {
	if !dp.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(datePickerTitleStyle.Render(dp.title) + "\n\n")
	b.WriteString(datePickerHeaderStyle.Render(dp.heading()) + "\n")
	b.WriteString(dp.renderGrid())
	b.WriteString("\n")

	if value := dp.cal.FormatValue(dp.value); value != "" {
		label := "Value: "
		if dp.anchored && dp.rangeStart != nil {
			label = "From " + dp.cal.FormatValue(*dp.rangeStart) + " to: "
		}
		b.WriteString(label + value + "\n")
	}

	if dp.entering {
		b.WriteString("Date: " + dp.entry.View() + "\n")
		switch {
		case dp.error != "":
			b.WriteString(datePickerErrorStyle.Render("✗ "+dp.error) + "\n")
		case dp.preview != "":
			b.WriteString(datePickerPreviewStyle.Render("→ "+dp.preview) + "\n")
		default:
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dp.helpView())

	return lipgloss.PlaceHorizontal(dp.width, lipgloss.Center, datePickerBoxStyle.Render(b.String()))
}

func (dp *DatePicker) heading() string {
	h := dp.construct(dp.view)
	names := dp.params.MonthNames
	if len(names) != 12 {
		names = calendar.DefaultMonthNames()
	}

	switch dp.mode {
	case calendar.ModeDay:
		return fmt.Sprintf("< %s %d >", names[h.Month()-1], h.Year())
	case calendar.ModeMonth:
		return fmt.Sprintf("< %d >", h.Year())
	case calendar.ModeYear:
		if len(dp.cells) > 0 {
			return fmt.Sprintf("< %d - %d >", dp.cells[0].Value, dp.cells[len(dp.cells)-1].Value)
		}
	case calendar.ModeHour, calendar.ModeMinute:
		return h.FormatDate()
	}
	return ""
}

func (dp *DatePicker) renderGrid() string {
	cols := calendar.Columns(dp.mode)
	width := 0
	for _, c := range dp.cells {
		width = max(width, lipgloss.Width(c.Content))
	}
	headers := calendar.Headers(dp.mode, dp.params)
	if dp.mode == calendar.ModeDay {
		for _, h := range headers {
			width = max(width, lipgloss.Width(h))
		}
	}
	width += 2

	var b strings.Builder
	if dp.mode == calendar.ModeDay {
		row := make([]string, 0, len(headers))
		for _, h := range headers {
			row = append(row, datePickerWeekdayStyle.Width(width).Align(lipgloss.Center).Render(h))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	}

	today := datehandler.Signature(dp.now())
	for start := 0; start < len(dp.cells); start += cols {
		end := min(start+cols, len(dp.cells))
		row := make([]string, 0, cols)
		for i := start; i < end; i++ {
			row = append(row, dp.cellStyle(i, today).Width(width).Align(lipgloss.Center).Render(dp.cells[i].Content))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	}
	return b.String()
}

func (dp *DatePicker) cellStyle(i int, today string) lipgloss.Style {
	c := dp.cells[i]
	switch {
	case i == dp.cursor:
		return datePickerCursorStyle
	case c.Selected:
		return datePickerSelectedStyle
	case c.Disabled:
		return datePickerDisabledStyle
	case !c.Date.IsZero() && datehandler.Signature(c.Date) == today:
		return datePickerTodayStyle
	default:
		return datePickerCellStyle
	}
}

func (dp *DatePicker) helpView() string {
	if dp.entering {
		return datePickerHelpStyle.Render("esc back • enter jump")
	}
	return dp.help.View(dp.keys)
}
