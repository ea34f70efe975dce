package components

import (
	"strings"
	"testing"
	"time"

	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyPgDn  = tea.KeyMsg{Type: tea.KeyPgDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestPicker(t *testing.T, opts calendar.Options) *DatePicker {
	t.Helper()
	construct, err := datehandler.NewNative(datehandler.Settings{})
	require.NoError(t, err)

	dp := NewDatePicker("Pick a date", construct, opts, calendar.Params{})
	dp.now = func() time.Time { return localDate(2024, time.January, 10) }
	return dp
}

func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func press(dp *DatePicker, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		dp, cmd = dp.Update(msg)
	}
	return cmd
}

func cursorDate(dp *DatePicker) string {
	return dp.Cells()[dp.Cursor()].Date.Format("2006-01-02")
}

func selectedDays(dp *DatePicker) []int {
	var out []int
	for _, c := range dp.Cells() {
		if c.Selected && !c.Disabled {
			out = append(out, c.Value)
		}
	}
	return out
}

func TestNewDatePicker(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})

	assert.False(t, dp.IsVisible())
	assert.Equal(t, calendar.ModeDay, dp.Mode())
	assert.Equal(t, "", dp.View())
}

func TestDatePickerShowPlacesCursorOnValue(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	require.True(t, dp.IsVisible())
	assert.Len(t, dp.Cells(), 35)
	assert.Equal(t, "2024-01-15", cursorDate(dp))
	assert.Equal(t, []int{15}, selectedDays(dp))
}

func TestDatePickerShowZeroMeansNow(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(time.Time{})

	assert.Equal(t, "2024-01-10", dp.Value().Format("2006-01-02"))
}

func TestDatePickerSelectDayCommits(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	cmd := press(dp, keyRight, keyDown, keyEnter)
	require.NotNil(t, cmd)

	msg, ok := cmd().(DatePickerSelectMsg)
	require.True(t, ok)
	assert.Equal(t, "2024-01-23", msg.Value.Format("2006-01-02"))
	assert.Nil(t, msg.RangeStart)
	assert.False(t, dp.IsVisible())
}

func TestDatePickerCancel(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	cmd := press(dp, runes("l"), keyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, DatePickerCancelMsg{}, cmd())
	assert.False(t, dp.IsVisible())
	assert.Equal(t, "2024-01-15", dp.Value().Format("2006-01-02"), "moving the cursor does not select")
}

func TestDatePickerCursorStaysInGrid(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 1))

	for range 10 {
		press(dp, keyLeft)
	}
	assert.Equal(t, 0, dp.Cursor())

	for range 100 {
		press(dp, keyRight)
	}
	assert.Equal(t, len(dp.Cells())-1, dp.Cursor())
}

func TestDatePickerDisabledCellIgnoresEnter(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.SetDisabledSource(func(from, to time.Time) []time.Time {
		assert.Equal(t, "2023-12-01", from.Format("2006-01-02"))
		assert.Equal(t, "2024-02-29", to.Format("2006-01-02"))
		return []time.Time{localDate(2024, time.January, 16)}
	})
	dp.Show(localDate(2024, time.January, 15))

	cmd := press(dp, keyRight, keyEnter)
	assert.Nil(t, cmd)
	assert.True(t, dp.IsVisible())
	assert.True(t, dp.Cells()[dp.Cursor()].Disabled)
}

func TestDatePickerLeadingCellIsDisabled(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 1))

	cmd := press(dp, keyLeft, keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "2023-12-31", cursorDate(dp))
	assert.True(t, dp.IsVisible())
}

func TestDatePickerPagingKeepsValue(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 31))

	press(dp, keyPgDn)
	assert.Equal(t, "2024-01-31", dp.Value().Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", cursorDate(dp))
	assert.Contains(t, dp.View(), "February 2024")

	press(dp, runes("["), runes("["))
	assert.Equal(t, "2023-12-29", cursorDate(dp))
}

func TestDatePickerZoomOutAndBack(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.March, 15))

	press(dp, runes("v"))
	require.Equal(t, calendar.ModeMonth, dp.Mode())
	assert.Equal(t, 3, dp.Cells()[dp.Cursor()].Value)

	press(dp, runes("v"))
	require.Equal(t, calendar.ModeYear, dp.Mode())
	assert.Equal(t, 2024, dp.Cells()[dp.Cursor()].Value)

	// Year then month clicks lead back to the day grid.
	press(dp, keyLeft, keyEnter)
	require.Equal(t, calendar.ModeMonth, dp.Mode())
	assert.Equal(t, 2023, dp.Value().Year())

	press(dp, keyRight, keyEnter)
	require.Equal(t, calendar.ModeDay, dp.Mode())
	assert.Equal(t, time.April, dp.Value().Month())
	assert.Equal(t, "2023-04-15", cursorDate(dp))
	assert.True(t, dp.IsVisible())
}

func TestDatePickerDateTimeFlow(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true, Time: true})
	dp.Show(time.Date(2024, time.January, 15, 9, 30, 0, 0, time.Local))

	assert.Nil(t, press(dp, keyEnter))
	require.Equal(t, calendar.ModeHour, dp.Mode())
	assert.Equal(t, 9, dp.Cells()[dp.Cursor()].Value)

	assert.Nil(t, press(dp, keyRight, keyEnter))
	require.Equal(t, calendar.ModeMinute, dp.Mode())
	assert.Equal(t, 30, dp.Cells()[dp.Cursor()].Value)

	cmd := press(dp, keyRight, keyEnter)
	require.NotNil(t, cmd)
	msg := cmd().(DatePickerSelectMsg)
	assert.Equal(t, "2024-01-15 10:35", msg.Value.Format("2006-01-02 15:04"))
}

func TestDatePickerTimeOnlyStartsAtHour(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Time: true})
	dp.Show(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local))

	assert.Equal(t, calendar.ModeHour, dp.Mode())
	assert.Equal(t, 0, dp.Cells()[dp.Cursor()].Value)
}

func TestDatePickerRange(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true, Range: true})
	dp.Show(localDate(2024, time.January, 15))

	assert.Nil(t, press(dp, keyEnter))
	require.NotNil(t, dp.RangeStart())
	assert.Equal(t, "2024-01-15", dp.RangeStart().Format("2006-01-02"))
	assert.Equal(t, calendar.ModeDay, dp.Mode())
	assert.True(t, dp.IsVisible())
	assert.Equal(t, []int{15}, selectedDays(dp))

	press(dp, keyRight, keyRight, keyRight)
	assert.Equal(t, []int{15, 16, 17, 18}, selectedDays(dp))

	cmd := press(dp, keyEnter)
	require.NotNil(t, cmd)
	msg := cmd().(DatePickerSelectMsg)
	require.NotNil(t, msg.RangeStart)
	assert.Equal(t, "2024-01-15", msg.RangeStart.Format("2006-01-02"))
	assert.Equal(t, "2024-01-18", msg.Value.Format("2006-01-02"))
	assert.False(t, dp.IsVisible())
}

func TestDatePickerRangeWithTime(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true, Time: true, Range: true})
	dp.Show(time.Date(2024, time.January, 15, 9, 0, 0, 0, time.Local))

	press(dp, keyEnter, keyEnter, keyEnter)
	require.NotNil(t, dp.RangeStart())
	assert.Equal(t, "2024-01-15 09:00", dp.RangeStart().Format("2006-01-02 15:04"))
	assert.Equal(t, calendar.ModeDay, dp.Mode())

	cmd := press(dp, keyRight, keyEnter, keyRight, keyEnter, keyEnter)
	require.NotNil(t, cmd)
	msg := cmd().(DatePickerSelectMsg)
	require.NotNil(t, msg.RangeStart)
	assert.Equal(t, "2024-01-16 10:00", msg.Value.Format("2006-01-02 15:04"))
}

func TestDatePickerTypedEntry(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	press(dp, runes("/"), runes("2024-03-05"))
	assert.Contains(t, dp.View(), "2024-03-05")
	assert.Empty(t, dp.error)

	cmd := press(dp, keyEnter)
	assert.Nil(t, cmd)
	assert.True(t, dp.IsVisible())
	assert.Equal(t, "2024-03-05", dp.Value().Format("2006-01-02"))
	assert.Equal(t, "2024-03-05", cursorDate(dp))
}

func TestDatePickerTypedEntryRelative(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	// Offsets count from today, not from the shown value.
	press(dp, runes("/"), runes("+1w"), keyEnter)
	assert.Equal(t, "2024-01-17", dp.Value().Format("2006-01-02"))
}

func TestDatePickerTypedEntryCountsFromToday(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2023, time.June, 1))

	press(dp, runes("/"), runes("t"))
	assert.Equal(t, "2024-01-10 (today)", dp.preview)

	press(dp, keyEnter)
	assert.Equal(t, "2024-01-10", dp.Value().Format("2006-01-02"))
	assert.Equal(t, "2024-01-10", cursorDate(dp))

	press(dp, runes("/"), runes("tm"))
	assert.Equal(t, "2024-01-11 (tomorrow)", dp.preview)

	press(dp, keyEnter)
	assert.Equal(t, "2024-01-11", dp.Value().Format("2006-01-02"))
}

func TestDatePickerSkippedMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	construct, err := datehandler.NewCalendar(datehandler.Settings{TimeZone: "America/Santiago"})
	require.NoError(t, err)

	dp := NewDatePicker("Pick a date", construct, calendar.Options{Date: true}, calendar.Params{})
	dp.now = func() time.Time { return time.Date(2024, time.September, 1, 12, 0, 0, 0, loc) }

	// Clocks jump from 00:00 to 01:00 on 2024-09-08.
	dp.Show(time.Date(2024, time.September, 8, 12, 0, 0, 0, loc))
	c := dp.Cells()[dp.Cursor()]
	assert.Equal(t, 8, c.Value)
	assert.Equal(t, "2024-09-08", c.Date.Format("2006-01-02"))

	cmd := press(dp, keyEnter)
	require.NotNil(t, cmd)
	msg := cmd().(DatePickerSelectMsg)
	assert.Equal(t, "2024-09-08", msg.Value.Format("2006-01-02"))
}

func TestDatePickerTypedEntryErrors(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	press(dp, runes("/"), keyEnter)
	assert.Equal(t, "Please enter a date", dp.error)

	press(dp, runes("zzz"), keyEnter)
	assert.True(t, strings.HasPrefix(dp.error, "Invalid date"))
	assert.Equal(t, "2024-01-15", dp.Value().Format("2006-01-02"))

	// Esc leaves the entry line, not the picker.
	press(dp, keyEsc)
	assert.True(t, dp.IsVisible())
	assert.Empty(t, dp.error)
}

func TestDatePickerTodayKey(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2023, time.June, 1))

	press(dp, runes("t"))
	assert.Equal(t, "2024-01-10", cursorDate(dp))
	assert.Equal(t, "2023-06-01", dp.Value().Format("2006-01-02"))
}

func TestDatePickerReconfigure(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	construct, err := datehandler.NewNative(datehandler.Settings{})
	require.NoError(t, err)
	dp.Reconfigure(construct, calendar.Options{Date: true}, calendar.Params{FirstDayOfWeek: time.Monday})

	assert.Equal(t, "2024-01-01", dp.Cells()[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-01-15", cursorDate(dp))
	assert.Contains(t, dp.View(), "Mo")
}

func TestDatePickerView(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	view := dp.View()
	assert.Contains(t, view, "Pick a date")
	assert.Contains(t, view, "January 2024")
	assert.Contains(t, view, "Value: 2024-01-15")
	assert.Contains(t, view, "Su")
}

func TestDatePickerIgnoresInputWhenHidden(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})

	cmd := press(dp, keyEnter)
	assert.Nil(t, cmd)
	assert.False(t, dp.IsVisible())
}

func TestDatePickerTimeGridsIgnoreDateKeys(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true, Time: true})
	dp.Show(time.Date(2024, time.January, 15, 9, 0, 0, 0, time.Local))
	press(dp, keyEnter)
	require.Equal(t, calendar.ModeHour, dp.Mode())

	press(dp, runes("v"), runes("]"), runes("t"))
	assert.Equal(t, calendar.ModeHour, dp.Mode())
	assert.Equal(t, 9, dp.Cells()[dp.Cursor()].Value)
	assert.NotContains(t, dp.View(), "zoom out")
}

func TestDatePickerHelpListsBindings(t *testing.T) {
	dp := newTestPicker(t, calendar.Options{Date: true})
	dp.Show(localDate(2024, time.January, 15))

	view := dp.View()
	assert.Contains(t, view, "zoom out")
	assert.Contains(t, view, "select")

	press(dp, runes("/"))
	assert.Contains(t, dp.View(), "enter jump")
}
