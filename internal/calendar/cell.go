// Package calendar builds the cell grids shown by the picker (days of a
// month, months, a window of years, hours and minutes) and turns cell clicks
// into new values and modes.
//
// Grid functions are pure: each call builds fresh cells from the handler and
// parameters it is given and never modifies them.
package calendar

import (
	"fmt"
	"time"
)

const (
	DefaultYearRange  = 4
	DefaultMinuteStep = 5
)

// Event is whatever the host passes along with an interaction, typically the
// tea.Msg that caused it. The engine only forwards it.
type Event any

// Cell is one selectable unit of a grid.
type Cell struct {
	Content string
	// Value is what a click reports: the day of month, month (1-12), year,
	// hour or minute.
	Value int
	// Date is set in day grids only.
	Date     time.Time
	Disabled bool
	Selected bool

	OnClick func(Event)
	// OnHover is set on day cells while a range start is chosen.
	OnHover func(Event)
}

// Click invokes the cell's click binding, if any.
func (c Cell) Click(ev Event) {
	if c.OnClick != nil {
		c.OnClick(ev)
	}
}

// Hover invokes the cell's hover binding, if any.
func (c Cell) Hover(ev Event) {
	if c.OnHover != nil {
		c.OnHover(ev)
	}
}

// Params are the view parameters shared by all grids. The zero value is
// usable: weeks start on Sunday, months and days use English labels.
type Params struct {
	FirstDayOfWeek time.Weekday
	DisabledDates  []time.Time

	SelectionStart *time.Time
	SelectionEnd   *time.Time
	// InclusiveSingleDay marks a range whose start and end fall on the same
	// day as selected. Without it such a range selects nothing.
	InclusiveSingleDay bool

	// SixWeeks pads every day grid to 42 cells.
	SixWeeks bool

	MonthNames []string
	DaysShort  []string
	YearRange  int
	MinuteStep int

	HourFormatter   func(hour int) string
	MinuteFormatter func(hour, minute int) string

	OnClick func(ev Event, value int)
	OnHover func(ev Event, date time.Time)
}

var (
	defaultMonthNames = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	defaultDaysShort = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
)

// DefaultMonthNames returns a copy of the built-in month labels.
func DefaultMonthNames() []string {
	return append([]string(nil), defaultMonthNames...)
}

// DefaultDaysShort returns a copy of the built-in weekday labels, Sunday
// first.
func DefaultDaysShort() []string {
	return append([]string(nil), defaultDaysShort...)
}

func defaultHourFormatter(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func defaultMinuteFormatter(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func (p Params) monthNames() []string {
	if len(p.MonthNames) == 12 {
		return p.MonthNames
	}
	return defaultMonthNames
}

func (p Params) daysShort() []string {
	if len(p.DaysShort) == 7 {
		return p.DaysShort
	}
	return defaultDaysShort
}

func (p Params) yearRange() int {
	if p.YearRange > 0 {
		return p.YearRange
	}
	return DefaultYearRange
}

func (p Params) minuteStep() int {
	if p.MinuteStep > 0 && p.MinuteStep <= 60 {
		return p.MinuteStep
	}
	return DefaultMinuteStep
}

func (p Params) hourFormatter() func(int) string {
	if p.HourFormatter != nil {
		return p.HourFormatter
	}
	return defaultHourFormatter
}

func (p Params) minuteFormatter() func(int, int) string {
	if p.MinuteFormatter != nil {
		return p.MinuteFormatter
	}
	return defaultMinuteFormatter
}

func (p Params) firstDayOfWeek() int {
	return (int(p.FirstDayOfWeek)%7 + 7) % 7
}

// bind returns a click binding reporting value to p.OnClick.
func (p Params) bind(value int) func(Event) {
	return func(ev Event) {
		if p.OnClick != nil {
			p.OnClick(ev, value)
		}
	}
}
