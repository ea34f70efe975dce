package calendar

import (
	"time"

	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
)

// Calendar turns clicks and page requests into new values and modes. It holds
// no value of its own: every method takes the value to start from and
// reports the result through the callbacks, synchronously.
type Calendar struct {
	New     datehandler.Constructor
	Options Options
	Params  Params
	// Phase is set by the host before each interaction in range mode.
	Phase Phase

	// OnDateSelect receives the new value and the mode to show next. A
	// ModeNone next mode means the value is final. rangeAnchor is set when the
	// click chose the start of a range.
	OnDateSelect  func(ev Event, value time.Time, next Mode, rangeAnchor *time.Time)
	OnChangeMonth func(ev Event, value time.Time)
	OnChangeYear  func(ev Event, value time.Time)
}

func (c *Calendar) dateSelect(ev Event, value time.Time, next Mode, rangeAnchor *time.Time) {
	logger.Debug("calendar: date selected", "value", value, "next", next.String(), "anchored", rangeAnchor != nil)
	if c.OnDateSelect != nil {
		c.OnDateSelect(ev, value, next, rangeAnchor)
	}
}

func (c *Calendar) changeMonth(ev Event, value time.Time) {
	if c.OnChangeMonth != nil {
		c.OnChangeMonth(ev, value)
	}
}

func (c *Calendar) changeYear(ev Event, value time.Time) {
	if c.OnChangeYear != nil {
		c.OnChangeYear(ev, value)
	}
}

// SelectDay sets the day of month of base.
func (c *Calendar) SelectDay(ev Event, base any, day int) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	h.SetDay(day)
	selected := h.Time()

	var anchor *time.Time
	if c.Options.Range && c.Phase == PhaseStart {
		anchor = &selected
	}
	c.dateSelect(ev, selected, Next(ModeDay, TriggerSelect, c.Options, c.Phase), anchor)
}

// SelectMonth moves base to month of its year.
func (c *Calendar) SelectMonth(ev Event, base any, month time.Month) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	selected := withMonth(h, int(month)).Time()
	c.dateSelect(ev, selected, Next(ModeMonth, TriggerSelect, c.Options, c.Phase), nil)
	c.changeMonth(ev, selected)
}

// SelectMonthOffset selects the month offset months away from the month of
// base, across year boundaries.
func (c *Calendar) SelectMonthOffset(ev Event, base any, offset int) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	selected := addMonths(h, offset).Time()
	c.dateSelect(ev, selected, Next(ModeMonth, TriggerSelect, c.Options, c.Phase), nil)
	c.changeMonth(ev, selected)
}

// SelectYear moves base to year.
func (c *Calendar) SelectYear(ev Event, base any, year int) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	selected := withYear(h, year).Time()
	c.dateSelect(ev, selected, Next(ModeYear, TriggerSelect, c.Options, c.Phase), nil)
	c.changeYear(ev, selected)
}

func (c *Calendar) SelectHour(ev Event, base any, hour int) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	h.SetHours(hour)
	c.dateSelect(ev, h.Time(), Next(ModeHour, TriggerSelect, c.Options, c.Phase), nil)
}

func (c *Calendar) SelectMinute(ev Event, base any, minute int) {
	h := c.New(base)
	if !h.Valid() {
		return
	}
	h.SetMinutes(minute)
	c.dateSelect(ev, h.Time(), Next(ModeMinute, TriggerSelect, c.Options, c.Phase), nil)
}

// Page moves the view anchor by dir pages and reports it through
// OnChangeMonth (day grids) or OnChangeYear (month and year grids). The
// committed value is never touched; the new anchor is also returned.
func (c *Calendar) Page(ev Event, view any, mode Mode, dir int) time.Time {
	h := c.New(view)
	if !h.Valid() {
		return time.Time{}
	}
	anchor := Page(h, mode, dir, c.Params.yearRange()).Time()
	logger.Debug("calendar: paged", "mode", mode.String(), "dir", dir, "anchor", anchor)

	switch mode {
	case ModeDay:
		c.changeMonth(ev, anchor)
	case ModeMonth, ModeYear:
		c.changeYear(ev, anchor)
	}
	return anchor
}

// ChangeMode reports the header's zoom-out transition from mode. The value
// is reported unchanged.
func (c *Calendar) ChangeMode(ev Event, value any, mode Mode) {
	h := c.New(value)
	c.dateSelect(ev, h.Time(), Next(mode, TriggerChangeMode, c.Options, c.Phase), nil)
}

// Cells builds the grid for mode around view with every click bound to the
// matching Select method.
func (c *Calendar) Cells(view any, mode Mode) []Cell {
	h := c.New(view)
	p := c.Params

	switch mode {
	case ModeDay:
		p.OnClick = func(ev Event, v int) { c.SelectDay(ev, h, v) }
	case ModeMonth:
		p.OnClick = func(ev Event, v int) { c.SelectMonth(ev, h, time.Month(v)) }
	case ModeYear:
		p.OnClick = func(ev Event, v int) { c.SelectYear(ev, h, v) }
	case ModeHour:
		p.OnClick = func(ev Event, v int) { c.SelectHour(ev, h, v) }
	case ModeMinute:
		p.OnClick = func(ev Event, v int) { c.SelectMinute(ev, h, v) }
	}
	return Cells(h, mode, p)
}

// FormatValue renders value for the picker's input line: date and time when
// both are editable, otherwise only the editable part.
func (c *Calendar) FormatValue(value any) string {
	h := c.New(value)
	switch {
	case c.Options.Date && c.Options.Time:
		return h.Format()
	case c.Options.Time:
		return h.FormatTime()
	default:
		return h.FormatDate()
	}
}
