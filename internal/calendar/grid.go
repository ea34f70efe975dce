package calendar

import (
	"strconv"
	"time"

	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/perf"
)

const slowGrid = time.Millisecond

// Days returns the day grid for the month of h.
//
// The first column is p.FirstDayOfWeek. Leading cells belong to the previous
// month and trailing cells to the next; both are disabled. The grid has as
// many full weeks as the month needs (42 cells with p.SixWeeks). Clicks
// report the day of month only.
func Days(h datehandler.Handler, p Params) []Cell {
	defer perf.Track("calendar.days", logger.GetLogger(), slowGrid).Stop()

	if !h.Valid() {
		return nil
	}

	first := h.FirstOfMonth()
	firstWeekDay := int(first.WeekDay())
	daysInMonth := h.DaysInMonth()
	prev := h.LastMonth().FirstOfMonth()
	prevDaysInMonth := prev.DaysInMonth()
	next := first.At(first)
	next.SetMonth(first.Month() + 1)

	// Column of the 1st, counted from the configured week start.
	realFirstWeekDay := ((firstWeekDay-p.firstDayOfWeek())%7 + 7) % 7

	weeks := (realFirstWeekDay + daysInMonth + 6) / 7
	if p.SixWeeks {
		weeks = max(weeks, 6)
	}

	disabled := make(map[string]bool, len(p.DisabledDates))
	for _, sig := range h.DateStrings(p.DisabledDates) {
		disabled[sig] = true
	}

	var startSig, endSig string
	if p.SelectionStart != nil && p.SelectionEnd != nil {
		startSig = h.DateString(*p.SelectionStart)
		endSig = h.DateString(*p.SelectionEnd)
	}
	rangeValid := startSig != "" && endSig != "" &&
		(endSig > startSig || (p.InclusiveSingleDay && endSig == startSig))

	cells := make([]Cell, 0, weeks*7)
	day, nextMonthDay := 0, 0
	for i := 0; i < weeks*7; i++ {
		var (
			c    Cell
			base datehandler.Handler
		)
		switch {
		case i < realFirstWeekDay:
			c.Value = prevDaysInMonth - realFirstWeekDay + i + 1
			c.Disabled = true
			base = prev
		case day < daysInMonth:
			day++
			c.Value = day
			base = first
		default:
			nextMonthDay++
			c.Value = nextMonthDay
			c.Disabled = true
			base = next
		}

		date := base.At(base)
		date.SetDay(c.Value)
		c.Date = date.Time()
		c.Content = strconv.Itoa(c.Value)
		c.OnClick = p.bind(c.Value)

		sig := date.DateString(nil)
		if rangeValid {
			c.Selected = startSig <= sig && sig <= endSig
		}
		if !c.Disabled && disabled[sig] {
			c.Disabled = true
		}

		if p.SelectionStart != nil && p.OnHover != nil {
			cellDate := c.Date
			c.OnHover = func(ev Event) { p.OnHover(ev, cellDate) }
		}

		cells = append(cells, c)
	}
	return cells
}

// Months returns twelve cells labelled with p's month names. Clicks report
// the month number, 1 for January.
func Months(p Params) []Cell {
	names := p.monthNames()
	cells := make([]Cell, 12)
	for i := range cells {
		month := i + 1
		cells[i] = Cell{Content: names[i], Value: month, OnClick: p.bind(month)}
	}
	return cells
}

// Years returns 2*p.YearRange+1 consecutive years centred on current, in
// ascending order.
func Years(current int, p Params) []Cell {
	r := p.yearRange()
	cells := make([]Cell, 0, 2*r+1)
	for year := current - r; year <= current+r; year++ {
		cells = append(cells, Cell{Content: strconv.Itoa(year), Value: year, OnClick: p.bind(year)})
	}
	return cells
}

// Hours returns one cell per hour of the day.
func Hours(p Params) []Cell {
	format := p.hourFormatter()
	cells := make([]Cell, 24)
	for hour := range cells {
		cells[hour] = Cell{Content: format(hour), Value: hour, OnClick: p.bind(hour)}
	}
	return cells
}

// Minutes returns a cell for every p.MinuteStep minutes of hour. The hour is
// only passed to the formatter.
func Minutes(hour int, p Params) []Cell {
	step := p.minuteStep()
	format := p.minuteFormatter()
	cells := make([]Cell, 0, (60+step-1)/step)
	for minute := 0; minute < 60; minute += step {
		cells = append(cells, Cell{Content: format(hour, minute), Value: minute, OnClick: p.bind(minute)})
	}
	return cells
}

// Cells dispatches to the grid for mode. ModeNone has no cells.
func Cells(h datehandler.Handler, mode Mode, p Params) []Cell {
	switch mode {
	case ModeDay:
		return Days(h, p)
	case ModeMonth:
		return Months(p)
	case ModeYear:
		return Years(h.Year(), p)
	case ModeHour:
		return Hours(p)
	case ModeMinute:
		return Minutes(h.Hours(), p)
	default:
		return nil
	}
}

// Headers returns the column headers for mode. Day headers start at
// p.FirstDayOfWeek.
func Headers(mode Mode, p Params) []string {
	switch mode {
	case ModeDay:
		days := p.daysShort()
		fdow := p.firstDayOfWeek()
		headers := make([]string, 7)
		for i := range headers {
			headers[i] = days[(i+fdow)%7]
		}
		return headers
	case ModeMonth:
		return []string{"Month"}
	case ModeYear:
		return []string{"Year"}
	case ModeHour:
		return []string{"Hour"}
	case ModeMinute:
		return []string{"Minute"}
	default:
		return nil
	}
}

// Columns is the number of cells per row when mode is laid out as a grid.
func Columns(mode Mode) int {
	switch mode {
	case ModeDay:
		return 7
	case ModeMonth, ModeYear:
		return 3
	case ModeHour, ModeMinute:
		return 4
	default:
		return 1
	}
}
