package calendar

import (
	"time"

	"github.com/MikeBiancalana/calpick/internal/datehandler"
)

// Page returns the view anchor dir pages away from h in mode. Day grids page
// by month, month grids by year and year grids by a whole window of
// 2*yearRange+1 years. Time grids do not page. The day of month is clamped
// so paging from the 31st never skips a month. h is not modified.
func Page(h datehandler.Handler, mode Mode, dir, yearRange int) datehandler.Handler {
	if yearRange <= 0 {
		yearRange = DefaultYearRange
	}
	switch mode {
	case ModeDay:
		return addMonths(h, dir)
	case ModeMonth:
		return addMonths(h, 12*dir)
	case ModeYear:
		return addMonths(h, 12*dir*(2*yearRange+1))
	default:
		return h.At(h)
	}
}

func addMonths(h datehandler.Handler, n int) datehandler.Handler {
	out := h.At(h)
	if !out.Valid() || n == 0 {
		return out
	}
	day := out.Day()
	out.SetDay(1)
	out.SetMonth(out.Month() + time.Month(n))
	out.SetDay(min(day, out.DaysInMonth()))
	return out
}

// withMonth moves h to month of the same year, clamping the day.
func withMonth(h datehandler.Handler, month int) datehandler.Handler {
	out := h.At(h)
	if !out.Valid() {
		return out
	}
	day := out.Day()
	out.SetDay(1)
	out.SetMonth(time.Month(month))
	out.SetDay(min(day, out.DaysInMonth()))
	return out
}

// withYear moves h to year, clamping February 29th.
func withYear(h datehandler.Handler, year int) datehandler.Handler {
	out := h.At(h)
	if !out.Valid() {
		return out
	}
	day := out.Day()
	out.SetDay(1)
	out.SetYear(year)
	out.SetDay(min(day, out.DaysInMonth()))
	return out
}
