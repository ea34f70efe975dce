package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MikeBiancalana/calpick/internal/datehandler"
)

// ParseRelativeDate parses what the user typed into the picker's entry line.
// Supports:
// - "t" or "today", "tm" or "tomorrow", "y" or "yesterday"
// - "mon" .. "sun" - next occurrence of weekday
// - "+3d", "-2w", "+1m", "-1y" - offsets in days, weeks, months or years
// - anything construct accepts, e.g. "2024-01-15" or "2024-01-15 14:30"
//
// Relative forms keep the time of day of base; an optional trailing "HH:MM"
// sets it ("tm 9:30").
func ParseRelativeDate(input string, base datehandler.Handler, construct datehandler.Constructor) (datehandler.Handler, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	if h := construct(input); h.Valid() {
		return h, nil
	}

	datePart, clock := splitClock(input)
	h, err := parseRelative(datePart, base)
	if err != nil {
		return nil, err
	}
	if clock != "" {
		hour, minute, err := parseClock(clock)
		if err != nil {
			return nil, err
		}
		h.SetHours(hour)
		h.SetMinutes(minute)
		h.SetSeconds(0)
	}
	return h, nil
}

func parseRelative(input string, base datehandler.Handler) (datehandler.Handler, error) {
	switch input {
	case "t", "today":
		return base.At(base), nil
	case "tm", "tomorrow":
		return base.Tomorrow(), nil
	case "y", "yesterday":
		return base.Yesterday(), nil
	}

	if wd, ok := weekdayShortcuts[input]; ok {
		return nextWeekday(base, wd), nil
	}

	if len(input) >= 3 && (input[0] == '+' || input[0] == '-') {
		return parseOffset(input, base)
	}

	return nil, fmt.Errorf("invalid date format: %s", input)
}

// parseOffset handles "+Nd", "-Nw", "+Nm" and "+Ny".
func parseOffset(input string, base datehandler.Handler) (datehandler.Handler, error) {
	unit := input[len(input)-1]
	n, err := strconv.Atoi(input[:len(input)-1])
	if err != nil {
		return nil, fmt.Errorf("invalid offset %q: %w", input, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("use 't' or 'today' instead of '%s'", input)
	}

	h := base.At(base)
	switch unit {
	case 'd':
		h.SetDay(h.Day() + n)
	case 'w':
		h.SetDay(h.Day() + 7*n)
	case 'm':
		h = shiftMonths(h, n)
	case 'y':
		h = shiftMonths(h, 12*n)
	default:
		return nil, fmt.Errorf("invalid offset unit %q (expected d, w, m or y)", string(unit))
	}
	return h, nil
}

// shiftMonths moves h by n months, clamping the day to the target month.
func shiftMonths(h datehandler.Handler, n int) datehandler.Handler {
	day := h.Day()
	h.SetDay(1)
	h.SetMonth(h.Month() + time.Month(n))
	h.SetDay(min(day, h.DaysInMonth()))
	return h
}

var weekdayShortcuts = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// nextWeekday returns the next occurrence of wd strictly after base.
func nextWeekday(base datehandler.Handler, wd time.Weekday) datehandler.Handler {
	daysUntil := int(wd - base.WeekDay())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	h := base.At(base)
	h.SetDay(h.Day() + daysUntil)
	return h
}

func splitClock(input string) (string, string) {
	i := strings.LastIndexByte(input, ' ')
	if i < 0 || !strings.Contains(input[i+1:], ":") {
		return input, ""
	}
	return strings.TrimSpace(input[:i]), input[i+1:]
}

func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return t.Hour(), t.Minute(), nil
}

// GetDateDescription returns a human-readable description of date relative
// to now (e.g. "today", "in 3 days", "last Monday").
func GetDateDescription(date, now time.Time) string {
	nowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dateStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	daysDiff := int(dateStart.Sub(nowStart).Hours() / 24)

	switch {
	case daysDiff == 0:
		return "today"
	case daysDiff == 1:
		return "tomorrow"
	case daysDiff == -1:
		return "yesterday"
	case daysDiff >= 2 && daysDiff <= 6:
		return date.Weekday().String()
	case daysDiff <= -2 && daysDiff >= -6:
		return "last " + date.Weekday().String()
	case daysDiff >= 7 && daysDiff < 28:
		if weeks := daysDiff / 7; weeks > 1 {
			return fmt.Sprintf("in %d weeks", weeks)
		}
		return "in 1 week"
	case daysDiff <= -7 && daysDiff > -28:
		if weeks := -daysDiff / 7; weeks > 1 {
			return fmt.Sprintf("%d weeks ago", weeks)
		}
		return "1 week ago"
	default:
		return date.Format("Jan 2, 2006")
	}
}
