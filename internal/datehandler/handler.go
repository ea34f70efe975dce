// Package datehandler wraps a point in time behind a uniform accessor,
// derivation and formatting interface. Implementations are registered by name
// and selected when the picker is composed.
package datehandler

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/datetime"

	"github.com/MikeBiancalana/calpick/internal/logger"
)

// Formatter renders a time for display. Injected formatters take precedence
// over a handler's built-in layouts.
type Formatter func(time.Time) string

// Settings are shared by every handler built from the same Constructor.
type Settings struct {
	DateFormatter Formatter
	TimeFormatter Formatter
	// TimeZone is an IANA zone name. Only the calendar handler honours it.
	TimeZone string
}

// Handler wraps one date value.
//
// Getters never change the wrapped value. Setters mutate the handler's own
// value in place and return the resulting component; out-of-range values roll
// over into the neighbouring period. Derivations (FirstOfMonth, LastMonth,
// Yesterday, Tomorrow, At) always return a new Handler and leave the receiver
// untouched.
type Handler interface {
	// Time returns the wrapped value. It is the zero time when !Valid().
	Time() time.Time
	Valid() bool
	Location() *time.Location
	Settings() Settings

	Year() int
	Month() time.Month
	Day() int
	Hours() int
	Minutes() int
	Seconds() int

	SetYear(year int) int
	SetMonth(month time.Month) time.Month
	SetDay(day int) int
	SetHours(hours int) int
	SetMinutes(minutes int) int
	SetSeconds(seconds int) int

	// Format returns "<date> <time>", or "" for an invalid value.
	Format() string
	FormatDate() string
	FormatTime() string

	// At returns a handler with the same settings wrapping value.
	At(value any) Handler
	FirstOfMonth() Handler
	LastMonth() Handler
	Yesterday() Handler
	Tomorrow() Handler

	WeekDay() time.Weekday
	DaysInMonth() int

	// DateString returns the YYYYMMDD signature of value, or of the wrapped
	// value when value is nil.
	DateString(value any) string
	DateStrings(values []time.Time) []string
}

// Constructor builds a Handler around a date value. A nil, zero or blank value
// means "now"; a value that cannot be parsed yields an invalid Handler.
type Constructor func(value any) Handler

// now is replaced in tests.
var now = time.Now

// inputLayouts are tried in order when a handler is built from a string.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// resolve turns a date value into a time in loc. The bool reports whether
// the value was understood.
func resolve(value any, loc *time.Location) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return now().In(loc), true
	case Handler:
		return v.Time(), v.Valid()
	case time.Time:
		if v.IsZero() {
			return now().In(loc), true
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return now().In(loc), true
		}
		return *v, true
	case datetime.CalendarDate:
		if v == 0 {
			return time.Time{}, false
		}
		return StartOfDay(v.Year(), time.Month(v.Month()), int(v.Day()), loc), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return now().In(loc), true
		}
		for _, layout := range inputLayouts {
			if strings.Contains(layout, "Z07") {
				if t, err := time.ParseInLocation(layout, s, loc); err == nil {
					return t, true
				}
				continue
			}
			// Wall clock only: rebuild in loc so a skipped midnight stays on
			// the same day.
			if w, err := time.Parse(layout, s); err == nil {
				return Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), loc), true
			}
		}
		logger.Debug("datehandler: unparsable date value", "value", s)
		return time.Time{}, false
	default:
		logger.Debug("datehandler: unsupported date value", "type", fmt.Sprintf("%T", value))
		return time.Time{}, false
	}
}

// isZeroTime reports whether value is an unset time. Construction treats it
// as now; signatures of it are empty.
func isZeroTime(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v == nil || v.IsZero()
	}
	return false
}

// Date is time.Date, except for wall clocks skipped by a daylight saving
// transition that time.Date puts on the previous day (America/Santiago
// starts DST at midnight). Those move forward past the gap, keeping the
// requested day.
func Date(year int, month time.Month, day, hour, minute, sec, nsec int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, hour, minute, sec, nsec, loc)
	want := time.Date(year, month, day, hour, minute, sec, nsec, time.UTC)
	for i := 0; i < 2 && calendarDay(t).Before(calendarDay(want)); i++ {
		t = t.Add(time.Hour)
	}
	return t
}

// StartOfDay returns the first instant of the given day in loc.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	return Date(year, month, day, 0, 0, 0, 0, loc)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// signature is the canonical date signature used for disabled-date matching.
func signature(t time.Time) string {
	return t.Format("20060102")
}

// Signature returns the YYYYMMDD signature for t in its own location.
func Signature(t time.Time) string {
	return signature(t)
}

func joinFormatted(date, clock string) string {
	if date == "" && clock == "" {
		return ""
	}
	return date + " " + clock
}
