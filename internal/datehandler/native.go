package datehandler

import (
	"time"
)

const (
	nativeDateLayout = "2006-01-02"
	nativeTimeLayout = "15:04"
)

// nativeHandler wraps a time.Time in local time. It does not honour
// Settings.TimeZone: values keep the location they were parsed in.
type nativeHandler struct {
	t        time.Time
	valid    bool
	settings Settings
}

// NewNative returns a Constructor for handlers backed directly by time.Time.
func NewNative(settings Settings) (Constructor, error) {
	return func(value any) Handler {
		if h, ok := value.(*nativeHandler); ok {
			// Already wrapped: take a copy, no re-parse.
			return &nativeHandler{t: h.t, valid: h.valid, settings: settings}
		}
		t, ok := resolve(value, time.Local)
		return &nativeHandler{t: t, valid: ok, settings: settings}
	}, nil
}

func (h *nativeHandler) at(t time.Time) *nativeHandler {
	return &nativeHandler{t: t, valid: h.valid, settings: h.settings}
}

func (h *nativeHandler) Time() time.Time {
	if !h.valid {
		return time.Time{}
	}
	return h.t
}

func (h *nativeHandler) Valid() bool { return h.valid }

func (h *nativeHandler) Location() *time.Location {
	if !h.valid {
		return time.Local
	}
	return h.t.Location()
}

func (h *nativeHandler) Settings() Settings { return h.settings }

func (h *nativeHandler) Year() int         { return h.Time().Year() }
func (h *nativeHandler) Month() time.Month { return h.Time().Month() }
func (h *nativeHandler) Day() int          { return h.Time().Day() }
func (h *nativeHandler) Hours() int        { return h.Time().Hour() }
func (h *nativeHandler) Minutes() int      { return h.Time().Minute() }
func (h *nativeHandler) Seconds() int      { return h.Time().Second() }

// set rebuilds the wrapped value through time.Date, which normalizes
// out-of-range components.
func (h *nativeHandler) set(year int, month time.Month, day, hour, minute, sec int) {
	if !h.valid {
		return
	}
	h.t = Date(year, month, day, hour, minute, sec, h.t.Nanosecond(), h.t.Location())
}

func (h *nativeHandler) SetYear(year int) int {
	t := h.t
	h.set(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	return h.Year()
}

func (h *nativeHandler) SetMonth(month time.Month) time.Month {
	t := h.t
	h.set(t.Year(), month, t.Day(), t.Hour(), t.Minute(), t.Second())
	return h.Month()
}

func (h *nativeHandler) SetDay(day int) int {
	t := h.t
	h.set(t.Year(), t.Month(), day, t.Hour(), t.Minute(), t.Second())
	return h.Day()
}

func (h *nativeHandler) SetHours(hours int) int {
	t := h.t
	h.set(t.Year(), t.Month(), t.Day(), hours, t.Minute(), t.Second())
	return h.Hours()
}

func (h *nativeHandler) SetMinutes(minutes int) int {
	t := h.t
	h.set(t.Year(), t.Month(), t.Day(), t.Hour(), minutes, t.Second())
	return h.Minutes()
}

func (h *nativeHandler) SetSeconds(seconds int) int {
	t := h.t
	h.set(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), seconds)
	return h.Seconds()
}

func (h *nativeHandler) Format() string {
	if !h.valid {
		return ""
	}
	return joinFormatted(h.FormatDate(), h.FormatTime())
}

// FormatDate returns YYYY-MM-DD unless a date formatter was injected.
func (h *nativeHandler) FormatDate() string {
	if !h.valid {
		return ""
	}
	if h.settings.DateFormatter != nil {
		return h.settings.DateFormatter(h.t)
	}
	return h.t.Format(nativeDateLayout)
}

// FormatTime returns 24-hour HH:MM unless a time formatter was injected.
func (h *nativeHandler) FormatTime() string {
	if !h.valid {
		return ""
	}
	if h.settings.TimeFormatter != nil {
		return h.settings.TimeFormatter(h.t)
	}
	return h.t.Format(nativeTimeLayout)
}

func (h *nativeHandler) At(value any) Handler {
	construct, _ := NewNative(h.settings)
	return construct(value)
}

func (h *nativeHandler) FirstOfMonth() Handler {
	t := h.t
	return h.at(StartOfDay(t.Year(), t.Month(), 1, t.Location()))
}

// LastMonth returns the same day one month earlier, clamped to the length of
// that month (March 31 becomes the last day of February).
func (h *nativeHandler) LastMonth() Handler {
	t := h.t
	first := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	day := min(t.Day(), daysIn(first.Year(), first.Month()))
	return h.at(Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()))
}

func (h *nativeHandler) Yesterday() Handler {
	return h.addDays(-1)
}

func (h *nativeHandler) Tomorrow() Handler {
	return h.addDays(1)
}

func (h *nativeHandler) addDays(n int) Handler {
	t := h.t
	return h.at(Date(t.Year(), t.Month(), t.Day()+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()))
}

func (h *nativeHandler) WeekDay() time.Weekday {
	return h.Time().Weekday()
}

func (h *nativeHandler) DaysInMonth() int {
	if !h.valid {
		return 0
	}
	return daysIn(h.t.Year(), h.t.Month())
}

func (h *nativeHandler) DateString(value any) string {
	if isZeroTime(value) {
		return ""
	}
	if value == nil {
		if !h.valid {
			return ""
		}
		return signature(h.t)
	}
	t, ok := resolve(value, h.Location())
	if !ok {
		return ""
	}
	return signature(t)
}

func (h *nativeHandler) DateStrings(values []time.Time) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, h.DateString(v))
	}
	return out
}

// daysIn uses day zero of the following month, which time.Date normalizes to
// the last day of month. UTC has no skipped midnights.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
