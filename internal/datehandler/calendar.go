package datehandler

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

const (
	calendarDateLayout = "01/02/2006" // L
	calendarTimeLayout = "3:04 PM"    // LT

	secondsPerDay = 24 * 60 * 60
)

// calendarHandler keeps the calendar date as a cloudeng.io/datetime
// CalendarDate and the time of day separately, so calendar arithmetic never
// passes through an instant. Values are interpreted in the configured zone.
type calendarHandler struct {
	date     datetime.CalendarDate
	clock    int // seconds since midnight
	nsec     int
	loc      *time.Location
	valid    bool
	settings Settings
}

// NewCalendar returns a Constructor for handlers backed by cloudeng.io/datetime.
// An empty Settings.TimeZone means the local zone.
func NewCalendar(settings Settings) (Constructor, error) {
	loc := time.Local
	if settings.TimeZone != "" {
		l, err := time.LoadLocation(settings.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", settings.TimeZone, err)
		}
		loc = l
	}

	return func(value any) Handler {
		if h, ok := value.(*calendarHandler); ok {
			// Already wrapped: keep its zone, no re-parse.
			c := *h
			c.settings = settings
			return &c
		}
		t, ok := resolve(value, loc)
		if !ok {
			return &calendarHandler{loc: loc, settings: settings}
		}
		return newCalendarHandler(t.In(loc), settings)
	}, nil
}

func newCalendarHandler(t time.Time, settings Settings) *calendarHandler {
	return &calendarHandler{
		date:     datetime.CalendarDateFromTime(t),
		clock:    t.Hour()*3600 + t.Minute()*60 + t.Second(),
		nsec:     t.Nanosecond(),
		loc:      t.Location(),
		valid:    true,
		settings: settings,
	}
}

func (h *calendarHandler) clone() *calendarHandler {
	c := *h
	return &c
}

func (h *calendarHandler) Time() time.Time {
	if !h.valid {
		return time.Time{}
	}
	return Date(h.Year(), h.Month(), h.Day(),
		h.clock/3600, h.clock/60%60, h.clock%60, h.nsec, h.loc)
}

func (h *calendarHandler) Valid() bool              { return h.valid }
func (h *calendarHandler) Location() *time.Location { return h.loc }
func (h *calendarHandler) Settings() Settings       { return h.settings }

func (h *calendarHandler) Year() int         { return h.date.Year() }
func (h *calendarHandler) Month() time.Month { return time.Month(h.date.Month()) }
func (h *calendarHandler) Day() int          { return int(h.date.Day()) }
func (h *calendarHandler) Hours() int        { return h.clock / 3600 }
func (h *calendarHandler) Minutes() int      { return h.clock / 60 % 60 }
func (h *calendarHandler) Seconds() int      { return h.clock % 60 }

// assign stores the components, carrying clock overflow into days and day
// overflow into months and years.
func (h *calendarHandler) assign(year, month, day, clock int) {
	if !h.valid {
		return
	}
	day += floorDiv(clock, secondsPerDay)
	h.clock = floorMod(clock, secondsPerDay)
	h.date = normalizeDate(year, month, day)
}

func (h *calendarHandler) SetYear(year int) int {
	h.assign(year, int(h.Month()), h.Day(), h.clock)
	return h.Year()
}

func (h *calendarHandler) SetMonth(month time.Month) time.Month {
	h.assign(h.Year(), int(month), h.Day(), h.clock)
	return h.Month()
}

func (h *calendarHandler) SetDay(day int) int {
	h.assign(h.Year(), int(h.Month()), day, h.clock)
	return h.Day()
}

func (h *calendarHandler) SetHours(hours int) int {
	h.assign(h.Year(), int(h.Month()), h.Day(), hours*3600+h.Minutes()*60+h.Seconds())
	return h.Hours()
}

func (h *calendarHandler) SetMinutes(minutes int) int {
	h.assign(h.Year(), int(h.Month()), h.Day(), h.Hours()*3600+minutes*60+h.Seconds())
	return h.Minutes()
}

func (h *calendarHandler) SetSeconds(seconds int) int {
	h.assign(h.Year(), int(h.Month()), h.Day(), h.Hours()*3600+h.Minutes()*60+seconds)
	return h.Seconds()
}

func (h *calendarHandler) Format() string {
	if !h.valid {
		return ""
	}
	return joinFormatted(h.FormatDate(), h.FormatTime())
}

func (h *calendarHandler) FormatDate() string {
	if !h.valid {
		return ""
	}
	if h.settings.DateFormatter != nil {
		return h.settings.DateFormatter(h.Time())
	}
	return h.Time().Format(calendarDateLayout)
}

func (h *calendarHandler) FormatTime() string {
	if !h.valid {
		return ""
	}
	if h.settings.TimeFormatter != nil {
		return h.settings.TimeFormatter(h.Time())
	}
	return h.Time().Format(calendarTimeLayout)
}

func (h *calendarHandler) At(value any) Handler {
	if c, ok := value.(*calendarHandler); ok {
		out := c.clone()
		out.settings = h.settings
		return out
	}
	t, ok := resolve(value, h.loc)
	if !ok {
		return &calendarHandler{loc: h.loc, settings: h.settings}
	}
	return newCalendarHandler(t.In(h.loc), h.settings)
}

func (h *calendarHandler) FirstOfMonth() Handler {
	c := h.clone()
	if c.valid {
		c.date = datetime.NewCalendarDate(h.Year(), h.date.Month(), 1)
		c.clock, c.nsec = 0, 0
	}
	return c
}

// LastMonth returns the same day one month earlier, clamped to the length of
// that month.
func (h *calendarHandler) LastMonth() Handler {
	c := h.clone()
	if !c.valid {
		return c
	}
	prev := normalizeDate(h.Year(), int(h.Month())-1, 1)
	day := min(h.Day(), int(datetime.DaysInMonth(prev.Year(), prev.Month())))
	c.date = datetime.NewCalendarDate(prev.Year(), prev.Month(), day)
	return c
}

// Yesterday does not use CalendarDate.Yesterday, which takes the length of
// the current month when stepping back across a month boundary.
func (h *calendarHandler) Yesterday() Handler {
	c := h.clone()
	if c.valid {
		c.date = normalizeDate(h.Year(), int(h.Month()), h.Day()-1)
	}
	return c
}

func (h *calendarHandler) Tomorrow() Handler {
	c := h.clone()
	if c.valid {
		c.date = h.date.Tomorrow()
	}
	return c
}

func (h *calendarHandler) WeekDay() time.Weekday {
	if !h.valid {
		return time.Sunday
	}
	return time.Date(h.Year(), h.Month(), h.Day(), 12, 0, 0, 0, time.UTC).Weekday()
}

func (h *calendarHandler) DaysInMonth() int {
	if !h.valid {
		return 0
	}
	return int(datetime.DaysInMonth(h.Year(), h.date.Month()))
}

func (h *calendarHandler) DateString(value any) string {
	if isZeroTime(value) {
		return ""
	}
	if value == nil {
		if !h.valid {
			return ""
		}
		return fmt.Sprintf("%04d%02d%02d", h.Year(), h.Month(), h.Day())
	}
	t, ok := resolve(value, h.loc)
	if !ok {
		return ""
	}
	return signature(t)
}

func (h *calendarHandler) DateStrings(values []time.Time) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, h.DateString(v))
	}
	return out
}

// normalizeDate rolls month and day overflow (in either direction) into a
// valid CalendarDate.
func normalizeDate(year, month, day int) datetime.CalendarDate {
	year += floorDiv(month-1, 12)
	month = floorMod(month-1, 12) + 1
	for day < 1 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		day += int(datetime.DaysInMonth(year, datetime.Month(month)))
	}
	for {
		dim := int(datetime.DaysInMonth(year, datetime.Month(month)))
		if day <= dim {
			break
		}
		day -= dim
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return datetime.NewCalendarDate(year, datetime.Month(month), day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
