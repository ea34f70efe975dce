package blackout

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/MikeBiancalana/calpick/internal/logger"
)

// ICSSource disables the days covered by all-day events in ICS files. Timed
// events are ignored. Files are read on every call so edits show up on the
// next render.
type ICSSource struct {
	files []string
	loc   *time.Location
}

func NewICSSource(files []string, loc *time.Location) *ICSSource {
	return &ICSSource{files: files, loc: loc}
}

func (s *ICSSource) Name() string { return "ics" }

func (s *ICSSource) Dates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, path := range s.files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		cal, err := ical.ParseCalendar(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, ev := range cal.Events() {
			days, err := s.eventDays(ev, from, to)
			if err != nil {
				logger.Debug("blackout: skipping ics event", "file", path, "error", err)
				continue
			}
			out = append(out, days...)
		}
	}
	return out, nil
}

// eventDays returns the days of an all-day event, expanding its RRULE, that
// fall within [from, to].
func (s *ICSSource) eventDays(ev *ical.VEvent, from, to time.Time) ([]time.Time, error) {
	prop := ev.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return nil, fmt.Errorf("missing DTSTART")
	}
	if !isAllDay(prop) {
		return nil, nil
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("invalid DTSTART: %w", err)
	}
	start = midnight(start, s.loc)

	length := 1
	if end, err := ev.GetEndAt(); err == nil && !end.IsZero() {
		end = midnight(end, s.loc)
		if n := int(end.Sub(start).Hours()/24 + 0.5); n > 1 {
			length = n
		}
	}

	occurrences := []time.Time{start}
	if p := ev.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		r, err := rrule.StrToRRule(p.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE %q: %w", p.Value, err)
		}
		r.DTStart(start)
		// Occurrences that began before from can still cover it.
		occurrences = r.Between(midnight(from, s.loc).AddDate(0, 0, -length+1), midnight(to, s.loc), true)
	}

	var days []time.Time
	for _, occ := range occurrences {
		for i := 0; i < length; i++ {
			d := occ.AddDate(0, 0, i)
			if inRange(d, from, to) {
				days = append(days, d)
			}
		}
	}
	return days, nil
}

// isAllDay follows the DTSTART form: VALUE=DATE, or a value without a time.
func isAllDay(prop *ical.IANAProperty) bool {
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}
