package blackout

import (
	"context"
	"fmt"
	"strings"
	"time"

	jpholiday "github.com/rabitt1ove/jp-holidays"
	"github.com/teambition/rrule-go"

	"github.com/MikeBiancalana/calpick/internal/storage"
)

// StaticSource is a fixed list of days.
type StaticSource struct {
	dates []time.Time
}

// NewStaticSource parses YYYY-MM-DD dates in loc.
func NewStaticSource(dates []string, loc *time.Location) (*StaticSource, error) {
	s := &StaticSource{}
	for _, v := range dates {
		t, err := time.ParseInLocation(storage.DateLayout, strings.TrimSpace(v), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid disabled date %q: %w", v, err)
		}
		s.dates = append(s.dates, t)
	}
	return s, nil
}

func (s *StaticSource) Name() string { return "config" }

func (s *StaticSource) Dates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, d := range s.dates {
		if inRange(d, from, to) {
			out = append(out, d)
		}
	}
	return out, nil
}

// StoreSource reads the disabled_dates table.
type StoreSource struct {
	repo *storage.BlackoutRepository
	loc  *time.Location
}

func NewStoreSource(repo *storage.BlackoutRepository, loc *time.Location) *StoreSource {
	return &StoreSource{repo: repo, loc: loc}
}

func (s *StoreSource) Name() string { return "database" }

func (s *StoreSource) Dates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	rows, err := s.repo.Between(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		t, err := row.Time(s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", row.Date, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// ruleEpoch is the start used for rules that do not name a DTSTART.
var ruleEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// RuleSource expands recurring RRULE blackouts, e.g. every weekend.
type RuleSource struct {
	set *rrule.Set
}

// NewRuleSource parses rules of the form "FREQ=WEEKLY;BYDAY=SA,SU",
// optionally prefixed with "RRULE:" and optionally carrying a DTSTART.
func NewRuleSource(rules []string, loc *time.Location) (*RuleSource, error) {
	var set rrule.Set
	for _, raw := range rules {
		s := strings.TrimPrefix(strings.TrimSpace(raw), "RRULE:")
		r, err := rrule.StrToRRule(s)
		if err != nil {
			return nil, fmt.Errorf("invalid blackout rule %q: %w", raw, err)
		}
		if r.OrigOptions.Dtstart.IsZero() {
			r.DTStart(time.Date(ruleEpoch.Year(), ruleEpoch.Month(), ruleEpoch.Day(), 0, 0, 0, 0, loc))
		}
		set.RRule(r)
	}
	return &RuleSource{set: &set}, nil
}

func (s *RuleSource) Name() string { return "rules" }

func (s *RuleSource) Dates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	start := midnight(from, from.Location())
	end := midnight(to, to.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.set.Between(start, end, true), nil
}

// HolidaySource disables public holidays.
type HolidaySource struct {
	cal *jpholiday.Calendar
	loc *time.Location
}

// NewHolidaySource returns the holiday calendar for country. Only "jp" is
// known.
func NewHolidaySource(country string, loc *time.Location) (*HolidaySource, error) {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "jp", "japan":
		return &HolidaySource{cal: jpholiday.New(), loc: loc}, nil
	default:
		return nil, fmt.Errorf("unknown holiday calendar %q (available: jp)", country)
	}
}

func (s *HolidaySource) Name() string { return "holidays" }

func (s *HolidaySource) Dates(_ context.Context, from, to time.Time) ([]time.Time, error) {
	// Holidays are calendar days; compare by date, not instant.
	f := time.Date(from.Year(), from.Month(), from.Day(), 12, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 12, 0, 0, 0, time.UTC)

	holidays := s.cal.HolidaysBetween(f, t)
	out := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, time.Date(h.Date.Year(), h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, s.loc))
	}
	return out, nil
}
