// Package blackout resolves the dates the picker must refuse: fixed dates from
// the configuration, dates stored with "calpick blackout add", recurring
// RRULE rules, all-day events from ICS files and public holidays.
package blackout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/storage"
)

// Source yields disabled days in [from, to]. Returned times are midnight in
// the resolver's location.
type Source interface {
	Name() string
	Dates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// Resolver merges several sources.
type Resolver struct {
	loc     *time.Location
	sources []Source
}

func NewResolver(loc *time.Location, sources ...Source) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{loc: loc, sources: sources}
}

// Dates returns the distinct disabled days in [from, to], sorted. A failing
// source does not hide the others: its error is joined into the returned
// error alongside whatever the remaining sources produced.
func (r *Resolver) Dates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	seen := make(map[string]bool)
	var (
		out  []time.Time
		errs []error
	)
	for _, src := range r.sources {
		dates, err := src.Dates(ctx, from, to)
		if err != nil {
			logger.Warn("blackout: source failed", "source", src.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		for _, d := range dates {
			d = midnight(d, r.loc)
			sig := datehandler.Signature(d)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	logger.Debug("blackout: resolved", "from", from, "to", to, "count", len(out))
	return out, errors.Join(errs...)
}

// Window returns the range a day grid anchored at view can show: the first
// day of the previous month through the last day of the next month.
func Window(view time.Time) (time.Time, time.Time) {
	first := time.Date(view.Year(), view.Month(), 1, 0, 0, 0, 0, view.Location())
	return first.AddDate(0, -1, 0), first.AddDate(0, 2, -1)
}

// FromConfig builds a resolver from the picker configuration. repo may be nil
// when no database is available.
func FromConfig(cfg *config.Picker, repo *storage.BlackoutRepository, loc *time.Location) (*Resolver, error) {
	if loc == nil {
		loc = time.Local
	}
	var sources []Source

	if len(cfg.DisabledDates) > 0 {
		static, err := NewStaticSource(cfg.DisabledDates, loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, static)
	}
	if repo != nil {
		sources = append(sources, NewStoreSource(repo, loc))
	}
	if len(cfg.BlackoutRules) > 0 {
		rules, err := NewRuleSource(cfg.BlackoutRules, loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, rules)
	}
	if len(cfg.BlackoutCron) > 0 {
		crons, err := NewCronSource(cfg.BlackoutCron, loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, crons)
	}
	if len(cfg.ICSFiles) > 0 {
		sources = append(sources, NewICSSource(cfg.ICSFiles, loc))
	}
	if cfg.Holidays != "" {
		holidays, err := NewHolidaySource(cfg.Holidays, loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, holidays)
	}

	return NewResolver(loc, sources...), nil
}

// midnight keeps the calendar date of t and drops the time of day.
func midnight(t time.Time, loc *time.Location) time.Time {
	return datehandler.StartOfDay(t.Year(), t.Month(), t.Day(), loc)
}

// inRange reports whether the day of d lies within the days of [from, to].
func inRange(d, from, to time.Time) bool {
	sig := datehandler.Signature(d)
	return sig >= datehandler.Signature(from) && sig <= datehandler.Signature(to)
}
