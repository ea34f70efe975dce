package blackout

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronSource disables every day on which a cron schedule fires, e.g.
// "0 9 * * 1" for Monday mornings. Only the day matters.
type CronSource struct {
	schedules []cron.Schedule
	loc       *time.Location
}

// NewCronSource parses standard five-field cron specs.
func NewCronSource(specs []string, loc *time.Location) (*CronSource, error) {
	s := &CronSource{loc: loc}
	for _, spec := range specs {
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid blackout cron %q: %w", spec, err)
		}
		s.schedules = append(s.schedules, sched)
	}
	return s, nil
}

func (s *CronSource) Name() string { return "cron" }

func (s *CronSource) Dates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	start := midnight(from, s.loc)
	end := midnight(to, s.loc)

	var out []time.Time
	for _, sched := range s.schedules {
		day := start
		for !day.After(end) {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			// Next is strictly after its argument.
			next := sched.Next(day.Add(-time.Second))
			if next.IsZero() {
				break
			}
			fires := midnight(next.In(s.loc), s.loc)
			if fires.After(end) {
				break
			}
			out = append(out, fires)
			day = fires.AddDate(0, 0, 1)
		}
	}
	return out, nil
}
