package blackout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/storage"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func formatted(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) Dates(context.Context, time.Time, time.Time) ([]time.Time, error) {
	return nil, errors.New("boom")
}

func TestStaticSource(t *testing.T) {
	src, err := NewStaticSource([]string{"2024-01-15", "2024-03-01"}, time.UTC)
	require.NoError(t, err)

	dates, err := src.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15"}, formatted(dates))

	_, err = NewStaticSource([]string{"15/01/2024"}, time.UTC)
	assert.Error(t, err)
}

func TestRuleSourceWeekends(t *testing.T) {
	src, err := NewRuleSource([]string{"RRULE:FREQ=WEEKLY;BYDAY=SA,SU"}, time.UTC)
	require.NoError(t, err)

	dates, err := src.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 14))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-06", "2024-01-07", "2024-01-13", "2024-01-14"}, formatted(dates))
}

func TestRuleSourceInvalid(t *testing.T) {
	_, err := NewRuleSource([]string{"FREQ=SOMETIMES"}, time.UTC)
	assert.Error(t, err)
}

func TestHolidaySourceJapan(t *testing.T) {
	src, err := NewHolidaySource("jp", time.UTC)
	require.NoError(t, err)

	dates, err := src.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	// New Year's Day and Coming of Age Day.
	assert.Equal(t, []string{"2024-01-01", "2024-01-08"}, formatted(dates))

	_, err = NewHolidaySource("atlantis", time.UTC)
	assert.Error(t, err)
}

const testICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//calpick//test//EN
BEGIN:VEVENT
UID:trip@test
DTSTART;VALUE=DATE:20240110
DTEND;VALUE=DATE:20240113
SUMMARY:Trip
END:VEVENT
BEGIN:VEVENT
UID:standup@test
DTSTART:20240115T090000Z
DTEND:20240115T093000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:monthly@test
DTSTART;VALUE=DATE:20240105
RRULE:FREQ=MONTHLY;COUNT=3
SUMMARY:Maintenance
END:VEVENT
END:VCALENDAR
`

func writeICS(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte(testICS), 0o600))
	return path
}

func TestICSSource(t *testing.T) {
	r := NewResolver(time.UTC, NewICSSource([]string{writeICS(t)}, time.UTC))

	dates, err := r.Dates(context.Background(), day(2024, 1, 1), day(2024, 2, 29))
	require.NoError(t, err)

	got := formatted(dates)
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-11", "2024-01-12", "2024-02-05"}, got)
}

func TestICSSourceMissingFile(t *testing.T) {
	src := NewICSSource([]string{filepath.Join(t.TempDir(), "missing.ics")}, time.UTC)

	_, err := src.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 31))
	assert.Error(t, err)
}

func TestResolverMergesAndDeduplicates(t *testing.T) {
	static, err := NewStaticSource([]string{"2024-01-06", "2024-01-20"}, time.UTC)
	require.NoError(t, err)
	rules, err := NewRuleSource([]string{"FREQ=WEEKLY;BYDAY=SA"}, time.UTC)
	require.NoError(t, err)

	r := NewResolver(time.UTC, static, rules)
	dates, err := r.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 21))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-06", "2024-01-13", "2024-01-20"}, formatted(dates))
}

func TestResolverKeepsGoingWhenASourceFails(t *testing.T) {
	static, err := NewStaticSource([]string{"2024-01-06"}, time.UTC)
	require.NoError(t, err)

	r := NewResolver(time.UTC, failingSource{}, static)
	dates, err := r.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 31))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"2024-01-06"}, formatted(dates))
}

func TestFromConfig(t *testing.T) {
	db, err := storage.NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()
	repo := storage.NewBlackoutRepository(db)
	_, err = repo.Add(context.Background(), day(2024, 1, 22), "offsite")
	require.NoError(t, err)

	cfg := config.DefaultPicker()
	cfg.DisabledDates = []string{"2024-01-15"}
	cfg.BlackoutRules = []string{"FREQ=MONTHLY;BYMONTHDAY=28"}
	cfg.ICSFiles = []string{writeICS(t)}
	cfg.Holidays = "jp"

	r, err := FromConfig(cfg, repo, time.UTC)
	require.NoError(t, err)

	dates, err := r.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-05", "2024-01-08", "2024-01-10", "2024-01-11",
		"2024-01-12", "2024-01-15", "2024-01-22", "2024-01-28",
	}, formatted(dates))
}

func TestFromConfigRejectsBadValues(t *testing.T) {
	cfg := config.DefaultPicker()
	cfg.DisabledDates = []string{"not a date"}
	_, err := FromConfig(cfg, nil, time.UTC)
	assert.Error(t, err)

	cfg = config.DefaultPicker()
	cfg.Holidays = "xx"
	_, err = FromConfig(cfg, nil, time.UTC)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	from, to := Window(time.Date(2024, 3, 17, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, 2, 1), from)
	assert.Equal(t, day(2024, 4, 30), to)
}

func TestCronSource(t *testing.T) {
	src, err := NewCronSource([]string{"0 9 * * 1", "30 23 1 * *"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "cron", src.Name())

	dates, err := src.Dates(context.Background(), day(2024, 1, 1), day(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29",
		"2024-01-01", "2024-02-01",
	}, formatted(dates))
}

func TestCronSourceInvalid(t *testing.T) {
	_, err := NewCronSource([]string{"every monday"}, time.UTC)
	assert.Error(t, err)

	cfg := config.DefaultPicker()
	cfg.BlackoutCron = []string{"61 * * * *"}
	_, err = FromConfig(cfg, nil, time.UTC)
	assert.Error(t, err)
}

func TestFromConfigCron(t *testing.T) {
	cfg := config.DefaultPicker()
	cfg.BlackoutCron = []string{"0 0 * * 0,6"}

	r, err := FromConfig(cfg, nil, time.UTC)
	require.NoError(t, err)

	dates, err := r.Dates(context.Background(), day(2024, 1, 1), day(2024, 1, 14))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-06", "2024-01-07", "2024-01-13", "2024-01-14"}, formatted(dates))
}
