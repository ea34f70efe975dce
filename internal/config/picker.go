package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
)

// Picker is the YAML picker configuration.
type Picker struct {
	// Handler names the date handler: "native" or "calendar".
	Handler string `yaml:"handler"`

	// Timezone is an IANA zone name. Only the calendar handler honours it.
	Timezone string `yaml:"timezone"`

	// WeekStart is a weekday name ("monday") or number (0 = Sunday).
	WeekStart string `yaml:"week_start"`

	Date  bool `yaml:"date"`
	Time  bool `yaml:"time"`
	Range bool `yaml:"range"`

	YearRange          int  `yaml:"year_range"`
	MinuteStep         int  `yaml:"minute_step"`
	InclusiveSingleDay bool `yaml:"inclusive_single_day"`

	// DateFormat and TimeFormat are Go layouts. Empty keeps the handler's
	// built-in format.
	DateFormat string `yaml:"date_format"`
	TimeFormat string `yaml:"time_format"`

	// DisabledDates are YYYY-MM-DD dates that cannot be picked.
	DisabledDates []string `yaml:"disabled_dates"`
	// BlackoutRules are RRULE strings, optionally with a DTSTART line.
	BlackoutRules []string `yaml:"blackout_rules"`
	// BlackoutCron are five-field cron specs; days they fire on are disabled.
	BlackoutCron []string `yaml:"blackout_cron"`
	// ICSFiles are calendars whose all-day events are disabled.
	ICSFiles []string `yaml:"ics_files"`
	// Holidays names a public holiday calendar to disable ("jp").
	Holidays string `yaml:"holidays"`

	Months    []string `yaml:"months"`
	DaysShort []string `yaml:"days_short"`
}

// DefaultPicker returns the built-in configuration.
func DefaultPicker() *Picker {
	return &Picker{
		Handler:       datehandler.Native,
		WeekStart:     "monday",
		Date:          true,
		Time:          true,
		YearRange:     calendar.DefaultYearRange,
		MinuteStep:    calendar.DefaultMinuteStep,
		DisabledDates: []string{},
		BlackoutRules: []string{},
		BlackoutCron:  []string{},
		ICSFiles:      []string{},
		Months:        calendar.DefaultMonthNames(),
		DaysShort:     calendar.DefaultDaysShort(),
	}
}

// Normalize fills in missing or out-of-range values with defaults.
func (p *Picker) Normalize() {
	def := DefaultPicker()
	if p.Handler == "" {
		p.Handler = def.Handler
	}
	if _, err := ParseWeekday(p.WeekStart); err != nil {
		p.WeekStart = def.WeekStart
	}
	if !p.Date && !p.Time {
		p.Date = true
	}
	if p.YearRange <= 0 {
		p.YearRange = def.YearRange
	}
	if p.MinuteStep <= 0 || p.MinuteStep > 60 {
		p.MinuteStep = def.MinuteStep
	}
	if p.DisabledDates == nil {
		p.DisabledDates = []string{}
	}
	if p.BlackoutRules == nil {
		p.BlackoutRules = []string{}
	}
	if p.BlackoutCron == nil {
		p.BlackoutCron = []string{}
	}
	if p.ICSFiles == nil {
		p.ICSFiles = []string{}
	}
	if len(p.Months) != 12 {
		p.Months = def.Months
	}
	if len(p.DaysShort) != 7 {
		p.DaysShort = def.DaysShort
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts a weekday name, its three-letter prefix, or a number
// from 0 (Sunday) to 6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("week start %d out of range 0-6", n)
		}
		return time.Weekday(n), nil
	}
	for name, wd := range weekdays {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown week start %q", s)
}

// FirstDayOfWeek returns the configured week start, Monday if invalid.
func (p *Picker) FirstDayOfWeek() time.Weekday {
	wd, err := ParseWeekday(p.WeekStart)
	if err != nil {
		return time.Monday
	}
	return wd
}

// Settings returns the date handler settings, turning the configured
// layouts into formatters.
func (p *Picker) Settings() datehandler.Settings {
	s := datehandler.Settings{TimeZone: p.Timezone}
	if layout := p.DateFormat; layout != "" {
		s.DateFormatter = func(t time.Time) string { return t.Format(layout) }
	}
	if layout := p.TimeFormat; layout != "" {
		s.TimeFormatter = func(t time.Time) string { return t.Format(layout) }
	}
	return s
}

// Constructor looks up the configured date handler.
func (p *Picker) Constructor() (datehandler.Constructor, error) {
	return datehandler.Lookup(p.Handler, p.Settings())
}

func (p *Picker) Options() calendar.Options {
	return calendar.Options{Date: p.Date, Time: p.Time, Range: p.Range}
}

// Params returns the grid parameters that come from configuration. Disabled
// dates are resolved separately.
func (p *Picker) Params() calendar.Params {
	return calendar.Params{
		FirstDayOfWeek:     p.FirstDayOfWeek(),
		InclusiveSingleDay: p.InclusiveSingleDay,
		MonthNames:         p.Months,
		DaysShort:          p.DaysShort,
		YearRange:          p.YearRange,
		MinuteStep:         p.MinuteStep,
	}
}

// LoadPicker reads the configuration at path. Keys missing from the file
// keep their defaults. A missing file is created with the defaults.
func LoadPicker(path string) (*Picker, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultPicker()
			if err := SavePicker(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultPicker()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// SavePicker writes cfg to path atomically with 0600 permissions.
func SavePicker(path string, cfg *Picker) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calpick-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience wrapper around SavePicker.
func (p *Picker) Save(path string) error {
	return SavePicker(path, p)
}
