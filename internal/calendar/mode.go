package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the granularity the picker currently displays.
type Mode string

const (
	// ModeNone is the terminal mode: the value is committed and the picker
	// closes.
	ModeNone   Mode = ""
	ModeDay    Mode = "day"
	ModeMonth  Mode = "month"
	ModeYear   Mode = "year"
	ModeHour   Mode = "hour"
	ModeMinute Mode = "minute"
)

var ErrUnknownMode = errors.New("unknown calendar mode")

// ParseMode parses a mode name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDay, ModeMonth, ModeYear, ModeHour, ModeMinute:
		return m, nil
	default:
		return ModeNone, fmt.Errorf("%w: %q (expected day, month, year, hour or minute)", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	return string(m)
}

// Trigger is the kind of event that moves the picker between modes.
type Trigger int

const (
	// TriggerSelect is a cell click.
	TriggerSelect Trigger = iota
	// TriggerChangeMode is the header's "zoom out" action.
	TriggerChangeMode
)

// Options select which parts of a value the picker edits.
type Options struct {
	Date  bool
	Time  bool
	Range bool
}

// Phase tells the state machine which end of a range is being picked.
type Phase int

const (
	PhaseSingle Phase = iota
	PhaseStart
	PhaseEnd
)

// PhaseFor returns the phase for a picker with the given options. anchored
// reports whether a range start has already been committed.
func PhaseFor(opts Options, anchored bool) Phase {
	switch {
	case !opts.Range:
		return PhaseSingle
	case anchored:
		return PhaseEnd
	default:
		return PhaseStart
	}
}

// InitialMode is day, or hour when only the time is editable.
func InitialMode(opts Options) Mode {
	if !opts.Date && opts.Time {
		return ModeHour
	}
	return ModeDay
}

type transition struct {
	from    Mode
	trigger Trigger
}

type rule func(opts Options, phase Phase) Mode

func always(m Mode) rule {
	return func(Options, Phase) Mode { return m }
}

// commitOrRestart finishes a pick. The start of a range goes back to the
// day grid for the end; everything else commits.
func commitOrRestart(opts Options, phase Phase) Mode {
	if phase == PhaseStart {
		return ModeDay
	}
	return ModeNone
}

var transitions = map[transition]rule{
	{ModeDay, TriggerSelect}: func(opts Options, phase Phase) Mode {
		if opts.Time {
			return ModeHour
		}
		return commitOrRestart(opts, phase)
	},
	{ModeHour, TriggerSelect}:   always(ModeMinute),
	{ModeMinute, TriggerSelect}: commitOrRestart,
	{ModeMonth, TriggerSelect}:  always(ModeDay),
	{ModeYear, TriggerSelect}:   always(ModeMonth),

	{ModeDay, TriggerChangeMode}:   always(ModeMonth),
	{ModeMonth, TriggerChangeMode}: always(ModeYear),
	{ModeYear, TriggerChangeMode}:  always(ModeDay),
}

// Next returns the mode that follows trigger in mode. Combinations without a
// transition leave the mode unchanged.
func Next(mode Mode, trigger Trigger, opts Options, phase Phase) Mode {
	r, ok := transitions[transition{mode, trigger}]
	if !ok {
		return mode
	}
	return r(opts, phase)
}
