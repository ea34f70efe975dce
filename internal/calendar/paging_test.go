package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		mode  Mode
		dir   int
		want  time.Time
	}{
		{"next month clamps", "2024-01-31 12:00", ModeDay, 1, at(2024, 2, 29, 12, 0)},
		{"previous month across year", "2024-01-15", ModeDay, -1, at(2023, 12, 15, 0, 0)},
		{"month grid pages a year", "2024-02-29", ModeMonth, 1, at(2025, 2, 28, 0, 0)},
		{"year grid pages a window", "2024-06-01", ModeYear, -1, at(2015, 6, 1, 0, 0)},
		{"hour grid does not page", "2024-06-01 08:00", ModeHour, 1, at(2024, 6, 1, 8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, tt.value)
			before := h.Time()

			got := Page(h, tt.mode, tt.dir, 0)

			assert.Equal(t, tt.want, got.Time())
			assert.True(t, before.Equal(h.Time()), "paging must not touch the value")
		})
	}
}

func TestPageYearWindowFollowsRange(t *testing.T) {
	h := newHandler(t, "2024-06-01")
	assert.Equal(t, 2027, Page(h, ModeYear, 1, 1).Year())
}
