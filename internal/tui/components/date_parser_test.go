package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeBiancalana/calpick/internal/datehandler"
)

func nativeConstructor(t *testing.T) datehandler.Constructor {
	t.Helper()
	construct, err := datehandler.NewNative(datehandler.Settings{})
	require.NoError(t, err)
	return construct
}

func TestParseRelativeDate(t *testing.T) {
	construct := nativeConstructor(t)
	// Sunday 2025-01-12 10:30.
	base := construct(time.Date(2025, 1, 12, 10, 30, 0, 0, time.Local))

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"t", "2025-01-12 10:30", false},
		{"today", "2025-01-12 10:30", false},
		{"tm", "2025-01-13 10:30", false},
		{"tomorrow", "2025-01-13 10:30", false},
		{"y", "2025-01-11 10:30", false},
		{"+3d", "2025-01-15 10:30", false},
		{"-12d", "2024-12-31 10:30", false},
		{"+2w", "2025-01-26 10:30", false},
		{"+1m", "2025-02-12 10:30", false},
		{"-1y", "2024-01-12 10:30", false},
		{"mon", "2025-01-13 10:30", false},
		{"sun", "2025-01-19 10:30", false},
		{"tm 9:05", "2025-01-13 09:05", false},
		{"+1d 00:00", "2025-01-13 00:00", false},
		{"2024-02-29", "2024-02-29 00:00", false},
		{"2024-02-29 18:45", "2024-02-29 18:45", false},
		{"  TODAY  ", "2025-01-12 10:30", false},

		{"", "", true},
		{"+0d", "", true},
		{"+3x", "", true},
		{"+d", "", true},
		{"someday", "", true},
		{"tm 25:00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, base, construct)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Time().Format("2006-01-02 15:04"))
		})
	}

	assert.Equal(t, "2025-01-12 10:30", base.Time().Format("2006-01-02 15:04"), "base must not change")
}

func TestParseRelativeDateMonthEndClamps(t *testing.T) {
	construct := nativeConstructor(t)
	base := construct("2024-01-31")

	got, err := ParseRelativeDate("+1m", base, construct)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got.Time().Format("2006-01-02"))
}

func TestGetDateDescription(t *testing.T) {
	now := time.Date(2025, 1, 12, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		date     time.Time
		expected string
	}{
		{now, "today"},
		{now.AddDate(0, 0, 1), "tomorrow"},
		{now.AddDate(0, 0, -1), "yesterday"},
		{now.AddDate(0, 0, 3), "Wednesday"},
		{now.AddDate(0, 0, -3), "last Thursday"},
		{now.AddDate(0, 0, 7), "in 1 week"},
		{now.AddDate(0, 0, 15), "in 2 weeks"},
		{now.AddDate(0, 0, -14), "2 weeks ago"},
		{now.AddDate(0, 0, 40), "Feb 21, 2025"},
		{now.AddDate(0, 0, -40), "Dec 3, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetDateDescription(tt.date, now))
		})
	}
}
