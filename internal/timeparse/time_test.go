package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 utc", "2023-06-01T12:30:00Z", time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2023-06-01T14:30:00+02:00", time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"datetime-local", "2023-06-01T12:30", time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"space separated", "2023-06-01 12:30:00", time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"date only", "2023-06-01", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"human", "May 8, 2009 5:57:51 PM", time.Date(2009, 5, 8, 17, 57, 51, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTime_FallbackShapes(t *testing.T) {
	minute, err := ParseTime("2023-06-01T12:30")
	require.NoError(t, err)
	seconds, err := ParseTime("2023-06-01T12:30:30Z")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, seconds.Sub(minute))
}

func TestParseLocalMinute(t *testing.T) {
	got, err := parseLocalMinute("2023-01-01T10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), got)

	_, err = parseLocalMinute("2023-01-01T10:00:00")
	assert.Error(t, err)
}

func TestParseTime_Invalid(t *testing.T) {
	for _, in := range []string{"not-a-date", "", "2023-13-45T99:99"} {
		_, err := ParseTime(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrInvalidTime)
		assert.NotErrorIs(t, err, ErrInvalidDuration)

		var perr *Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, in, perr.Input)
		assert.Contains(t, perr.Error(), "ISO 8601")
	}
}
