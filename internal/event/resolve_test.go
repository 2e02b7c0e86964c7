package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcal/internal/model"
	"quickcal/internal/timeparse"
)

var now = time.Date(2024, 2, 10, 15, 4, 5, 0, time.UTC)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolve_Table(t *testing.T) {
	r := NewResolver(Options{})

	tests := []struct {
		name string
		in   Input
		want model.Interval
	}{
		{
			name: "start and end ignore duration",
			in:   Input{Start: "2023-01-01T09:00", End: "2023-01-01T09:05", Duration: "5h"},
			want: model.Interval{Start: utc(2023, 1, 1, 9, 0), End: utc(2023, 1, 1, 9, 5)},
		},
		{
			name: "start and duration",
			in:   Input{Start: "2023-01-01T10:00", Duration: "30m"},
			want: model.Interval{Start: utc(2023, 1, 1, 10, 0), End: utc(2023, 1, 1, 10, 30)},
		},
		{
			name: "start only",
			in:   Input{Start: "2023-01-01T10:00"},
			want: model.Interval{Start: utc(2023, 1, 1, 10, 0), End: utc(2023, 1, 1, 11, 0)},
		},
		{
			name: "end and duration",
			in:   Input{End: "2023-01-01T10:00", Duration: "2h"},
			want: model.Interval{Start: utc(2023, 1, 1, 8, 0), End: utc(2023, 1, 1, 10, 0)},
		},
		{
			name: "end only",
			in:   Input{End: "2023-01-01T10:00"},
			want: model.Interval{Start: utc(2023, 1, 1, 9, 0), End: utc(2023, 1, 1, 10, 0)},
		},
		{
			name: "duration only",
			in:   Input{Duration: "3 days"},
			want: model.Interval{Start: now, End: now.Add(72 * time.Hour)},
		},
		{
			name: "nothing",
			in:   Input{},
			want: model.Interval{Start: now, End: now.Add(time.Hour)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Start.Equal(got.Start), "start: got %v want %v", got.Start, tt.want.Start)
			assert.True(t, tt.want.End.Equal(got.End), "end: got %v want %v", got.End, tt.want.End)
		})
	}
}

func TestResolve_DefaultsAnchorOnNow(t *testing.T) {
	r := NewResolver(Options{})
	for _, n := range []time.Time{
		time.Unix(0, 0).UTC(),
		now,
		time.Date(2031, 12, 31, 23, 59, 59, 999, time.UTC),
	} {
		got, err := r.Resolve(Input{}, n)
		require.NoError(t, err)
		assert.Equal(t, model.Interval{Start: n, End: n.Add(time.Hour)}, got)
	}
}

func TestResolve_NowIsNormalisedToUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got, err := NewResolver(Options{}).Resolve(Input{}, time.Date(2024, 1, 1, 7, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Start.Location())
	assert.Equal(t, utc(2024, 1, 1, 12, 0), got.Start)
}

func TestResolve_CustomDefaultDuration(t *testing.T) {
	r := NewResolver(Options{DefaultDuration: 15 * time.Minute})

	got, err := r.Resolve(Input{End: "2023-01-01T10:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, utc(2023, 1, 1, 9, 45), got.Start)
}

func TestResolve_EmptyEqualsAbsent(t *testing.T) {
	r := NewResolver(Options{})
	fields := []model.Fields{
		{},
		{"start": ""},
		{"end": ""},
		{"duration": ""},
		{"start": "", "end": "", "duration": ""},
	}
	want, err := r.Resolve(Input{}, now)
	require.NoError(t, err)

	for _, f := range fields {
		got, err := r.Resolve(InputFromFields(f), now)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", f)
	}

	// An empty duration next to a start behaves like no duration.
	got, err := r.Resolve(InputFromFields(model.Fields{"start": "2023-01-01T10:00", "duration": ""}), now)
	require.NoError(t, err)
	assert.Equal(t, utc(2023, 1, 1, 11, 0), got.End)
}

func TestResolve_FieldErrors(t *testing.T) {
	r := NewResolver(Options{})

	tests := []struct {
		name     string
		in       Input
		field    string
		sentinel error
		prefix   string
	}{
		{"bad start", Input{Start: "not-a-date"}, model.FieldStart, timeparse.ErrInvalidTime, "Invalid start time: "},
		{"bad end", Input{Start: "2023-01-01T10:00", End: "whenever"}, model.FieldEnd, timeparse.ErrInvalidTime, "Invalid end time: "},
		{"bad duration", Input{Duration: "one hour"}, model.FieldDuration, timeparse.ErrInvalidDuration, "Invalid duration: "},
		{"bad duration with both endpoints", Input{Start: "2023-01-01T10:00", End: "2023-01-01T11:00", Duration: "soon"}, model.FieldDuration, timeparse.ErrInvalidDuration, "Invalid duration: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.in, now)
			require.Error(t, err)
			assert.Equal(t, model.Interval{}, got)
			assert.ErrorIs(t, err, tt.sentinel)

			var ferr *FieldError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.field, ferr.Field)
			assert.Contains(t, err.Error(), tt.prefix)
		})
	}
}

func TestResolve_InvertedPolicy(t *testing.T) {
	in := Input{Start: "2023-01-01T10:00", End: "2023-01-01T09:00"}

	got, err := NewResolver(Options{}).Resolve(in, now)
	require.NoError(t, err)
	assert.True(t, got.Inverted())
	assert.Equal(t, -time.Hour, got.Duration())

	_, err = NewResolver(Options{Inverted: InvertedReject}).Resolve(in, now)
	assert.ErrorIs(t, err, ErrInvertedInterval)

	// A negative span from subtraction is never produced by the defaults.
	got, err = NewResolver(Options{Inverted: InvertedReject}).Resolve(Input{End: "2023-01-01T09:00"}, now)
	require.NoError(t, err)
	assert.False(t, got.Inverted())
}

func TestParseInvertedPolicy(t *testing.T) {
	p, err := ParseInvertedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, InvertedPass, p)

	p, err = ParseInvertedPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, InvertedReject, p)

	_, err = ParseInvertedPolicy("fix")
	assert.Error(t, err)
}
