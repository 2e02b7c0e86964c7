package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcal/internal/model"
)

func sampleDraft() model.Draft {
	loc := "Room 4"
	return model.Draft{
		Title:       "Planning",
		Description: "Quarterly planning",
		Location:    &loc,
		Interval: model.Interval{
			Start: time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 1, 1, 11, 30, 0, 0, time.UTC),
		},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleDraft(), RenderOptions{
		ProductID: "-//test//quickcal//EN",
		Stamp:     time.Date(2022, 12, 31, 8, 0, 0, 0, time.UTC),
		UID:       "fixed@test",
	})

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	for _, line := range []string{
		"VERSION:2.0",
		"PRODID:-//test//quickcal//EN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:fixed@test",
		"DTSTAMP:20221231T080000Z",
		"DTSTART:20230101T100000Z",
		"DTEND:20230101T113000Z",
		"SUMMARY:Planning",
		"DESCRIPTION:Quarterly planning",
		"LOCATION:Room 4",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		assert.Contains(t, out, line)
	}
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
}

func TestRender_NoLocationAndGeneratedUID(t *testing.T) {
	d := sampleDraft()
	d.Location = nil

	out := Render(d, RenderOptions{})
	assert.NotContains(t, out, "LOCATION")
	assert.Contains(t, out, "@"+UIDDomain)

	other := Render(d, RenderOptions{})
	first, err := Parse([]byte(out))
	require.NoError(t, err)
	second, err := Parse([]byte(other))
	require.NoError(t, err)
	assert.NotEqual(t, first.UID, second.UID)
}

func TestParse_ReadsRenderedEvent(t *testing.T) {
	want := sampleDraft()
	got, err := Parse([]byte(Render(want, RenderOptions{UID: "abc@test"})))
	require.NoError(t, err)

	assert.Equal(t, "abc@test", got.UID)
	assert.Equal(t, want.Title, got.Draft.Title)
	require.NotNil(t, got.Draft.Location)
	assert.Equal(t, *want.Location, *got.Draft.Location)
	assert.True(t, want.Interval.Start.Equal(got.Draft.Interval.Start))
	assert.True(t, want.Interval.End.Equal(got.Draft.Interval.End))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)

	_, err = Parse([]byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"))
	assert.ErrorContains(t, err, "no VEVENT")
}
