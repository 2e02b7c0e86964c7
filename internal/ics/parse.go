package ics

import (
	"bytes"
	"errors"
	"fmt"

	ical "github.com/arran4/golang-ical"

	appLog "quickcal/internal/log"
	"quickcal/internal/model"
)

// ParsedEvent is a single VEVENT read back from an ICS payload.
type ParsedEvent struct {
	UID   string
	Draft model.Draft
}

// Parse reads the first VEVENT of an ICS payload. Extra events are
// ignored and logged.
func Parse(body []byte) (ParsedEvent, error) {
	if len(body) == 0 {
		return ParsedEvent{}, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return ParsedEvent{}, fmt.Errorf("parse calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return ParsedEvent{}, errors.New("calendar has no VEVENT")
	}
	if len(events) > 1 {
		appLog.Warn("ics payload has more than one event; using the first", "event_count", len(events))
	}
	return parseVEvent(events[0])
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Draft.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Draft.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		loc := p.Value
		out.Draft.Location = &loc
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("DTEND: %w", err)
	}
	out.Draft.Interval = model.Interval{Start: start.UTC(), End: end.UTC()}

	return out, nil
}
