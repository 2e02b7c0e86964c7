package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"quickcal/internal/model"
)

// UIDDomain is appended to generated event UIDs.
const UIDDomain = "quickcal"

// RenderOptions carries the calendar-level values that are not part of
// the event itself.
type RenderOptions struct {
	// ProductID becomes the PRODID property.
	ProductID string
	// Stamp is written as DTSTAMP; usually the request's "now".
	Stamp time.Time
	// UID overrides the generated event UID.
	UID string
}

// Render serializes d as a VCALENDAR containing exactly one VEVENT. All
// timestamps are written in UTC.
func Render(d model.Draft, opts RenderOptions) string {
	cal := ical.NewCalendar()
	if opts.ProductID != "" {
		cal.SetProductId(opts.ProductID)
	}
	cal.SetMethod(ical.MethodPublish)

	uid := opts.UID
	if uid == "" {
		uid = uuid.NewString() + "@" + UIDDomain
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(stamp.UTC())
	ev.SetStartAt(d.Interval.Start.UTC())
	ev.SetEndAt(d.Interval.End.UTC())
	ev.SetSummary(d.Title)
	ev.SetDescription(d.Description)
	if d.Location != nil {
		ev.SetLocation(*d.Location)
	}

	return cal.Serialize()
}
