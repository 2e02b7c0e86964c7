// Package timeparse converts user-entered text into timestamps and
// durations.
package timeparse

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// LayoutLocalMinute is the shape produced by browser datetime-local inputs:
// no seconds and no offset.
const LayoutLocalMinute = "2006-01-02T15:04"

// ParseTime parses text into a UTC instant.
//
// It first tries a permissive parse that understands ISO 8601, RFC 3339 and
// most common human date/time formats; values without an offset are read as
// UTC. If that fails it falls back to LayoutLocalMinute.
func ParseTime(text string) (time.Time, error) {
	if t, err := dateparse.ParseIn(text, time.UTC); err == nil {
		return t.UTC(), nil
	}

	t, err := parseLocalMinute(text)
	if err != nil {
		return time.Time{}, &Error{
			Input: text,
			Msg:   fmt.Sprintf("cannot parse %q: invalid time format, please use ISO 8601 or RFC 3339", text),
			Err:   ErrInvalidTime,
		}
	}
	return t, nil
}

func parseLocalMinute(text string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutLocalMinute, text, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
