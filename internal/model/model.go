package model

import "time"

// Field names recognised in a submitted event form or query string.
const (
	FieldTitle       = "title"
	FieldDescription = "desc"
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldDuration    = "duration"
	FieldLocation    = "location"
)

// Fields is the raw name -> text mapping submitted by a client. Unknown
// keys are carried along but never read.
type Fields map[string]string

// Lookup returns the value for key and whether the key was present at all.
func (f Fields) Lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// Blank reports whether there are no fields or every value is empty.
func (f Fields) Blank() bool {
	for _, v := range f {
		if v != "" {
			return false
		}
	}
	return true
}

// Interval is a resolved pair of UTC instants. End is not guaranteed to be
// after Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Inverted reports whether End is before Start.
func (i Interval) Inverted() bool {
	return i.End.Before(i.Start)
}

// Draft is a single event ready to be serialized.
type Draft struct {
	Title       string
	Description string

	// Location is nil when the client did not send the field.
	Location *string

	Interval Interval
}
