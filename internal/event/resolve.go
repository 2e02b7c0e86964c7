// Package event builds a single calendar event from loosely specified form
// fields.
package event

import (
	"fmt"
	"strings"
	"time"

	"quickcal/internal/model"
	"quickcal/internal/timeparse"
)

// DefaultDuration is used whenever only one endpoint (or neither) is known
// and no duration was given.
const DefaultDuration = time.Hour

// InvertedPolicy controls what happens when an explicit end lies before an
// explicit start.
type InvertedPolicy string

const (
	// InvertedPass returns the interval unchanged.
	InvertedPass InvertedPolicy = "pass"
	// InvertedReject fails with ErrInvertedInterval.
	InvertedReject InvertedPolicy = "reject"
)

// ParseInvertedPolicy accepts "pass" or "reject"; empty means pass.
func ParseInvertedPolicy(s string) (InvertedPolicy, error) {
	switch InvertedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case InvertedPass, "":
		return InvertedPass, nil
	case InvertedReject:
		return InvertedReject, nil
	default:
		return InvertedPass, fmt.Errorf("unknown inverted interval policy %q (want pass or reject)", s)
	}
}

// Options configures a Resolver. The zero value resolves with a one hour
// default and passes inverted intervals through.
type Options struct {
	DefaultDuration time.Duration
	Inverted        InvertedPolicy
}

// Input holds the raw start, end and duration text. An empty string means
// the field was not provided.
type Input struct {
	Start    string
	End      string
	Duration string
}

// InputFromFields picks the time-related fields out of a submitted form.
func InputFromFields(f model.Fields) Input {
	return Input{
		Start:    f[model.FieldStart],
		End:      f[model.FieldEnd],
		Duration: f[model.FieldDuration],
	}
}

// Resolver turns an Input into a definite interval. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	defaultDuration time.Duration
	inverted        InvertedPolicy
}

// NewResolver returns a Resolver for opts.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		defaultDuration: opts.DefaultDuration,
		inverted:        opts.Inverted,
	}
	if r.defaultDuration <= 0 {
		r.defaultDuration = DefaultDuration
	}
	if r.inverted == "" {
		r.inverted = InvertedPass
	}
	return r
}

// Resolve computes (start, end) from whichever of start, end and duration
// are present:
//
//   - start and end: used as given, duration ignored
//   - start only:    start + (duration or default)
//   - end only:      end - (duration or default)
//   - neither:       now + (duration or default)
//
// Every provided field is parsed before the rules apply, so a malformed
// field always fails with a *FieldError even when its value would not be
// used. now must be sampled once by the caller.
func (r *Resolver) Resolve(in Input, now time.Time) (model.Interval, error) {
	start, hasStart, err := parseField(model.FieldStart, in.Start, timeparse.ParseTime)
	if err != nil {
		return model.Interval{}, err
	}
	end, hasEnd, err := parseField(model.FieldEnd, in.End, timeparse.ParseTime)
	if err != nil {
		return model.Interval{}, err
	}
	span, hasSpan, err := parseField(model.FieldDuration, in.Duration, timeparse.ParseDuration)
	if err != nil {
		return model.Interval{}, err
	}
	if !hasSpan {
		span = r.defaultDuration
	}

	var iv model.Interval
	switch {
	case hasStart && hasEnd:
		iv = model.Interval{Start: start, End: end}
	case hasStart:
		iv = model.Interval{Start: start, End: start.Add(span)}
	case hasEnd:
		iv = model.Interval{Start: end.Add(-span), End: end}
	default:
		now = now.UTC()
		iv = model.Interval{Start: now, End: now.Add(span)}
	}

	if r.inverted == InvertedReject && iv.Inverted() {
		return model.Interval{}, fmt.Errorf("%w: %s < %s", ErrInvertedInterval,
			iv.End.Format(time.RFC3339), iv.Start.Format(time.RFC3339))
	}
	return iv, nil
}

func parseField[T any](field, text string, parse func(string) (T, error)) (T, bool, error) {
	var zero T
	if text == "" {
		return zero, false, nil
	}
	v, err := parse(text)
	if err != nil {
		return zero, false, &FieldError{Field: field, Err: err}
	}
	return v, true, nil
}
