package event

import (
	"errors"

	"quickcal/internal/model"
)

// ErrInvertedInterval is returned when the resolved end is before the
// start and the resolver is configured with InvertedReject.
var ErrInvertedInterval = errors.New("end time is before start time")

var fieldLabels = map[string]string{
	model.FieldStart:    "Invalid start time",
	model.FieldEnd:      "Invalid end time",
	model.FieldDuration: "Invalid duration",
}

// FieldError tags a parse failure with the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = "Invalid " + e.Field
	}
	return label + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
