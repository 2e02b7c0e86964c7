package timeparse

import "errors"

var (
	// ErrInvalidTime is matched by every timestamp parse failure.
	ErrInvalidTime = errors.New("invalid time")
	// ErrInvalidDuration is matched by every duration parse failure.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Error describes why a single input string could not be parsed.
// Err is one of the package sentinels so callers can use errors.Is.
type Error struct {
	Input string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
