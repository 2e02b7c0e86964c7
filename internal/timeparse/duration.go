package timeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 2630016 * time.Second  // 30.44 days
	year  = 31557600 * time.Second // 365.25 days
)

// units is case-sensitive: "m" is minutes and "M" is months.
var units = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// ParseDuration parses a human duration such as "90m", "2h30m", "1h 15min"
// or "3 days". Every segment is an unsigned integer followed by a unit;
// whitespace is allowed between the number and its unit and between
// segments.
func ParseDuration(text string) (time.Duration, error) {
	p := &scanner{s: text}
	p.skipSpace()
	if p.s == "" {
		return 0, durationError(text, "empty duration")
	}

	var total time.Duration
	for p.s != "" {
		digits := p.run(isDigit)
		if digits == "" {
			return 0, durationError(text, fmt.Sprintf("expected number at %q", p.s))
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, durationError(text, "number too large")
		}

		p.skipSpace()
		name := p.run(isLetter)
		if name == "" {
			return 0, durationError(text, fmt.Sprintf("missing unit after %s", digits))
		}
		unit, ok := units[name]
		if !ok {
			return 0, durationError(text, fmt.Sprintf("unknown unit %q", name))
		}

		if n > int64(math.MaxInt64/unit) {
			return 0, durationError(text, "duration overflows")
		}
		seg := time.Duration(n) * unit
		if total > math.MaxInt64-seg {
			return 0, durationError(text, "duration overflows")
		}
		total += seg

		p.skipSpace()
	}
	return total, nil
}

func durationError(text, reason string) error {
	return &Error{
		Input: text,
		Msg:   fmt.Sprintf("cannot parse %q: %s (examples: 90m, 1h30m, 2 days)", text, reason),
		Err:   ErrInvalidDuration,
	}
}

type scanner struct {
	s string
}

func (p *scanner) run(f func(r rune) bool) string {
	for i, r := range p.s {
		if !f(r) {
			out := p.s[:i]
			p.s = p.s[i:]
			return out
		}
	}
	out := p.s
	p.s = ""
	return out
}

func (p *scanner) skipSpace() {
	p.s = strings.TrimLeftFunc(p.s, unicode.IsSpace)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
