// Package qr renders text (usually a calendar document) as a QR code PNG.
package qr

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	ContentType = "image/png"
)

// ErrTooLarge is returned when the text does not fit in any QR version at
// the requested recovery level.
var ErrTooLarge = errors.New("content too large for a QR code")

// Level is the QR error correction level.
type Level = qrcode.RecoveryLevel

// ParseLevel maps low, medium, high or highest to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return qrcode.Low, nil
	case "medium", "":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown QR recovery level %q", s)
	}
}

// Encode returns a size x size PNG encoding text.
func Encode(text string, size int, level Level) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(text, level, size)
	if err != nil {
		if strings.Contains(err.Error(), "too much data") || strings.Contains(err.Error(), "content too long") {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(text))
		}
		return nil, fmt.Errorf("qr: encode failed: %w", err)
	}
	return png, nil
}
