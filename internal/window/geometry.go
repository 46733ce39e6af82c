// Package window defines the persisted shape of the shell window: its
// bounds rectangle and its state, with locale-independent text encodings.
package window

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRect is returned by ParseRect for text that is not a rectangle.
var ErrInvalidRect = errors.New("invalid rectangle")

// emptyRect is the text form of the empty rectangle.
const emptyRect = "Empty"

// Rect is a window rectangle in device-independent units.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether r is the structural default rectangle.
// A zero rectangle in settings is treated as absent.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// String formats r as "left,top,width,height" using '.' as the decimal
// separator regardless of locale. The zero rectangle formats as "Empty".
func (r Rect) String() string {
	if r.IsZero() {
		return emptyRect
	}
	parts := []string{
		formatFloat(r.Left),
		formatFloat(r.Top),
		formatFloat(r.Width),
		formatFloat(r.Height),
	}
	return strings.Join(parts, ",")
}

// ParseRect parses the text produced by Rect.String. Values may be separated
// by commas, whitespace or both. Values must be finite; width and height
// must not be negative.
func ParseRect(s string) (Rect, error) {
	s = strings.TrimSpace(s)
	if s == emptyRect {
		return Rect{}, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 4 {
		return Rect{}, fmt.Errorf("%w: %q: want 4 values, got %d", ErrInvalidRect, s, len(fields))
	}

	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Rect{}, fmt.Errorf("%w: %q: %v", ErrInvalidRect, s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rect{}, fmt.Errorf("%w: %q: non-finite value", ErrInvalidRect, s)
		}
		vals[i] = v
	}

	if vals[2] < 0 || vals[3] < 0 {
		return Rect{}, fmt.Errorf("%w: %q: negative size", ErrInvalidRect, s)
	}

	return Rect{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
