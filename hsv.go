package flowerhue

import (
	"fmt"
	"strconv"
	"strings"
)

// HSVMean is an HSV colour with fractional channels, in the same units as
// imageutil.HSV.
type HSVMean struct {
	H, S, V float64
}

// Channel returns channel i (0 hue, 1 saturation, 2 value).
func (c HSVMean) Channel(i int) float64 {
	switch i {
	case 0:
		return c.H
	case 1:
		return c.S
	}
	return c.V
}

// String formats the colour as "h,s,v".
func (c HSVMean) String() string {
	return fmt.Sprintf("%g,%g,%g", c.H, c.S, c.V)
}

// ParseHSV parses a comma separated "h,s,v" triple.
func ParseHSV(text string) (HSVMean, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return HSVMean{}, fmt.Errorf("expected h,s,v but got %q", text)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return HSVMean{}, fmt.Errorf("invalid channel %q in %q: %w", p, text, err)
		}
		vals[i] = v
	}
	return HSVMean{H: vals[0], S: vals[1], V: vals[2]}, nil
}

// Bounds is an inclusive per-channel HSV range.
type Bounds struct {
	Lower, Upper HSVMean
}

// DefaultBounds is the Geranium flower range: purple-to-pink hues with a
// minimum saturation.
var DefaultBounds = Bounds{
	Lower: HSVMean{H: 123, S: 15, V: 0},
	Upper: HSVMean{H: 157, S: 255, V: 255},
}

// Contains reports whether c lies within the bounds. Hue is checked
// first, then saturation, then value.
func (b Bounds) Contains(c HSVMean) bool {
	if !between(b.Lower.H, c.H, b.Upper.H) {
		return false
	}
	if !between(b.Lower.S, c.S, b.Upper.S) {
		return false
	}
	return between(b.Lower.V, c.V, b.Upper.V)
}

func between(lower, v, upper float64) bool {
	return lower <= v && v <= upper
}
