package imageutil

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HueRange is the number of distinct hue values in the 8-bit HSV
// convention; hue degrees are halved to fit a byte.
const HueRange = 180

// RGBToHSV converts an RGB color to OpenCV 8-bit HSV. Hue is the angle in
// degrees halved and rounded, saturation and value are scaled to 0-255.
func RGBToHSV(c RGB) HSV {
	h, s, v := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()

	hue := int(math.Round(h / 2))
	if hue >= HueRange {
		hue -= HueRange
	}
	return HSV{
		H: uint8(hue),
		S: clampUint8(s * 255),
		V: clampUint8(v * 255),
	}
}

// HSVToRGB converts an HSV triple in 8-bit OpenCV units to RGB. Each
// channel is rounded to the nearest integer before conversion, so
// fractional cluster means map to the same color OpenCV would produce
// for the rounded pixel.
func HSVToRGB(h, s, v float64) RGB {
	h = math.Round(h)
	s = math.Round(s)
	v = math.Round(v)
	for h >= HueRange {
		h -= HueRange
	}
	for h < 0 {
		h += HueRange
	}
	s = math.Max(0, math.Min(255, s))
	v = math.Max(0, math.Min(255, v))

	r, g, b := colorful.Hsv(h*2, s/255, v/255).RGB255()
	return RGB{R: r, G: g, B: b}
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
