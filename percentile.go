package flowerhue

import (
	"math"
	"sort"
)

// Percentile returns the nth percentile (0-100) of values, interpolating
// linearly between the two closest ranks at position (len-1)*n/100. It
// returns 0 for an empty slice.
func Percentile(values []float64, n float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	p := n / 100
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// AboveNth returns the values at or above the nth percentile, in their
// original order. Useful for isolating the lighter part of a flower.
func AboveNth(values []float64, n float64) []float64 {
	cut := Percentile(values, n)
	var out []float64
	for _, v := range values {
		if v >= cut {
			out = append(out, v)
		}
	}
	return out
}

// BelowNth returns the values at or below the nth percentile, in their
// original order.
func BelowNth(values []float64, n float64) []float64 {
	cut := Percentile(values, n)
	var out []float64
	for _, v := range values {
		if v <= cut {
			out = append(out, v)
		}
	}
	return out
}

// PercentPixels returns count as a fraction of a width x height image.
func PercentPixels(count, width, height int) float64 {
	total := width * height
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
