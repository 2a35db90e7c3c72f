package flowerhue

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wbrown/flowerhue/imageutil"
)

// minScale is the deviation below which a channel is treated as constant.
const minScale = 1e-12

// Scaler standardizes HSV samples to zero mean and unit variance per
// channel. Hue spans 0-179 while saturation and value span 0-255, so an
// unscaled distance would weight channels by their native range.
type Scaler struct {
	Mean  [3]float64
	Scale [3]float64
}

// FitScaler computes the per-channel population mean and standard
// deviation of samples. A channel with zero deviation gets a scale of 1 so
// constant channels map to 0 instead of NaN.
func FitScaler(samples []imageutil.HSV) Scaler {
	var s Scaler
	if len(samples) == 0 {
		s.Scale = [3]float64{1, 1, 1}
		return s
	}
	channel := make([]float64, len(samples))
	for c := 0; c < 3; c++ {
		for i, p := range samples {
			channel[i] = hsvChannel(p, c)
		}
		mean, std := stat.PopMeanStdDev(channel, nil)
		if std < minScale {
			std = 1
		}
		s.Mean[c] = mean
		s.Scale[c] = std
	}
	return s
}

// Transform returns the standardized coordinates of samples.
func (s Scaler) Transform(samples []imageutil.HSV) [][3]float64 {
	points := make([][3]float64, len(samples))
	for i, p := range samples {
		for c := 0; c < 3; c++ {
			points[i][c] = (hsvChannel(p, c) - s.Mean[c]) / s.Scale[c]
		}
	}
	return points
}

func hsvChannel(p imageutil.HSV, c int) float64 {
	switch c {
	case 0:
		return float64(p.H)
	case 1:
		return float64(p.S)
	}
	return float64(p.V)
}
