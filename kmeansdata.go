package flowerhue

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel strings of the legacy KMeansData column. The misspelling of
// the error sentinel is kept so existing spreadsheets still parse.
const (
	NoFlowersText  = "no flowers"
	ErrorText      = "An error occured"
	dataSeparator  = ", "
	dataOpenBrace  = "["
	dataCloseBrace = "]"
)

// ErrMalformedData is returned when a KMeansData value is neither a
// sentinel nor a bracketed list of numbers.
var ErrMalformedData = errors.New("malformed KMeansData")

// FormatKMeansData renders a summary in the legacy KMeansData format:
// "[h, s, v]" for a successful summary, or one of the two sentinel
// strings.
func FormatKMeansData(s Summary) string {
	switch s.Status {
	case StatusNoFlowers:
		return NoFlowersText
	case StatusFailed:
		return ErrorText
	}
	return dataOpenBrace + strings.Join([]string{
		formatFloat(s.Hue),
		formatFloat(s.Saturation),
		formatFloat(s.Value),
	}, dataSeparator) + dataCloseBrace
}

// formatFloat mirrors Python's float repr: integral values keep a
// trailing ".0" and very small or large magnitudes use exponent form.
func formatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eEIN") {
		out += ".0"
	}
	return out
}

// ParseChannel recovers channel i from a KMeansData value. "no flowers"
// yields 0, the error sentinel yields ErrFailedSummary, and any other
// value must be a bracketed ", "-separated list whose i-th element is a
// float.
func ParseChannel(data string, i int) (float64, error) {
	switch data {
	case NoFlowersText:
		return 0, nil
	case ErrorText:
		return 0, ErrFailedSummary
	}
	parts, err := splitData(data)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(parts) {
		return 0, fmt.Errorf("%w: index %d out of range for %q", ErrMalformedData, i, data)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedData, data, err)
	}
	return v, nil
}

// ParseKMeansData decodes a whole KMeansData value into a Summary.
// Pixel counts and coverage are not part of the legacy format and are
// left zero.
func ParseKMeansData(data string) (Summary, error) {
	switch data {
	case NoFlowersText:
		return NoFlowers(), nil
	case ErrorText:
		return Summary{Status: StatusFailed, Reason: ErrorText}, nil
	}
	parts, err := splitData(data)
	if err != nil {
		return Summary{}, err
	}
	if len(parts) != 3 {
		return Summary{}, fmt.Errorf("%w: expected 3 values in %q", ErrMalformedData, data)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Summary{}, fmt.Errorf("%w: %q: %v", ErrMalformedData, data, err)
		}
		vals[i] = v
	}
	return Summary{
		Status:     StatusOK,
		Hue:        vals[0],
		Saturation: vals[1],
		Value:      vals[2],
	}, nil
}

func splitData(data string) ([]string, error) {
	if len(data) < 2 ||
		!strings.HasPrefix(data, dataOpenBrace) ||
		!strings.HasSuffix(data, dataCloseBrace) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedData, data)
	}
	return strings.Split(data[1:len(data)-1], dataSeparator), nil
}
