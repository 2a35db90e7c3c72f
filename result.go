package flowerhue

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status describes which of the three possible outcomes a per-image
// summary represents.
type Status int

const (
	// StatusOK means at least one cluster qualified and the pooled mean is set.
	StatusOK Status = iota
	// StatusNoFlowers means no cluster mean fell within the HSV bounds.
	StatusNoFlowers
	// StatusFailed means the image could not be loaded or clustered.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusOK:        "ok",
	StatusNoFlowers: "no_flowers",
	StatusFailed:    "failed",
}

// String returns the JSON name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// ErrFailedSummary is returned when a channel is requested from a summary
// whose image could not be processed.
var ErrFailedSummary = errors.New("summary records a processing failure")

// Summary is the typed outcome of summarizing one image. Hue, Saturation
// and Value are only meaningful when Status is StatusOK; Reason is only
// set when Status is StatusFailed.
type Summary struct {
	Status     Status  `json:"status"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
	Pixels     int     `json:"pixels"`
	Coverage   float64 `json:"coverage"`
	Reason     string  `json:"reason,omitempty"`
}

// NoFlowers returns the summary for an image with no qualifying cluster.
func NoFlowers() Summary {
	return Summary{Status: StatusNoFlowers}
}

// Failed returns the summary for an image that could not be processed.
func Failed(err error) Summary {
	return Summary{Status: StatusFailed, Reason: err.Error()}
}

// Channel returns channel i (0 hue, 1 saturation, 2 value) of the
// summary. A no-flowers summary yields 0 for every channel, matching the
// legacy parser.
func (s Summary) Channel(i int) (float64, error) {
	switch s.Status {
	case StatusNoFlowers:
		return 0, nil
	case StatusFailed:
		return 0, fmt.Errorf("%w: %s", ErrFailedSummary, s.Reason)
	}
	switch i {
	case 0:
		return s.Hue, nil
	case 1:
		return s.Saturation, nil
	case 2:
		return s.Value, nil
	}
	return 0, fmt.Errorf("channel index %d out of range", i)
}

// MarshalRecord encodes the summary as the JSON stored in the
// KMeansRecord column.
func (s Summary) MarshalRecord() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseRecord decodes a KMeansRecord column value.
func ParseRecord(record string) (Summary, error) {
	var s Summary
	if err := json.Unmarshal([]byte(record), &s); err != nil {
		return Summary{}, fmt.Errorf("invalid summary record: %w", err)
	}
	return s, nil
}
