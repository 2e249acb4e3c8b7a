package tides

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	dateFmt  = "2006-01-02"
	clockFmt = "15:04:05"
)

// ErrInvalidSample is returned when a sample cannot be classified.
var ErrInvalidSample = errors.New("invalid tide sample")

// Phase is the state of the tide at a sample.
type Phase uint8

const (
	Unknown Phase = iota
	High
	Flood
	Low
	Ebb

	// Spring and Neap are never assigned by Classify.
	Spring
	Neap
)

var phaseNames = [...]string{
	Unknown: "Unknown",
	High:    "High Tide",
	Flood:   "Flood Tide",
	Low:     "Low Tide",
	Ebb:     "Ebb Tide",
	Spring:  "Spring Tide",
	Neap:    "Neap Tide",
}

// Verify the phase can be round tripped
var _ json.Marshaler = Unknown
var _ json.Unmarshaler = new(Phase)

func (p Phase) Valid() bool {
	return int(p) < len(phaseNames)
}

func (p Phase) String() string {
	if !p.Valid() {
		return "invalid"
	}
	return phaseNames[p]
}

func (p Phase) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid tide phase %d", p)
	}
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide phase %q not a string: %w", buf, err)
	}
	for i, name := range phaseNames {
		if name == s {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("invalid tide phase %q", s)
}

// Sample is one predicted tide height at an instant.
type Sample struct {
	Time    time.Time
	Height  float64 // feet or meters, depending on the source
	Station string

	// Phase is provisional until the next sample has been classified.
	Phase Phase
}

// NewSample creates a sample with an Unknown phase.
func NewSample(t time.Time, height float64, station string) Sample {
	return Sample{
		Time:    t,
		Height:  height,
		Station: station,
	}
}

// Date is the calendar date of the sample in its own time zone.
func (s Sample) Date() string {
	return s.Time.Format(dateFmt)
}

// Clock is the time of day of the sample.
func (s Sample) Clock() string {
	return s.Time.Format(clockFmt)
}

func (s Sample) String() string {
	return fmt.Sprintf("%s %s %.3f %s", s.Date(), s.Clock(), s.Height, s.Phase)
}

// sampleJSON is the wire form of a Sample.
type sampleJSON struct {
	Date     string  `json:"tide_date"`
	Time     string  `json:"tide_time"`
	Height   float64 `json:"height"`
	Location string  `json:"location_id"`
	Phase    Phase   `json:"tide_phase"`
}

func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleJSON{
		Date:     s.Date(),
		Time:     s.Clock(),
		Height:   s.Height,
		Location: s.Station,
		Phase:    s.Phase,
	})
}
