package tides

import (
	"fmt"
	"math"
	"strings"
)

const none = -1

// Series is a time ordered list of samples for one station. It is not safe for
// concurrent use.
type Series struct {
	Station string

	samples []Sample

	// indexes of the first confirmed low and high tide, or none
	nextLow, nextHigh int
}

// NewSeries creates an empty series for a station.
func NewSeries(station string) *Series {
	return &Series{
		Station:  station,
		nextLow:  none,
		nextHigh: none,
	}
}

// Read replaces the contents of the series with samples, which must already be
// in time order, and classifies them. If any sample is invalid the series is
// left empty.
func (s *Series) Read(samples []Sample) error {
	s.samples = nil
	s.nextLow, s.nextHigh = none, none

	for i, sample := range samples {
		if math.IsNaN(sample.Height) || math.IsInf(sample.Height, 0) {
			return fmt.Errorf("%w: sample %d at %s has height %v",
				ErrInvalidSample, i, sample.Time, sample.Height)
		}
	}

	s.samples = make([]Sample, len(samples))
	copy(s.samples, samples)
	s.Reclassify()
	return nil
}

// Reclassify discards every phase in the series and classifies it again from
// the first sample.
func (s *Series) Reclassify() {
	s.nextLow, s.nextHigh = none, none
	for i := range s.samples {
		s.samples[i].Phase = Unknown
	}

	for i := range s.samples {
		if i == 0 {
			Classify(nil, &s.samples[i])
			continue
		}
		if Classify(&s.samples[i-1], &s.samples[i]) {
			s.confirm(i - 1)
		}
	}
}

// confirm records the sample at i as the next tide of its phase unless an
// earlier one has already been seen.
func (s *Series) confirm(i int) {
	switch s.samples[i].Phase {
	case Low:
		if s.nextLow == none {
			s.nextLow = i
		}
	case High:
		if s.nextHigh == none {
			s.nextHigh = i
		}
	}
}

// Len is the number of samples in the series.
func (s *Series) Len() int {
	return len(s.samples)
}

// Samples returns a copy of the classified samples.
func (s *Series) Samples() []Sample {
	result := make([]Sample, len(s.samples))
	copy(result, s.samples)
	return result
}

// NextLowTide returns the first low tide confirmed in the series. ok is false
// when the water never turned from falling to rising.
func (s *Series) NextLowTide() (sample Sample, ok bool) {
	return s.at(s.nextLow)
}

// NextHighTide is like NextLowTide for high tides.
func (s *Series) NextHighTide() (sample Sample, ok bool) {
	return s.at(s.nextHigh)
}

func (s *Series) at(i int) (Sample, bool) {
	if i == none {
		return Sample{}, false
	}
	return s.samples[i], true
}

func (s *Series) String() string {
	lines := make([]string, len(s.samples))
	for i, sample := range s.samples {
		lines[i] = sample.String()
	}
	return strings.Join(lines, "\n")
}
