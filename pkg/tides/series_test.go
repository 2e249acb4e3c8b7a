package tides

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNextTides(t *testing.T) {
	s := NewSeries(station)
	if err := s.Read(samplesOf(5.0, 6.0, 5.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]Phase{Flood, High, Ebb}, phasesOf(s.Samples())); diff != "" {
		t.Errorf("wrong phases (-want,+got):\n%s", diff)
	}

	high, ok := s.NextHighTide()
	if !ok {
		t.Fatalf("no high tide found")
	}
	if high.Height != 6.0 || !high.Time.Equal(s.Samples()[1].Time) {
		t.Errorf("got high tide %s, wanted the second sample", high)
	}

	if low, ok := s.NextLowTide(); ok {
		t.Errorf("got low tide %s, wanted none", low)
	}
}

func TestNextTidesFirstWins(t *testing.T) {
	s := NewSeries(station)
	// Two highs (indexes 1 and 5) and two lows (indexes 3 and 7).
	if err := s.Read(samplesOf(1, 5, 3, 0, 2, 6, 4, 1, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples := s.Samples()

	high, ok := s.NextHighTide()
	if !ok || !high.Time.Equal(samples[1].Time) {
		t.Errorf("got high tide %s (ok=%t), wanted %s", high, ok, samples[1])
	}
	low, ok := s.NextLowTide()
	if !ok || !low.Time.Equal(samples[3].Time) {
		t.Errorf("got low tide %s (ok=%t), wanted %s", low, ok, samples[3])
	}

	// No sample with the same phase comes before the one returned.
	for i := 0; i < 3; i++ {
		if samples[i].Phase == Low {
			t.Errorf("sample %d is an earlier low tide", i)
		}
	}
	if samples[0].Phase == High {
		t.Errorf("sample 0 is an earlier high tide")
	}
}

func TestNextTidesMatchSecondPass(t *testing.T) {
	heights := []float64{3, 2, 2, 1, 1.5, 4, 4, 3, 2, 2.5, 5, 1}
	s := NewSeries(station)
	if err := s.Read(samplesOf(heights...)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstOf := func(p Phase) (Sample, bool) {
		for _, sample := range s.Samples() {
			if sample.Phase == p {
				return sample, true
			}
		}
		return Sample{}, false
	}

	wantLow, wantLowOK := firstOf(Low)
	gotLow, gotLowOK := s.NextLowTide()
	if wantLowOK != gotLowOK || !wantLow.Time.Equal(gotLow.Time) {
		t.Errorf("next low %s (%t) differs from first low %s (%t)", gotLow, gotLowOK, wantLow, wantLowOK)
	}

	wantHigh, wantHighOK := firstOf(High)
	gotHigh, gotHighOK := s.NextHighTide()
	if wantHighOK != gotHighOK || !wantHigh.Time.Equal(gotHigh.Time) {
		t.Errorf("next high %s (%t) differs from first high %s (%t)", gotHigh, gotHighOK, wantHigh, wantHighOK)
	}
}

func TestReclassifyIdempotent(t *testing.T) {
	s := NewSeries(station)
	if err := s.Read(samplesOf(2, 3, 3, 1, 0, 0, 2, 4, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := s.Samples()
	firstHigh, _ := s.NextHighTide()
	firstLow, _ := s.NextLowTide()

	s.Reclassify()
	s.Reclassify()

	if diff := cmp.Diff(first, s.Samples()); diff != "" {
		t.Errorf("reclassifying changed the series (-first,+again):\n%s", diff)
	}
	high, _ := s.NextHighTide()
	low, _ := s.NextLowTide()
	if !high.Time.Equal(firstHigh.Time) || !low.Time.Equal(firstLow.Time) {
		t.Errorf("next tides moved: high %s -> %s, low %s -> %s", firstHigh, high, firstLow, low)
	}
}

func TestReadResets(t *testing.T) {
	s := NewSeries(station)
	if err := s.Read(samplesOf(1, 3, 1, 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.NextHighTide(); !ok {
		t.Fatalf("expected a high tide in the first read")
	}

	if err := s.Read(samplesOf(4, 3, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("got %d samples after second read, wanted 3", s.Len())
	}
	if high, ok := s.NextHighTide(); ok {
		t.Errorf("stale high tide %s survived a new read", high)
	}
	if low, ok := s.NextLowTide(); ok {
		t.Errorf("stale low tide %s survived a new read", low)
	}
}

func TestReadOwnsSamples(t *testing.T) {
	in := samplesOf(1, 2, 1)
	s := NewSeries(station)
	if err := s.Read(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[1].Phase != Unknown {
		t.Errorf("caller's sample was modified to %s", in[1].Phase)
	}
	out := s.Samples()
	out[1].Phase = Low
	if high, _ := s.NextHighTide(); high.Phase != High {
		t.Errorf("series changed through a returned slice: %s", high)
	}
}

func TestReadInvalidHeight(t *testing.T) {
	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := NewSeries(station)
		err := s.Read(samplesOf(1, h, 2))
		if !errors.Is(err, ErrInvalidSample) {
			t.Errorf("height %v: got error %v, wanted %v", h, err, ErrInvalidSample)
		}
		if s.Len() != 0 {
			t.Errorf("height %v: series kept %d samples after an error", h, s.Len())
		}
	}
}

func TestPhaseStrings(t *testing.T) {
	want := map[Phase]string{
		Unknown: "Unknown",
		High:    "High Tide",
		Flood:   "Flood Tide",
		Low:     "Low Tide",
		Ebb:     "Ebb Tide",
		Spring:  "Spring Tide",
		Neap:    "Neap Tide",
	}
	for p, name := range want {
		if p.String() != name {
			t.Errorf("got %q, wanted %q", p.String(), name)
		}

		blob, err := json.Marshal(p)
		if err != nil {
			t.Errorf("unexpected: %v", err)
			continue
		}
		var got Phase
		if err := json.Unmarshal(blob, &got); err != nil {
			t.Errorf("unexpected: %v", err)
		}
		if got != p {
			t.Errorf("%s decoded as %s", blob, got)
		}
	}

	if Phase(42).Valid() {
		t.Errorf("phase 42 should not be valid")
	}
	var p Phase
	if err := json.Unmarshal([]byte(`"Slack Tide"`), &p); err == nil {
		t.Errorf("decoded an unknown phase name")
	}
}

func TestSampleJSON(t *testing.T) {
	s := NewSeries(station)
	if err := s.Read(samplesOf(5.0, 6.0, 5.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, _ := s.NextHighTide()

	blob, err := json.Marshal(high)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	want := `{"tide_date":"2023-10-01","tide_time":"12:06:00","height":6,"location_id":"9447130","tide_phase":"High Tide"}`
	if diff := cmp.Diff(want, string(blob)); diff != "" {
		t.Errorf("wrong encoding (-want,+got):\n%s", diff)
	}
}
