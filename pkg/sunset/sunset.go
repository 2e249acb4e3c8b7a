// Package sunset computes sunrise and sunset for a place.
package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/trmnltides/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns a list of ordered sun events from the starting day to
// the end time in the given place. The first result will always be a sunrise
// on the calendar day of start.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	if place.Location != nil {
		start = start.In(place.Location)
	}

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, timetricks.TrimClock(start).Add(12*time.Hour))

	// The sunrise package may settle on a neighboring day. Walk it back onto
	// the day we asked for.
	for i := 0; i < 3 && !timetricks.SameDay(start, s.Sunrise()); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Today returns the sunrise and sunset on the calendar day of now.
func Today(now time.Time, place Place) Day {
	events := GetSunEvents(now, 24*time.Hour, place)
	return Day{
		Sunrise: events[0].Time,
		Sunset:  events[1].Time,
	}
}
