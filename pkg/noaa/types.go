package noaa

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// ErrInvalidValue is returned when NOAA sends a value that is not a number.
var ErrInvalidValue = errors.New("invalid value")

// Product is a kind of data served by NOAA.
type Product string

const (
	Predictions      Product = "predictions"
	AirTemperature   Product = "air_temperature"
	WaterTemperature Product = "water_temperature"
	AirPressure      Product = "air_pressure"
	Wind             Product = "wind"
)

// Prediction holds a single predicted water level.
type Prediction struct {
	// Local time of tide prediction
	Time Time `json:"t"`
	// Height in feet above MLLW
	Height Value `json:"v"`
}

// Observation is one measured sample of a product. Only wind sets the speed,
// direction and gust fields. A sensor that missed a reading leaves its fields
// blank.
type Observation struct {
	Time  Time     `json:"t"`
	Value Optional `json:"v"`

	Speed     Optional `json:"s"`
	Degrees   Optional `json:"d"`
	Direction string   `json:"dr"`
	Gust      Optional `json:"g"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Value)
var _ json.Unmarshaler = new(Optional)

// PredictionList is a time series of Prediction.
type PredictionList []Prediction

// Metadata describes the station that produced a set of observations.
type Metadata struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
}

// Coordinates parses the station's position.
func (m Metadata) Coordinates() (lat, long float64, err error) {
	lat, err = strconv.ParseFloat(m.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("station %s latitude %q: %w", m.ID, m.Lat, err)
	}
	long, err = strconv.ParseFloat(m.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("station %s longitude %q: %w", m.ID, m.Lon, err)
	}
	return lat, long, nil
}

// Result is the data type returned by NOAA for a query. Predictions are
// returned on their own; observations come with metadata.
type Result struct {
	Metadata    Metadata       `json:"metadata"`
	Predictions PredictionList `json:"predictions"`
	Data        []Observation  `json:"data"`
	Error       *APIError      `json:"error"`
}

// APIError is the error NOAA reports in place of data, for example when a
// station does not measure a product.
type APIError struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("noaa: %s", e.Message)
}

// Query is used to query data at a station in a given time window; see
// Client.GetPredictions and Client.GetObservations.
type Query struct {
	Station  string
	Product  Product
	Start    time.Time
	Duration time.Duration
}

// End is the last instant covered by the query.
func (q *Query) End() time.Time {
	return q.Start.Add(q.Duration)
}

// Time is a station local wall clock time. It is decoded as UTC and then moved
// into the client's Location without changing the clock reading.
type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(predTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("time %q not in fmt %q: %w", s, predTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

// in reads the wall clock of t as a time in loc.
func (t Time) in(loc *time.Location) Time {
	if loc == nil {
		return t
	}
	u := time.Time(t)
	return Time(time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), loc))
}

// T casts away the NOAA type.
func (t Time) T() time.Time {
	return time.Time(t)
}

// Value is a number that NOAA encodes as a string.
type Value float64

func (v *Value) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("%w: %s not string: %v", ErrInvalidValue, buf, err)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q not a float", ErrInvalidValue, s)
	}
	*v = Value(parsed)
	return nil
}

// Optional is a Value that NOAA may send as "" or null. Valid is false when it
// did.
type Optional struct {
	Value Value
	Valid bool
}

// Known is an Optional holding v.
func Known(v float64) Optional {
	return Optional{Value: Value(v), Valid: true}
}

func (o *Optional) UnmarshalJSON(buf []byte) error {
	var s *string
	if err := json.Unmarshal(buf, &s); err == nil && (s == nil || strings.TrimSpace(*s) == "") {
		*o = Optional{}
		return nil
	}
	if err := o.Value.UnmarshalJSON(buf); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Float is the value, or zero when it is missing.
func (o Optional) Float() float64 {
	return float64(o.Value)
}

func (p Prediction) String() string {
	return fmt.Sprintf("{t: %s, v: %f}",
		time.Time(p.Time).Format(time.RFC822),
		p.Height)
}
