// Package weather reads the latest conditions measured at a tide station.
package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spencer-p/trmnltides/pkg/noaa"
)

var errNoData = errors.New("no observations in window")

// Source is where observations come from, usually a *noaa.Client.
type Source interface {
	GetObservations(ctx context.Context, q *noaa.Query) (*noaa.Result, error)
}

var _ Source = (*noaa.Client)(nil)

// Reading is the most recent weather at a station as of Time.
type Reading struct {
	Time               time.Time `json:"weather_time"`
	AirTemperature     float64   `json:"air_temperature"`     // °F
	WaterTemperature   float64   `json:"water_temperature"`   // °F
	BarometricPressure float64   `json:"barometric_pressure"` // mbar
	WindSpeed          float64   `json:"wind_speed_knots"`
	WindDirection      string    `json:"wind_direction"`
	WindGust           float64   `json:"wind_speed_gust_knots"`
}

func (r *Reading) String() string {
	return fmt.Sprintf("%s: air %.1f°F, water %.1f°F, %.1f mbar, wind %.1f knots from the %s gusting to %.1f",
		r.Time.Format(time.RFC822),
		r.AirTemperature,
		r.WaterTemperature,
		r.BarometricPressure,
		r.WindSpeed,
		r.WindDirection,
		r.WindGust)
}

// Fetch looks up each product at station over the lookback window ending at
// now and keeps the newest observation of each that has a reading. The
// metadata of the station is returned alongside.
func Fetch(ctx context.Context, src Source, station string, now time.Time, lookback time.Duration) (Reading, noaa.Metadata, error) {
	var meta noaa.Metadata
	reading := Reading{Time: now}

	latest := func(product noaa.Product, field func(noaa.Observation) noaa.Optional) (noaa.Observation, error) {
		result, err := src.GetObservations(ctx, &noaa.Query{
			Station:  station,
			Product:  product,
			Start:    now.Add(-lookback),
			Duration: lookback,
		})
		if err != nil {
			return noaa.Observation{}, err
		}
		if meta.ID == "" {
			meta = result.Metadata
		}
		// Sensors skip readings now and then, so walk back to the newest one.
		for i := len(result.Data) - 1; i >= 0; i-- {
			if field(result.Data[i]).Valid {
				return result.Data[i], nil
			}
		}
		return noaa.Observation{}, fmt.Errorf("%s at station %s: %w", product, station, errNoData)
	}
	value := func(o noaa.Observation) noaa.Optional { return o.Value }
	speed := func(o noaa.Observation) noaa.Optional { return o.Speed }

	obs, err := latest(noaa.AirTemperature, value)
	if err != nil {
		return Reading{}, meta, err
	}
	reading.AirTemperature = obs.Value.Float()

	obs, err = latest(noaa.WaterTemperature, value)
	if err != nil {
		return Reading{}, meta, err
	}
	reading.WaterTemperature = obs.Value.Float()

	obs, err = latest(noaa.AirPressure, value)
	if err != nil {
		return Reading{}, meta, err
	}
	reading.BarometricPressure = obs.Value.Float()

	// A calm row may have no gust; it reads as zero.
	obs, err = latest(noaa.Wind, speed)
	if err != nil {
		return Reading{}, meta, err
	}
	reading.WindSpeed = obs.Speed.Float()
	reading.WindDirection = obs.Direction
	reading.WindGust = obs.Gust.Float()

	return reading, meta, nil
}
