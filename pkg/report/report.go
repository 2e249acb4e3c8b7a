// Package report runs report cycles: fetch the tide window and the latest
// weather for a station, classify the tides, and hand the summary to the
// webhook.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/spencer-p/trmnltides/pkg/data"
	"github.com/spencer-p/trmnltides/pkg/metrics"
	"github.com/spencer-p/trmnltides/pkg/noaa"
	"github.com/spencer-p/trmnltides/pkg/sunset"
	"github.com/spencer-p/trmnltides/pkg/tides"
	"github.com/spencer-p/trmnltides/pkg/timetricks"
	"github.com/spencer-p/trmnltides/pkg/trmnl"
	"github.com/spencer-p/trmnltides/pkg/weather"
)

var (
	ErrFetch    = errors.New("fetch failed")
	ErrDelivery = errors.New("delivery failed")
)

// Result labels for metrics and the ledger.
const (
	Delivered      = "delivered"
	Skipped        = "skipped"
	FetchError     = "fetch_error"
	InvalidSample  = "invalid_sample"
	DeliveryError  = "delivery_error"
	UnknownFailure = "error"
)

// Source is where tide and weather data come from, usually a *noaa.Client.
type Source interface {
	GetPredictions(ctx context.Context, q *noaa.Query) (noaa.PredictionList, error)
	weather.Source
}

// Sink delivers a payload, usually a *trmnl.Client.
type Sink interface {
	Send(ctx context.Context, v interface{}) error
}

// Recorder keeps the outcome of each cycle, usually a *data.Ledger.
type Recorder interface {
	Record(ctx context.Context, d *data.Delivery) error
}

var (
	_ Source   = (*noaa.Client)(nil)
	_ Sink     = (*trmnl.Client)(nil)
	_ Recorder = (*data.Ledger)(nil)
)

// Payload is the summary sent to the webhook. A tide field is nil when no
// turning point of that kind falls inside the tide window. Plugin templates
// should look fields up by name; keys such as sun are added over time.
type Payload struct {
	NextHighTide *tides.Sample   `json:"next_high_tide,omitempty"`
	NextLowTide  *tides.Sample   `json:"next_low_tide,omitempty"`
	Weather      weather.Reading `json:"weather"`
	Sun          *sunset.Day     `json:"sun,omitempty"`
}

// Report is the product of one cycle.
type Report struct {
	ID      string
	Station noaa.Metadata
	Series  *tides.Series
	Payload Payload
}

// Runner runs report cycles for one station. Sink and Recorder may be nil, in
// which case delivery or recording is skipped.
type Runner struct {
	Station         string
	Location        *time.Location
	TideWindow      time.Duration
	WeatherLookback time.Duration

	Source   Source
	Sink     Sink
	Recorder Recorder

	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return timetricks.LocalMinute(now(), r.Location)
}

// Build fetches and classifies everything for a report without delivering it.
func (r *Runner) Build(ctx context.Context) (*Report, error) {
	now := r.now()
	rep := &Report{
		ID:     uuid.NewString(),
		Series: tides.NewSeries(r.Station),
	}

	preds, err := r.Source.GetPredictions(ctx, &noaa.Query{
		Station:  r.Station,
		Product:  noaa.Predictions,
		Start:    now,
		Duration: r.TideWindow,
	})
	if err != nil {
		return rep, classifyFetch(err)
	}

	samples := make([]tides.Sample, len(preds))
	for i, p := range preds {
		samples[i] = tides.NewSample(p.Time.T(), float64(p.Height), r.Station)
	}
	if err := rep.Series.Read(samples); err != nil {
		return rep, err
	}
	if high, ok := rep.Series.NextHighTide(); ok {
		rep.Payload.NextHighTide = &high
	}
	if low, ok := rep.Series.NextLowTide(); ok {
		rep.Payload.NextLowTide = &low
	}

	reading, meta, err := weather.Fetch(ctx, r.Source, r.Station, now, r.WeatherLookback)
	if err != nil {
		// Only tide heights make a sample invalid; bad weather is a failed fetch.
		return rep, fmt.Errorf("%w: weather: %v", ErrFetch, err)
	}
	rep.Payload.Weather = reading
	rep.Station = meta

	if lat, long, err := meta.Coordinates(); err != nil {
		log.Printf("cycle %s: no sun times: %v", rep.ID, err)
	} else {
		day := sunset.Today(now, sunset.Place{Lat: lat, Long: long, Location: r.Location})
		rep.Payload.Sun = &day
	}

	return rep, nil
}

// classifyFetch sorts a predictions error into a bad sample or a failed fetch.
func classifyFetch(err error) error {
	if errors.Is(err, noaa.ErrInvalidValue) {
		return fmt.Errorf("%w: tide predictions: %v", tides.ErrInvalidSample, err)
	}
	return fmt.Errorf("%w: tide predictions: %v", ErrFetch, err)
}

// Run performs one full cycle: build, deliver, record.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	rep, err := r.Build(ctx)
	if err == nil {
		err = r.deliver(ctx, rep)
	}

	result := resultOf(err)
	if err == nil && r.Sink == nil {
		result = Skipped
	}
	metrics.ObserveCycle(result, time.Since(start))
	if rep != nil {
		metrics.SetTideSamples(rep.Series.Len())
	}
	if result == Delivered {
		metrics.MarkDelivered(time.Now())
	}
	r.record(ctx, rep, result, err)

	if err != nil {
		log.Printf("cycle %s: %s: %v", rep.ID, result, err)
		return rep, err
	}
	log.Printf("cycle %s: %s %d samples for station %s", rep.ID, result, rep.Series.Len(), r.Station)
	return rep, nil
}

func (r *Runner) deliver(ctx context.Context, rep *Report) error {
	if rep.Payload.NextHighTide == nil {
		log.Printf("cycle %s: no high tide within %s, sending without it", rep.ID, r.TideWindow)
	}
	if rep.Payload.NextLowTide == nil {
		log.Printf("cycle %s: no low tide within %s, sending without it", rep.ID, r.TideWindow)
	}

	if r.Sink == nil {
		log.Printf("cycle %s: no webhook configured, not delivering", rep.ID)
		return nil
	}
	if err := r.Sink.Send(ctx, rep.Payload); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, rep *Report, result string, cycleErr error) {
	if r.Recorder == nil {
		return
	}
	d := &data.Delivery{
		CycleID: rep.ID,
		Station: r.Station,
		Result:  result,
		Samples: rep.Series.Len(),
	}
	if cycleErr != nil {
		d.Error = cycleErr.Error()
	}
	if err := r.Recorder.Record(ctx, d); err != nil {
		log.Printf("cycle %s: %v", rep.ID, err)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return Delivered
	case errors.Is(err, tides.ErrInvalidSample):
		return InvalidSample
	case errors.Is(err, ErrFetch):
		return FetchError
	case errors.Is(err, ErrDelivery):
		return DeliveryError
	default:
		return UnknownFailure
	}
}

// Poll runs a cycle now and then every interval until ctx is done. Failed
// cycles are logged and polling carries on.
func (r *Runner) Poll(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		r.Run(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
