package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	TIME_FMT = "20060102 15:04"

	application = "trmnltides"
)

// Client fetches data from NOAA.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Location is the time zone of the stations being queried.
	Location *time.Location
}

// NewClient creates a client for stations in loc.
func NewClient(loc *time.Location) *Client {
	return &Client{
		BaseURL:  NOAA_URL,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Location: loc,
	}
}

// GetPredictions fetches tide predictions in the window of q.
func (c *Client) GetPredictions(ctx context.Context, q *Query) (PredictionList, error) {
	result, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range result.Predictions {
		result.Predictions[i].Time = result.Predictions[i].Time.in(c.Location)
	}
	return result.Predictions, nil
}

// GetObservations fetches measured data in the window of q along with the
// station's metadata.
func (c *Client) GetObservations(ctx context.Context, q *Query) (*Result, error) {
	result, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range result.Data {
		result.Data[i].Time = result.Data[i].Time.in(c.Location)
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, q *Query) (*Result, error) {
	addr, err := c.url(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}

	// Make the request to NOAA
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s for station %s: %w", q.Product, q.Station, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%s for station %s: %w", q.Product, q.Station, result.Error)
	}
	return &result, nil
}

func (c *Client) url(q *Query) (*url.URL, error) {
	addr, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = q.build(c.Location).Encode()
	return addr, nil
}

// build encodes q with its window written as wall clock times in loc, which
// NOAA reads as station local time.
func (q *Query) build(loc *time.Location) url.Values {
	start, end := q.Start, q.End()
	if loc != nil {
		start, end = start.In(loc), end.In(loc)
	}

	vals := make(url.Values)
	vals.Add("begin_date", start.Format(TIME_FMT))
	vals.Add("end_date", end.Format(TIME_FMT))
	vals.Add("station", q.Station)
	vals.Add("product", string(q.Product))
	if q.Product == Predictions {
		vals.Add("datum", "MLLW")
	}
	vals.Add("time_zone", "lst_ldt")
	vals.Add("units", "english")
	vals.Add("format", "json")
	vals.Add("application", application)
	return vals
}
