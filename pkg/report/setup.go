package report

import (
	"github.com/spencer-p/trmnltides/pkg/config"
	"github.com/spencer-p/trmnltides/pkg/data"
	"github.com/spencer-p/trmnltides/pkg/noaa"
	"github.com/spencer-p/trmnltides/pkg/trmnl"
)

// New wires a Runner from c. The webhook is only used when c has a plugin
// configured, and ledger may be nil.
func New(c *config.Config, ledger *data.Ledger) (*Runner, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	src := noaa.NewClient(loc)
	if c.NOAAURL != "" {
		src.BaseURL = c.NOAAURL
	}

	r := &Runner{
		Station:         c.Station,
		Location:        loc,
		TideWindow:      c.TideWindow,
		WeatherLookback: c.WeatherLookback,
		Source:          src,
	}
	if c.Deliver() {
		r.Sink = trmnl.NewClient(c.TRMNLURL, c.PluginUUID)
	}
	if ledger != nil {
		r.Recorder = ledger
	}
	return r, nil
}
