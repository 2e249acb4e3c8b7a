// Package config reads settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	// Station is the NOAA station id. The default is Fort Myers, FL.
	Station string `default:"8725520"`
	// TZ is the time zone of the station.
	TZ string `envconfig:"TZ" default:"America/New_York"`

	TideWindow      time.Duration `split_words:"true" default:"24h"`
	WeatherLookback time.Duration `split_words:"true" default:"15m"`
	Interval        time.Duration `default:"15m"`

	NOAAURL    string `envconfig:"NOAA_URL" default:"https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"`
	TRMNLURL   string `envconfig:"TRMNL_URL" default:"https://usetrmnl.com/api/custom_plugins"`
	PluginUUID string `split_words:"true"`

	// DatabaseDSN enables the delivery ledger when set.
	DatabaseDSN string `envconfig:"DATABASE_DSN"`
}

// Load reads the config from the environment and checks it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Station == "" {
		return errors.New("STATION must be set")
	}
	if c.TideWindow <= 0 {
		return fmt.Errorf("TIDE_WINDOW must be positive, got %s", c.TideWindow)
	}
	if c.WeatherLookback <= 0 {
		return fmt.Errorf("WEATHER_LOOKBACK must be positive, got %s", c.WeatherLookback)
	}
	if c.Interval < time.Minute {
		return fmt.Errorf("INTERVAL must be at least a minute, got %s", c.Interval)
	}
	if !strings.HasPrefix(c.Prefix, "/") {
		return fmt.Errorf("PREFIX must start with /, got %q", c.Prefix)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the station's time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("bad TZ %q: %w", c.TZ, err)
	}
	return loc, nil
}

// Deliver is true when a plugin is configured to receive reports.
func (c *Config) Deliver() bool {
	return c.PluginUUID != ""
}
