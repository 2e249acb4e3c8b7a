package config

import (
	"os"
	"testing"
	"time"
)

var keys = []string{
	"PORT", "PREFIX", "STATION", "TZ", "TIDE_WINDOW", "WEATHER_LOOKBACK", "INTERVAL",
	"NOAA_URL", "TRMNL_URL", "PLUGIN_UUID", "DATABASE_DSN",
}

// clearEnv unsets every key the config reads, since envconfig treats a set but
// empty variable as a value.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		if old, ok := os.LookupEnv(key); ok {
			key := key
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Station != "8725520" {
		t.Errorf("got station %q", c.Station)
	}
	if c.TZ != "America/New_York" {
		t.Errorf("got TZ %q", c.TZ)
	}
	if c.TideWindow != 24*time.Hour || c.WeatherLookback != 15*time.Minute || c.Interval != 15*time.Minute {
		t.Errorf("got windows %s, %s, %s", c.TideWindow, c.WeatherLookback, c.Interval)
	}
	if c.Deliver() {
		t.Errorf("should not deliver without a plugin uuid")
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATION", "9447130")
	t.Setenv("TZ", "America/Los_Angeles")
	t.Setenv("TIDE_WINDOW", "36h")
	t.Setenv("PLUGIN_UUID", "abc-123")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Station != "9447130" || c.TideWindow != 36*time.Hour || c.PluginUUID != "abc-123" {
		t.Errorf("env was not applied: %+v", c)
	}
	loc, err := c.Location()
	if err != nil || loc.String() != "America/Los_Angeles" {
		t.Errorf("got location %v (%v)", loc, err)
	}
	if !c.Deliver() {
		t.Errorf("should deliver with a plugin uuid")
	}
}

func TestValidate(t *testing.T) {
	good := Config{
		Prefix:          "/",
		Station:         "8725520",
		TZ:              "America/New_York",
		TideWindow:      24 * time.Hour,
		WeatherLookback: 15 * time.Minute,
		Interval:        15 * time.Minute,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := map[string]func(c *Config){
		"no station":     func(c *Config) { c.Station = "" },
		"bad zone":       func(c *Config) { c.TZ = "Atlantis/Lost" },
		"empty window":   func(c *Config) { c.TideWindow = 0 },
		"empty lookback": func(c *Config) { c.WeatherLookback = -time.Minute },
		"fast interval":  func(c *Config) { c.Interval = time.Second },
		"bad prefix":     func(c *Config) { c.Prefix = "tides" },
	}
	for name, mutate := range table {
		t.Run(name, func(t *testing.T) {
			c := good
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}
