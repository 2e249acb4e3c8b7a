// Package noaa implements queries to the NOAA CO-OPS data API. Data is
// requested as a time series per station and product (see Query). Tide
// predictions come back as a list of timed heights; observations such as
// temperature or wind come back with the station's metadata. All times are
// station local and interpreted in the client's Location.
package noaa
