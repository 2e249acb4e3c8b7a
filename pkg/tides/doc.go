// Package tides labels a time series of tide heights with tide phases. Samples
// are classified in one forward pass that only ever looks one sample back; a
// sample becomes a high or low tide once its successor shows the water turning.
// The first confirmed low and high tide of the series are kept as the next low
// and high tide.
package tides
