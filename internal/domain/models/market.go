package models

import "time"

// Observation is one daily bar of a market series.
type Observation struct {
	Date   time.Time
	Close  float64
	Volume float64
}

// MarketSeries is a time-ordered (ascending) list of daily observations for
// one symbol. An empty series means the provider had no data for the window.
type MarketSeries struct {
	Symbol       string
	Observations []Observation
}

// IsEmpty reports whether the series has no observations.
func (s MarketSeries) IsEmpty() bool { return len(s.Observations) == 0 }

// Len returns the number of observations.
func (s MarketSeries) Len() int { return len(s.Observations) }

// Latest returns the most recent observation.
func (s MarketSeries) Latest() (Observation, bool) {
	if s.IsEmpty() {
		return Observation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}

// Closes returns the closing prices in series order.
func (s MarketSeries) Closes() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Close
	}
	return out
}

// Volumes returns the traded volumes in series order.
func (s MarketSeries) Volumes() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Volume
	}
	return out
}
