package models

// SignalValues holds the momentum inputs derived from a MarketSeries.
// Observations is the sample size the values were computed from; zero means
// no data was available and every other field is zero as well.
type SignalValues struct {
	LatestPrice   float64
	MovingAverage float64
	VolumeRatio   float64
	Observations  int
}

// HasData reports whether the values were computed from at least one observation.
func (v SignalValues) HasData() bool { return v.Observations > 0 }
