package signal

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "StockAlert/internal/domain/models"
)

func series(closes, volumes []float64) models.MarketSeries {
    day := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
    s := models.MarketSeries{Symbol: "TEST"}
    for i := range closes {
        s.Observations = append(s.Observations, models.Observation{
            Date:   day.AddDate(0, 0, i),
            Close:  closes[i],
            Volume: volumes[i],
        })
    }
    return s
}

func TestEvaluateEmptySeries(t *testing.T) {
    e := NewEvaluator(DefaultRule())
    v := e.Evaluate(models.MarketSeries{Symbol: "AAPL"})

    assert.Equal(t, models.SignalValues{}, v)
    assert.False(t, v.HasData())
    assert.False(t, e.ShouldNotify(v))
}

func TestEvaluateComputesValues(t *testing.T) {
    e := NewEvaluator(DefaultRule())
    v := e.Evaluate(series(
        []float64{10, 20, 30, 40},
        []float64{100, 100, 100, 300},
    ))

    assert.Equal(t, 40.0, v.LatestPrice)
    assert.Equal(t, 25.0, v.MovingAverage)
    assert.Equal(t, 2.0, v.VolumeRatio)
    assert.Equal(t, 4, v.Observations)
    assert.True(t, e.ShouldNotify(v))
}

func TestEvaluateZeroMeanVolume(t *testing.T) {
    e := NewEvaluator(DefaultRule())
    v := e.Evaluate(series([]float64{10, 12}, []float64{0, 0}))

    assert.Equal(t, 0.0, v.VolumeRatio)
    assert.Equal(t, 12.0, v.LatestPrice)
    assert.True(t, v.HasData())
    assert.False(t, e.ShouldNotify(v))
}

func TestEvaluateSingleObservation(t *testing.T) {
    e := NewEvaluator(DefaultRule())
    v := e.Evaluate(series([]float64{50}, []float64{1000}))

    assert.Equal(t, 50.0, v.LatestPrice)
    assert.Equal(t, 50.0, v.MovingAverage)
    assert.Equal(t, 1.0, v.VolumeRatio)
    assert.False(t, e.ShouldNotify(v))
}

func TestShouldNotifyBoundaries(t *testing.T) {
    e := NewEvaluator(DefaultRule())
    cases := []struct {
        name string
        v    models.SignalValues
        want bool
    }{
        {"fires", models.SignalValues{LatestPrice: 250, MovingAverage: 230, VolumeRatio: 1.8}, true},
        {"price equals ma", models.SignalValues{LatestPrice: 230, MovingAverage: 230, VolumeRatio: 1.8}, false},
        {"ratio equals threshold", models.SignalValues{LatestPrice: 250, MovingAverage: 230, VolumeRatio: 1.5}, false},
        {"price below ma", models.SignalValues{LatestPrice: 100, MovingAverage: 105, VolumeRatio: 2.0}, false},
        {"low volume", models.SignalValues{LatestPrice: 250, MovingAverage: 230, VolumeRatio: 1.2}, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, e.ShouldNotify(tc.v))
        })
    }
}

func TestCustomThreshold(t *testing.T) {
    e := NewEvaluator(Rule{VolumeRatioThreshold: 3})
    assert.Equal(t, 3.0, e.Rule().VolumeRatioThreshold)
    assert.False(t, e.ShouldNotify(models.SignalValues{LatestPrice: 2, MovingAverage: 1, VolumeRatio: 2.5}))
    assert.True(t, e.ShouldNotify(models.SignalValues{LatestPrice: 2, MovingAverage: 1, VolumeRatio: 3.5}))
}

func TestEvaluateAveragesWholeSeries(t *testing.T) {
    closes := make([]float64, 30)
    volumes := make([]float64, 30)
    for i := range closes {
        closes[i] = float64(i + 1)
        volumes[i] = 10
    }
    v := NewEvaluator(DefaultRule()).Evaluate(series(closes, volumes))
    assert.InDelta(t, 15.5, v.MovingAverage, 1e-9)
    assert.Equal(t, 30, v.Observations)
}
