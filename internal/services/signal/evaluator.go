package signal

import (
    "github.com/montanaflynn/stats"

    "StockAlert/internal/domain/models"
    domsvc "StockAlert/internal/domain/service"
)

const DefaultVolumeRatioThreshold = 1.5

// Rule holds the tunables of the momentum notify rule. The lookback window is
// chosen by whoever fetches the series; the rule averages whatever it is given.
type Rule struct {
    VolumeRatioThreshold float64
}

// DefaultRule returns the 1.5x volume rule.
func DefaultRule() Rule {
    return Rule{VolumeRatioThreshold: DefaultVolumeRatioThreshold}
}

// Evaluator computes momentum signal values from a market series.
type Evaluator struct {
    rule Rule
}

func NewEvaluator(rule Rule) *Evaluator {
    return &Evaluator{rule: rule}
}

// Rule returns the rule the evaluator applies.
func (e *Evaluator) Rule() Rule { return e.rule }

// Evaluate derives latest price, moving average and volume ratio. The moving
// average and mean volume span every observation of the series. An empty series
// yields zero values.
func (e *Evaluator) Evaluate(series models.MarketSeries) models.SignalValues {
    latest, ok := series.Latest()
    if !ok {
        return models.SignalValues{}
    }

    ma := mean(series.Closes())
    avgVolume := mean(series.Volumes())

    ratio := 0.0
    if avgVolume != 0 {
        ratio = latest.Volume / avgVolume
    }

    return models.SignalValues{
        LatestPrice:   latest.Close,
        MovingAverage: ma,
        VolumeRatio:   ratio,
        Observations:  series.Len(),
    }
}

// ShouldNotify applies the rule: price strictly above the moving average and
// volume ratio strictly above the threshold.
func (e *Evaluator) ShouldNotify(v models.SignalValues) bool {
    return v.LatestPrice > v.MovingAverage && v.VolumeRatio > e.rule.VolumeRatioThreshold
}

func mean(xs []float64) float64 {
    m, err := stats.Mean(xs)
    if err != nil {
        return 0
    }
    return m
}

var _ domsvc.SignalEvaluator = (*Evaluator)(nil)
