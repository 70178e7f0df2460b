package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	registry       *prometheus.Registry
	tickersTotal   prometheus.Counter
	alertsTotal    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	dispatchTotal  *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	movingAverage  *prometheus.GaugeVec
	volumeRatio    *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
	lastRunSuccess prometheus.Gauge
}

// New creates a Prometheus metrics recorder on its own registry.
func New(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		tickersTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stockalert_tickers_evaluated_total",
				Help: "Total number of tickers evaluated",
			},
		),
		alertsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockalert_alerts_fired_total",
				Help: "Total number of alerts that fired",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockalert_provider_errors_total",
				Help: "Total number of contained provider failures",
			},
			[]string{"stage"},
		),
		dispatchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockalert_dispatch_total",
				Help: "SMS dispatch attempts by outcome",
			},
			[]string{"outcome"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockalert_last_price",
				Help: "Latest close observed for a symbol",
			},
			[]string{"symbol"},
		),
		movingAverage: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockalert_moving_average",
				Help: "Moving average of closes for a symbol",
			},
			[]string{"symbol"},
		),
		volumeRatio: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockalert_volume_ratio",
				Help: "Latest volume divided by mean volume for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockalert_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lastRunSuccess: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockalert_last_run_timestamp_seconds",
				Help: "Unix time of the last completed run",
			},
		),
	}
}

// RecordTickerEvaluated counts one evaluated ticker.
func (r *Recorder) RecordTickerEvaluated() {
	r.tickersTotal.Inc()
}

// RecordAlert counts an alert for symbol.
func (r *Recorder) RecordAlert(symbol string) {
	r.alertsTotal.WithLabelValues(symbol).Inc()
}

// RecordError records a contained failure for a pipeline stage.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// RecordDispatch records the outcome of an SMS dispatch.
func (r *Recorder) RecordDispatch(outcome string) {
	r.dispatchTotal.WithLabelValues(outcome).Inc()
}

// RecordSignal records the computed signal values for a symbol.
func (r *Recorder) RecordSignal(symbol string, price, movingAverage, volumeRatio float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
	r.movingAverage.WithLabelValues(symbol).Set(movingAverage)
	r.volumeRatio.WithLabelValues(symbol).Set(volumeRatio)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// MarkRunCompleted stamps the completion time of the run.
func (r *Recorder) MarkRunCompleted() {
	r.lastRunSuccess.SetToCurrentTime()
}

// Push sends every collected metric to a Prometheus Pushgateway.
func (r *Recorder) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
