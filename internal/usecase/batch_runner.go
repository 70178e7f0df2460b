package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"StockAlert/internal/domain/models"
	drepo "StockAlert/internal/domain/repository"
	domsvc "StockAlert/internal/domain/service"
	"StockAlert/pkg/logger"
)

// Pipeline stages used to label contained failures.
const (
	StageMarket = "market"
	StageNews   = "news"
	StagePanic  = "panic"
)

// BatchSeparator joins alert messages into one batch message.
const BatchSeparator = "\n\n"

// TickerFailure records a contained failure for one ticker.
type TickerFailure struct {
	Symbol string
	Stage  string
	Err    error
}

// BatchResult is the outcome of one batch run.
type BatchResult struct {
	Alerts    []models.Alert
	Failures  []TickerFailure
	Evaluated int
	NoData    []string
}

// Message joins every alert with a blank line. ok is false when no alert fired.
func (r BatchResult) Message() (msg string, ok bool) {
	if len(r.Alerts) == 0 {
		return "", false
	}
	parts := make([]string, len(r.Alerts))
	for i, a := range r.Alerts {
		parts[i] = string(a.Message)
	}
	return strings.Join(parts, BatchSeparator), true
}

// Symbols returns the symbols that fired, in run order.
func (r BatchResult) Symbols() []string {
	out := make([]string, len(r.Alerts))
	for i, a := range r.Alerts {
		out[i] = a.Symbol
	}
	return out
}

// BatchRunnerOption configures BatchRunner.
type BatchRunnerOption func(*BatchRunner)

// BatchRunner evaluates tickers one by one and collects fired alerts.
type BatchRunner struct {
	market        drepo.MarketData
	news          drepo.NewsSource
	evaluator     domsvc.SignalEvaluator
	composer      domsvc.AlertComposer
	metrics       drepo.Metrics
	log           *logger.Logger
	window        int
	marketTimeout time.Duration
	newsTimeout   time.Duration
}

// NewBatchRunner creates a BatchRunner fetching window days of history per ticker.
func NewBatchRunner(
	market drepo.MarketData,
	evaluator domsvc.SignalEvaluator,
	composer domsvc.AlertComposer,
	window int,
	opts ...BatchRunnerOption,
) *BatchRunner {
	r := &BatchRunner{
		market:    market,
		evaluator: evaluator,
		composer:  composer,
		metrics:   noopMetrics{},
		log:       logger.Nop(),
		window:    window,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Window returns the number of days of history fetched per ticker.
func (r *BatchRunner) Window() int { return r.window }

// WithNewsSource enables headline enrichment. A nil source disables it.
func WithNewsSource(news drepo.NewsSource) BatchRunnerOption {
	return func(r *BatchRunner) {
		r.news = news
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m drepo.Metrics) BatchRunnerOption {
	return func(r *BatchRunner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) BatchRunnerOption {
	return func(r *BatchRunner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithStageTimeouts bounds each market data and news call.
func WithStageTimeouts(market, news time.Duration) BatchRunnerOption {
	return func(r *BatchRunner) {
		r.marketTimeout = market
		r.newsTimeout = news
	}
}

// RunBatch processes symbols in order. A failing ticker never aborts the
// rest of the batch; its failure is recorded in the result instead.
func (r *BatchRunner) RunBatch(ctx context.Context, symbols []string) BatchResult {
	start := time.Now()
	var res BatchResult

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			r.log.Warn("batch interrupted", logger.String("symbol", symbol), logger.Error(err))
			break
		}
		if alert, fired := r.processTicker(ctx, symbol, &res); fired {
			res.Alerts = append(res.Alerts, alert)
		}
	}

	r.metrics.RecordLatency("batch", time.Since(start).Seconds())
	return res
}

func (r *BatchRunner) processTicker(ctx context.Context, symbol string, res *BatchResult) (alert models.Alert, fired bool) {
	log := r.log.With(logger.String("symbol", symbol))

	defer func() {
		if rec := recover(); rec != nil {
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			log.Debug("ticker pipeline panic", logger.String("stack", string(debug.Stack())))
			r.fail(log, res, symbol, StagePanic, err)
			alert, fired = models.Alert{}, false
		}
	}()

	series, err := r.fetchSeries(ctx, symbol)
	if err != nil {
		r.fail(log, res, symbol, StageMarket, err)
		return models.Alert{}, false
	}

	res.Evaluated++
	r.metrics.RecordTickerEvaluated()
	if series.IsEmpty() {
		res.NoData = append(res.NoData, symbol)
		log.Info("no market data for window", logger.Int("window", r.window))
	}

	values := r.evaluator.Evaluate(series)
	if values.HasData() {
		r.metrics.RecordSignal(symbol, values.LatestPrice, values.MovingAverage, values.VolumeRatio)
	}
	log.Debug("signal evaluated",
		logger.Float64("price", values.LatestPrice),
		logger.Float64("moving_average", values.MovingAverage),
		logger.Float64("volume_ratio", values.VolumeRatio),
		logger.Int("observations", values.Observations))

	if !r.evaluator.ShouldNotify(values) {
		return models.Alert{}, false
	}

	headlines := r.fetchHeadlines(ctx, log, res, symbol)
	msg := r.composer.Compose(symbol, values, headlines)

	r.metrics.RecordAlert(symbol)
	log.Info("alert fired",
		logger.Float64("price", values.LatestPrice),
		logger.Float64("moving_average", values.MovingAverage),
		logger.Float64("volume_ratio", values.VolumeRatio),
		logger.Int("headlines", len(headlines)))

	return models.Alert{
		Symbol:    symbol,
		Signal:    values,
		Headlines: headlines,
		Message:   msg,
	}, true
}

func (r *BatchRunner) fetchSeries(ctx context.Context, symbol string) (models.MarketSeries, error) {
	ctx, cancel := withOptionalTimeout(ctx, r.marketTimeout)
	defer cancel()

	start := time.Now()
	series, err := r.market.FetchSeries(ctx, symbol, r.window)
	r.metrics.RecordLatency(StageMarket, time.Since(start).Seconds())
	return series, err
}

func (r *BatchRunner) fetchHeadlines(ctx context.Context, log *logger.Logger, res *BatchResult, symbol string) []models.Headline {
	if r.news == nil {
		return nil
	}

	ctx, cancel := withOptionalTimeout(ctx, r.newsTimeout)
	defer cancel()

	start := time.Now()
	headlines, err := r.news.FetchHeadlines(ctx, symbol)
	r.metrics.RecordLatency(StageNews, time.Since(start).Seconds())
	if err != nil {
		r.fail(log, res, symbol, StageNews, err)
		return nil
	}
	return headlines
}

func (r *BatchRunner) fail(log *logger.Logger, res *BatchResult, symbol, stage string, err error) {
	r.metrics.RecordError(stage)
	res.Failures = append(res.Failures, TickerFailure{Symbol: symbol, Stage: stage, Err: err})
	log.Warn("ticker stage failed, continuing", logger.String("stage", stage), logger.Error(err))
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

type noopMetrics struct{}

func (noopMetrics) RecordTickerEvaluated()                         {}
func (noopMetrics) RecordAlert(string)                             {}
func (noopMetrics) RecordError(string)                             {}
func (noopMetrics) RecordDispatch(string)                          {}
func (noopMetrics) RecordSignal(string, float64, float64, float64) {}
func (noopMetrics) RecordLatency(string, float64)                  {}
func (noopMetrics) MarkRunCompleted()                              {}
