package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAlert/internal/domain/models"
	"StockAlert/internal/services/signal"
)

var tickers = []string{"AAPL", "MSFT", "TSLA", "AMZN", "GOOGL"}

func makeSeries(symbol string, closes, volumes []float64) models.MarketSeries {
	day := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	s := models.MarketSeries{Symbol: symbol}
	for i := range closes {
		s.Observations = append(s.Observations, models.Observation{
			Date:   day.AddDate(0, 0, i),
			Close:  closes[i],
			Volume: volumes[i],
		})
	}
	return s
}

// price 250, MA 230, volume ratio 1.8
func tslaSeries() models.MarketSeries {
	return makeSeries("TSLA", []float64{220, 225, 230, 225, 250}, []float64{100, 100, 100, 100, 225})
}

// price 100, MA 105, volume ratio 2.0
func aaplSeries() models.MarketSeries {
	return makeSeries("AAPL", []float64{105, 110, 105, 105, 100}, []float64{75, 75, 75, 75, 200})
}

// price equals MA
func amznSeries() models.MarketSeries {
	return makeSeries("AMZN", []float64{180, 180, 180}, []float64{10, 10, 40})
}

// price above MA, ordinary volume
func googlSeries() models.MarketSeries {
	return makeSeries("GOOGL", []float64{160, 165, 170}, []float64{10, 10, 11})
}

type fakeMarket struct {
	mu     sync.Mutex
	series map[string]models.MarketSeries
	errs   map[string]error
	panics map[string]bool
	calls  []string
}

func (f *fakeMarket) FetchSeries(ctx context.Context, symbol string, windowDays int) (models.MarketSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if f.panics[symbol] {
		panic("provider exploded")
	}
	if err := f.errs[symbol]; err != nil {
		return models.MarketSeries{Symbol: symbol}, err
	}
	if s, ok := f.series[symbol]; ok {
		return s, nil
	}
	return models.MarketSeries{Symbol: symbol}, nil
}

type fakeNews struct {
	headlines []models.Headline
	err       error
	queries   []string
}

func (f *fakeNews) FetchHeadlines(ctx context.Context, query string) ([]models.Headline, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return []models.Headline{}, f.err
	}
	return f.headlines, nil
}

type fakeMetrics struct {
	noopMetrics
	evaluated int
	alerts    []string
	errors    []string
}

func (m *fakeMetrics) RecordTickerEvaluated()   { m.evaluated++ }
func (m *fakeMetrics) RecordAlert(s string)     { m.alerts = append(m.alerts, s) }
func (m *fakeMetrics) RecordError(stage string) { m.errors = append(m.errors, stage) }

func newRunner(market *fakeMarket, opts ...BatchRunnerOption) *BatchRunner {
	return NewBatchRunner(market, signal.NewEvaluator(signal.DefaultRule()), NewAlertComposer(20), 20, opts...)
}

func scenarioMarket() *fakeMarket {
	return &fakeMarket{series: map[string]models.MarketSeries{
		"AAPL":  aaplSeries(),
		"TSLA":  tslaSeries(),
		"AMZN":  amznSeries(),
		"GOOGL": googlSeries(),
	}}
}

func TestRunBatchOnlyTSLAFires(t *testing.T) {
	market := scenarioMarket()
	m := &fakeMetrics{}
	r := newRunner(market, WithMetrics(m))

	res := r.RunBatch(context.Background(), tickers)

	require.Len(t, res.Alerts, 1)
	assert.Equal(t, []string{"TSLA"}, res.Symbols())
	msg, ok := res.Message()
	require.True(t, ok)
	assert.Equal(t, "TSLA alert! Price: 250.00 > MA20 230.00; Volume ratio: 1.80.", msg)
	assert.Contains(t, msg, "Price: 250.00 > MA20 230.00; Volume ratio: 1.80.")

	assert.Equal(t, tickers, market.calls)
	assert.Equal(t, 5, res.Evaluated)
	assert.Equal(t, []string{"MSFT"}, res.NoData)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 5, m.evaluated)
	assert.Equal(t, []string{"TSLA"}, m.alerts)
}

func TestRunBatchAAPLBelowMovingAverageDoesNotFire(t *testing.T) {
	market := &fakeMarket{series: map[string]models.MarketSeries{"AAPL": aaplSeries()}}
	r := newRunner(market)

	res := r.RunBatch(context.Background(), []string{"AAPL"})

	assert.Empty(t, res.Alerts)
	_, ok := res.Message()
	assert.False(t, ok)
}

func TestRunBatchNoQualifyingTickers(t *testing.T) {
	market := &fakeMarket{series: map[string]models.MarketSeries{
		"AAPL":  aaplSeries(),
		"AMZN":  amznSeries(),
		"GOOGL": googlSeries(),
	}}
	news := &fakeNews{headlines: []models.Headline{"unused"}}
	r := newRunner(market, WithNewsSource(news))

	res := r.RunBatch(context.Background(), tickers)

	msg, ok := res.Message()
	assert.False(t, ok)
	assert.Empty(t, msg)
	assert.Empty(t, news.queries)
}

func TestRunBatchEnrichesWithHeadlines(t *testing.T) {
	news := &fakeNews{headlines: []models.Headline{"Tesla rallies", "EV demand surges"}}
	r := newRunner(scenarioMarket(), WithNewsSource(news))

	res := r.RunBatch(context.Background(), tickers)

	msg, ok := res.Message()
	require.True(t, ok)
	assert.Equal(t, "TSLA alert! Price: 250.00 > MA20 230.00; Volume ratio: 1.80.\nTesla rallies\nEV demand surges", msg)
	assert.Equal(t, []string{"TSLA"}, news.queries)
}

func TestRunBatchWithoutNewsSourceStillFires(t *testing.T) {
	r := newRunner(scenarioMarket(), WithNewsSource(nil))

	res := r.RunBatch(context.Background(), []string{"TSLA"})

	require.Len(t, res.Alerts, 1)
	assert.Empty(t, res.Alerts[0].Headlines)
	assert.NotContains(t, string(res.Alerts[0].Message), "\n")
}

func TestRunBatchNewsFailureIsSoft(t *testing.T) {
	news := &fakeNews{err: errors.New("status 500")}
	m := &fakeMetrics{}
	r := newRunner(scenarioMarket(), WithNewsSource(news), WithMetrics(m))

	res := r.RunBatch(context.Background(), tickers)

	require.Len(t, res.Alerts, 1)
	assert.Empty(t, res.Alerts[0].Headlines)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, StageNews, res.Failures[0].Stage)
	assert.Equal(t, "TSLA", res.Failures[0].Symbol)
	assert.Equal(t, []string{StageNews}, m.errors)
}

func TestRunBatchIsolatesMarketFailures(t *testing.T) {
	market := scenarioMarket()
	market.errs = map[string]error{"AAPL": errors.New("connection reset")}
	market.panics = map[string]bool{"MSFT": true}
	m := &fakeMetrics{}
	r := newRunner(market, WithMetrics(m))

	res := r.RunBatch(context.Background(), tickers)

	assert.Equal(t, tickers, market.calls)
	assert.Equal(t, []string{"TSLA"}, res.Symbols())
	require.Len(t, res.Failures, 2)
	assert.Equal(t, TickerFailure{Symbol: "AAPL", Stage: StageMarket, Err: market.errs["AAPL"]}, res.Failures[0])
	assert.Equal(t, "MSFT", res.Failures[1].Symbol)
	assert.Equal(t, StagePanic, res.Failures[1].Stage)
	assert.EqualError(t, res.Failures[1].Err, "provider exploded")
	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, []string{StageMarket, StagePanic}, m.errors)
}

func TestRunBatchMultipleAlertsJoinedWithBlankLine(t *testing.T) {
	market := &fakeMarket{series: map[string]models.MarketSeries{
		"TSLA": tslaSeries(),
		"NVDA": makeSeries("NVDA", []float64{100, 100, 130}, []float64{10, 10, 40}),
	}}
	r := newRunner(market)

	res := r.RunBatch(context.Background(), []string{"TSLA", "NVDA"})

	msg, ok := res.Message()
	require.True(t, ok)
	assert.Equal(t,
		"TSLA alert! Price: 250.00 > MA20 230.00; Volume ratio: 1.80.\n\n"+
			"NVDA alert! Price: 130.00 > MA20 110.00; Volume ratio: 2.00.",
		msg)
}

func TestRunBatchStopsWhenContextCancelled(t *testing.T) {
	market := scenarioMarket()
	r := newRunner(market)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.RunBatch(ctx, tickers)

	assert.Empty(t, market.calls)
	assert.Empty(t, res.Alerts)
}

func TestRunBatchAppliesMarketTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	market := &deadlineMarket{fn: func(ctx context.Context) {
		deadline, hasDeadline = ctx.Deadline()
	}}
	r := NewBatchRunner(market, signal.NewEvaluator(signal.DefaultRule()), NewAlertComposer(20), 20,
		WithStageTimeouts(5*time.Second, time.Second))

	r.RunBatch(context.Background(), []string{"AAPL"})

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 2*time.Second)
}

type deadlineMarket struct {
	fn func(ctx context.Context)
}

func (d *deadlineMarket) FetchSeries(ctx context.Context, symbol string, windowDays int) (models.MarketSeries, error) {
	d.fn(ctx)
	return models.MarketSeries{Symbol: symbol}, nil
}
