package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "StockAlert/internal/domain/repository"
	"StockAlert/internal/service/twilio"
	"StockAlert/internal/usecase"
	"StockAlert/pkg/config"
	applogger "StockAlert/pkg/logger"
	"StockAlert/pkg/util"
)

// Dispatch outcomes.
const (
	DispatchSent    = "sent"
	DispatchSkipped = "skipped"
	DispatchFailed  = "failed"
	DispatchNone    = "none"
)

// Runner executes one batch over a list of symbols.
type Runner interface {
	RunBatch(ctx context.Context, symbols []string) usecase.BatchResult
}

// Pusher ships collected metrics somewhere once the run is over.
type Pusher interface {
	Push(url, job string) error
}

// Report summarises one run.
type Report struct {
	Result   usecase.BatchResult
	Dispatch string
	Elapsed  time.Duration
}

// App encapsulates the one-shot application lifecycle.
type App struct {
	cfg      *config.Config
	runner   Runner
	notifier drepo.Notifier
	metrics  drepo.Metrics
	pusher   Pusher
	log      *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	runner Runner,
	notifier drepo.Notifier,
	metrics drepo.Metrics,
	pusher Pusher,
	log *applogger.Logger,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:      cfg,
		runner:   runner,
		notifier: notifier,
		metrics:  metrics,
		pusher:   pusher,
		log:      log,
	}
}

// Run performs one batch and returns once it is done. SIGINT and SIGTERM
// cancel the run in flight.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Execute(ctx)
	return nil
}

// Execute runs the batch, dispatches the batch message and flushes metrics.
func (a *App) Execute(ctx context.Context) Report {
	start := time.Now()
	symbols := util.NormalizeSymbols(a.cfg.Symbols)

	a.log.Info("run started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("provider", a.cfg.Market.Provider),
		applogger.Strings("symbols", symbols),
		applogger.Bool("news", a.cfg.NewsEnabled()))

	res := a.runner.RunBatch(ctx, symbols)
	dispatch := a.dispatch(ctx, res)

	report := Report{Result: res, Dispatch: dispatch, Elapsed: time.Since(start)}
	a.logSummary(report)

	a.metrics.MarkRunCompleted()
	a.pushMetrics()
	return report
}

func (a *App) dispatch(ctx context.Context, res usecase.BatchResult) string {
	msg, ok := res.Message()
	if !ok {
		a.log.Info("no ticker met the alert criteria, nothing to send")
		return DispatchNone
	}

	chars := twilio.BodyLength(msg)
	a.log.Debug("sms body composed",
		applogger.Int("chars", chars),
		applogger.Int("limit", twilio.MaxBodyChars),
		applogger.Int("alerts", len(res.Alerts)))
	if chars > twilio.MaxBodyChars {
		a.log.Warn("sms body exceeds provider limit, send will likely be rejected",
			applogger.Int("chars", chars),
			applogger.Int("limit", twilio.MaxBodyChars))
	}

	outcome := DispatchSent
	err := a.notifier.SendText(ctx, msg)
	switch {
	case errors.Is(err, twilio.ErrIncompleteCredentials):
		outcome = DispatchSkipped
		a.log.Warn("sms not sent, credentials incomplete", applogger.Strings("alerts", res.Symbols()))
	case err != nil:
		outcome = DispatchFailed
		a.log.Error("sms dispatch failed", applogger.Error(err))
	default:
		a.log.Info("sms sent", applogger.Strings("alerts", res.Symbols()))
	}
	a.metrics.RecordDispatch(outcome)
	return outcome
}

func (a *App) logSummary(r Report) {
	failed := make([]string, 0, len(r.Result.Failures))
	for _, f := range r.Result.Failures {
		failed = append(failed, f.Symbol+":"+f.Stage)
	}
	a.log.Info("run complete",
		applogger.Int("evaluated", r.Result.Evaluated),
		applogger.Strings("alerts", r.Result.Symbols()),
		applogger.Strings("no_data", r.Result.NoData),
		applogger.Strings("failures", failed),
		applogger.String("dispatch", r.Dispatch),
		applogger.Duration("elapsed_ms", r.Elapsed))
}

func (a *App) pushMetrics() {
	url := a.cfg.Metrics.PushgatewayURL
	if url == "" || a.pusher == nil {
		return
	}
	if err := a.pusher.Push(url, a.cfg.Metrics.Job); err != nil {
		a.log.Warn("metrics push failed", applogger.Error(err))
	}
}
