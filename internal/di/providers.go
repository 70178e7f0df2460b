package di

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"StockAlert/internal/domain/repository"
	"StockAlert/internal/service/newsapi"
	"StockAlert/internal/service/polygon"
	"StockAlert/internal/service/twilio"
	"StockAlert/internal/service/yahoo"
	"StockAlert/internal/services/signal"
	"StockAlert/internal/usecase"
	"StockAlert/pkg/app"
	"StockAlert/pkg/config"
	xhttp "StockAlert/pkg/http"
	"StockAlert/pkg/logger"
	"StockAlert/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
}

// ProvideRegistry creates the private Prometheus registry for the run.
func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.New(reg)
}

// ProvideMarketData creates the configured market data provider.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	if cfg.Market.Provider == config.ProviderPolygon {
		return polygon.New(cfg.Secrets.PolygonAPIKey, &http.Client{Timeout: cfg.Market.Timeout})
	}
	return yahoo.New(cfg.Market.BaseURL, cfg.Market.UserAgent,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Market.Timeout)))
}

// ProvideNewsSource creates the NewsAPI client, or nil when no key is set.
func ProvideNewsSource(cfg *config.Config) repository.NewsSource {
	if !cfg.NewsEnabled() {
		return nil
	}
	return newsapi.New(cfg.News.BaseURL, cfg.Secrets.NewsAPIKey, cfg.News.PageSize,
		xhttp.NewClient(xhttp.WithTimeout(cfg.News.Timeout)))
}

// ProvideNotifier creates the Twilio SMS notifier.
func ProvideNotifier(cfg *config.Config, log *logger.Logger) repository.Notifier {
	creds := twilio.Credentials{
		AccountSID: cfg.Secrets.TwilioAccountSID,
		AuthToken:  cfg.Secrets.TwilioAuthToken,
		FromNumber: cfg.Secrets.TwilioFromPhone,
		ToNumber:   cfg.Secrets.TwilioToPhone,
	}
	return twilio.New(creds, &http.Client{Timeout: cfg.SMS.Timeout}, log)
}

// ProvideEvaluator creates the momentum signal evaluator.
func ProvideEvaluator(cfg *config.Config) *signal.Evaluator {
	return signal.NewEvaluator(signal.Rule{VolumeRatioThreshold: cfg.Signal.VolumeRatioThreshold})
}

// ProvideComposer creates the alert composer.
func ProvideComposer(cfg *config.Config) *usecase.AlertComposer {
	return usecase.NewAlertComposer(cfg.Signal.Window)
}

// ProvideBatchRunner creates the batch orchestrator. The fetch window is the
// composer's MA window.
func ProvideBatchRunner(
	cfg *config.Config,
	market repository.MarketData,
	news repository.NewsSource,
	evaluator *signal.Evaluator,
	composer *usecase.AlertComposer,
	rec *metrics.Recorder,
	log *logger.Logger,
) *usecase.BatchRunner {
	return usecase.NewBatchRunner(market, evaluator, composer, composer.Window(),
		usecase.WithNewsSource(news),
		usecase.WithMetrics(rec),
		usecase.WithLogger(log),
		usecase.WithStageTimeouts(cfg.Market.Timeout, cfg.News.Timeout),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.BatchRunner,
	notifier repository.Notifier,
	rec *metrics.Recorder,
	log *logger.Logger,
) *app.App {
	return app.New(cfg, runner, notifier, rec, rec, log)
}
