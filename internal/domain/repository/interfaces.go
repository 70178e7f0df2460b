package repository

import (
	"context"

	"StockAlert/internal/domain/models"
)

// MarketData fetches daily price/volume history for a symbol.
// A symbol without data yields an empty series and a nil error.
type MarketData interface {
	FetchSeries(ctx context.Context, symbol string, windowDays int) (models.MarketSeries, error)
}

// NewsSource returns recent headlines for a query, newest first.
// On failure it returns an empty slice together with the cause.
type NewsSource interface {
	FetchHeadlines(ctx context.Context, query string) ([]models.Headline, error)
}

// Notifier delivers a text message.
type Notifier interface {
	SendText(ctx context.Context, body string) error
}

type Metrics interface {
	RecordTickerEvaluated()
	RecordAlert(symbol string)
	RecordError(stage string)
	RecordDispatch(outcome string)
	RecordSignal(symbol string, price, movingAverage, volumeRatio float64)
	RecordLatency(op string, seconds float64)
	MarkRunCompleted()
}
