package service

import "StockAlert/internal/domain/models"

// SignalEvaluator computes signal values and applies the notify rule.
type SignalEvaluator interface {
	Evaluate(series models.MarketSeries) models.SignalValues
	ShouldNotify(values models.SignalValues) bool
}

// AlertComposer renders a fired alert as text.
type AlertComposer interface {
	Compose(symbol string, values models.SignalValues, headlines []models.Headline) models.AlertMessage
}
