//go:build wireinject
// +build wireinject

package di

import (
	"StockAlert/pkg/app"
	"StockAlert/pkg/config"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Providers
		ProvideMarketData,
		ProvideNewsSource,
		ProvideNotifier,

		// Use cases
		ProvideEvaluator,
		ProvideComposer,
		ProvideBatchRunner,

		// Application
		ProvideApp,
	)
	return &app.App{}, nil
}
