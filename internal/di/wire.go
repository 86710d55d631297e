//go:build wireinject
// +build wireinject

package di

import (
	"WatchPulse/pkg/config"
	"WatchPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// State backings
		ProvideRedisClient,
		ProvideWatchlistStore,
		ProvideAlertStore,
		ProvideNotifier,

		// Provider clients
		ProvideFinnhubClient,
		ProvideYahooClient,

		// Use cases
		ProvideQuotesUseCase,
		ProvideCandlesUseCase,
		ProvideAlertsUseCase,
		ProvidePoller,

		// HTTP surface and application server
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
