//go:build wireinject
// +build wireinject

package di

import (
	"FairLens/pkg/config"
	"FairLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Audit engine
		ProvideRegistry,
		ProvideEngine,
		ProvideEngineDefaults,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideReportPublisher,
		ProvideReportStorage,

		// Use cases
		ProvideAuditService,

		// HTTP
		ProvideHandler,

		// Application
		ProvideApp,
	)
	return nil, nil
}
