//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"hrvd/internal"
	"hrvd/internal/controllers"
	"hrvd/internal/fitbit"
	"hrvd/internal/models"
	"hrvd/internal/poller"
	"hrvd/internal/providers"
	"hrvd/internal/services"
	"hrvd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		models.NewFilePersister,
		models.NewTokenStore,
		models.NewSeriesCache,

		fitbit.NewClient,
		services.NewHrvService,

		poller.NewZstdCompressor,
		poller.NewColdStorage,
		poller.NewScheduler,

		controllers.NewAuthController,
		controllers.NewHrvController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
