package main

import (
	"context"
	"log/slog"
	"os"

	"pricing/config"
	"pricing/internal/delivery"
	"pricing/internal/delivery/api"
	"pricing/internal/delivery/api/middleware"
	"pricing/internal/delivery/api/router/handler"
	"pricing/internal/delivery/api/validator"
	"pricing/internal/domain/service"
	"pricing/internal/infra/auth"
	"pricing/internal/infra/backend"
	"pricing/internal/infra/eventbus"
	"pricing/internal/infra/httpclient"
	logs "pricing/internal/infra/log"
	"pricing/internal/infra/querycache"
	"pricing/internal/infra/tokenstore"
	"pricing/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			tokenstore.New,
			querycache.New,
			validator.NewValidate,
		),
		eventbus.Module,
		backend.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTInspector,
			// Logging out drops the refresh cookie held by the backend client.
			func(client *httpclient.Client) service.CookieResetter { return client },
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewUserService,
			impl.NewCacheService,
			impl.NewProductService,
			impl.NewProductHistoryService,
			impl.NewMarketConditionService,
			impl.NewOptimizationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewProductHandler,
			handler.NewMarketConditionHandler,
			handler.NewCacheHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
