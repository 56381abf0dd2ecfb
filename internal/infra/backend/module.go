package backend

import (
	"pricing/internal/infra/httpclient"

	"go.uber.org/fx"
)

// Module provides the authenticated client and every remote repository
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		httpclient.New,
		func(c *httpclient.Client) Doer { return c },
		NewProductRepository,
		NewProductHistoryRepository,
		NewMarketConditionRepository,
		NewOptimizationLogRepository,
		NewAuthRepository,
	),
)
