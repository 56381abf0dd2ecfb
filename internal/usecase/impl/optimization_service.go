package impl

import (
	"context"
	"log/slog"

	deliverycontext "pricing/internal/delivery/context"
	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/querycache"
	"pricing/internal/usecase"
	"pricing/internal/util"

	"github.com/go-playground/validator/v10"
)

// optimizationService implements the OptimizationUsecase interface.
// None of its queries provide tags, so results live until the cache is reset or expires.
type optimizationService struct {
	products repository.ProductRepository
	logs     repository.OptimizationLogRepository
	cache    *querycache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOptimizationService is the constructor for optimizationService.
func NewOptimizationService(
	products repository.ProductRepository,
	logs repository.OptimizationLogRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
	logger *slog.Logger,
) usecase.OptimizationUsecase {
	return &optimizationService{
		products: products,
		logs:     logs,
		cache:    cache,
		validate: validate,
		logger:   logger,
	}
}

func (srv *optimizationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *optimizationService) GetDemandForecast(ctx context.Context, productID int64) (*entity.DemandForecast, error) {
	if err := requireID(productID); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opGetDemandForecast, productID, func(ctx context.Context) (*entity.DemandForecast, error) {
		return srv.products.DemandForecast(ctx, productID)
	})
}

func (srv *optimizationService) OptimizePrice(ctx context.Context, productID int64, params *entity.OptimizationParams) (*entity.PriceOptimization, error) {
	if err := requireID(productID); err != nil {
		return nil, err
	}
	params, err := srv.checkParams(ctx, params)
	if err != nil {
		return nil, err
	}

	applied := params.Effective()
	srv.log(ctx).Debug("Optimizing price",
		slog.Int64("product_id", productID),
		slog.Float64("margin_target", applied.MarginTarget),
		slog.Float64("price_sensitivity", applied.PriceSensitivity),
		slog.Bool("consider_market", applied.ConsiderMarket),
	)

	args := optimizeArgs{ProductID: productID, Params: params}

	return querycache.Query(ctx, srv.cache, opOptimizePrice, args, func(ctx context.Context) (*entity.PriceOptimization, error) {
		return srv.products.OptimizePrice(ctx, productID, params)
	})
}

func (srv *optimizationService) BulkOptimizePrices(ctx context.Context, params *entity.OptimizationParams, filter *entity.ProductFilter) ([]*entity.Product, error) {
	params, err := srv.checkParams(ctx, params)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &entity.ProductFilter{}
	}
	if err := validateInput(ctx, srv.validate, filter); err != nil {
		return nil, err
	}

	args := bulkOptimizeArgs{Params: params, Filter: filter}

	return querycache.Query(ctx, srv.cache, opBulkOptimizePrices, args, func(ctx context.Context) ([]*entity.Product, error) {
		return srv.products.BulkOptimizePrices(ctx, params, filter)
	})
}

func (srv *optimizationService) GetVisualizationData(ctx context.Context, productID int64) (*entity.VisualizationData, error) {
	if err := requireID(productID); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opGetVisualizationData, productID, func(ctx context.Context) (*entity.VisualizationData, error) {
		return srv.products.VisualizationData(ctx, productID)
	})
}

// ListOptimizationLogs provides OptimizationLogs.
func (srv *optimizationService) ListOptimizationLogs(ctx context.Context) ([]*entity.OptimizationLog, error) {
	return querycache.Query(ctx, srv.cache, opListOptimizationLogs, nil, func(ctx context.Context) ([]*entity.OptimizationLog, error) {
		return srv.logs.List(ctx)
	})
}

// checkParams rejects out-of-range parameters before any request is made.
func (srv *optimizationService) checkParams(ctx context.Context, params *entity.OptimizationParams) (*entity.OptimizationParams, error) {
	if params == nil {
		return &entity.OptimizationParams{}, nil
	}
	if err := srv.validate.StructCtx(ctx, params); err != nil {
		return nil, domainerrors.ErrInvalidOptimizationParams.WithDetails(util.DescribeValidationErrors(err))
	}

	return params, nil
}
