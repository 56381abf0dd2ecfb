package usecase

import (
	"context"

	"pricing/internal/domain/entity"
)

// OptimizationUsecase defines the analytics computed by the backend.
type OptimizationUsecase interface {
	GetDemandForecast(ctx context.Context, productID int64) (*entity.DemandForecast, error)

	// OptimizePrice validates params before any request is made.
	OptimizePrice(ctx context.Context, productID int64, params *entity.OptimizationParams) (*entity.PriceOptimization, error)

	BulkOptimizePrices(ctx context.Context, params *entity.OptimizationParams, filter *entity.ProductFilter) ([]*entity.Product, error)
	GetVisualizationData(ctx context.Context, productID int64) (*entity.VisualizationData, error)
	ListOptimizationLogs(ctx context.Context) ([]*entity.OptimizationLog, error)
}
