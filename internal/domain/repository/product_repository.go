// Package repository defines the interfaces for the remote pricing resources.
// These interfaces act as a contract between the use case layer and the backend client.
package repository

import (
	"context"

	"pricing/internal/domain/entity"
)

// ProductRepository defines the product catalog and the analytics computed per product.
type ProductRepository interface {
	// List returns the products matching filter.
	List(ctx context.Context, filter *entity.ProductFilter) ([]*entity.Product, error)

	// Get returns one product together with its sales history.
	Get(ctx context.Context, id int64) (*entity.ProductDetail, error)

	Create(ctx context.Context, input *entity.ProductInput) (*entity.Product, error)
	Update(ctx context.Context, id int64, input *entity.ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error

	// DemandForecast asks the backend to forecast demand for a product.
	DemandForecast(ctx context.Context, id int64) (*entity.DemandForecast, error)

	// OptimizePrice asks the backend for an optimised price. Only explicitly set params are sent.
	OptimizePrice(ctx context.Context, id int64, params *entity.OptimizationParams) (*entity.PriceOptimization, error)

	// BulkOptimizePrices returns every product matching filter with its forecast and optimised price filled in.
	BulkOptimizePrices(ctx context.Context, params *entity.OptimizationParams, filter *entity.ProductFilter) ([]*entity.Product, error)

	// VisualizationData returns the price history and demand curve of a product.
	VisualizationData(ctx context.Context, id int64) (*entity.VisualizationData, error)
}
