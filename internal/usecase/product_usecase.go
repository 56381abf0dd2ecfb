package usecase

import (
	"context"

	"pricing/internal/domain/entity"
)

// ProductUsecase defines the product catalog operations.
type ProductUsecase interface {
	ListProducts(ctx context.Context, filter *entity.ProductFilter) ([]*entity.Product, error)
	// WatchProducts reports every state of the list to listener until the returned function is called.
	// The list is refetched as soon as a mutation invalidates it.
	WatchProducts(ctx context.Context, filter *entity.ProductFilter, listener func(*entity.ProductListState)) (func(), error)
	GetProduct(ctx context.Context, id int64) (*entity.ProductDetail, error)
	CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, input *entity.ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductHistoryUsecase defines the sales history operations.
type ProductHistoryUsecase interface {
	ListProductHistory(ctx context.Context, filter *entity.ProductHistoryFilter) ([]*entity.ProductHistory, error)
	CreateProductHistory(ctx context.Context, input *entity.ProductHistoryInput) (*entity.ProductHistory, error)
	DeleteProductHistory(ctx context.Context, id int64) error
}

// MarketConditionUsecase defines the market condition operations.
type MarketConditionUsecase interface {
	ListMarketConditions(ctx context.Context, filter *entity.MarketConditionFilter) ([]*entity.MarketCondition, error)
	CreateMarketCondition(ctx context.Context, input *entity.MarketConditionInput) (*entity.MarketCondition, error)
	UpdateMarketCondition(ctx context.Context, id int64, input *entity.MarketConditionInput) (*entity.MarketCondition, error)
	DeleteMarketCondition(ctx context.Context, id int64) error
}
