package repository

import (
	"context"

	"pricing/internal/domain/entity"
)

// ProductHistoryRepository defines the monthly sales records of products.
type ProductHistoryRepository interface {
	List(ctx context.Context, filter *entity.ProductHistoryFilter) ([]*entity.ProductHistory, error)
	Create(ctx context.Context, input *entity.ProductHistoryInput) (*entity.ProductHistory, error)
	Delete(ctx context.Context, id int64) error
}
