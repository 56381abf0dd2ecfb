package repository

import (
	"context"

	"pricing/internal/domain/entity"
)

// MarketConditionRepository defines the market conditions considered by the optimiser.
type MarketConditionRepository interface {
	List(ctx context.Context, filter *entity.MarketConditionFilter) ([]*entity.MarketCondition, error)
	Create(ctx context.Context, input *entity.MarketConditionInput) (*entity.MarketCondition, error)
	Update(ctx context.Context, id int64, input *entity.MarketConditionInput) (*entity.MarketCondition, error)
	Delete(ctx context.Context, id int64) error
}

// OptimizationLogRepository defines the read-only audit trail of optimisation runs.
type OptimizationLogRepository interface {
	List(ctx context.Context) ([]*entity.OptimizationLog, error)
}
