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

	"github.com/go-playground/validator/v10"
)

// marketConditionService implements the MarketConditionUsecase interface.
type marketConditionService struct {
	conditions repository.MarketConditionRepository
	cache      *querycache.Cache
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewMarketConditionService is the constructor for marketConditionService.
func NewMarketConditionService(
	conditions repository.MarketConditionRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
	logger *slog.Logger,
) usecase.MarketConditionUsecase {
	return &marketConditionService{
		conditions: conditions,
		cache:      cache,
		validate:   validate,
		logger:     logger,
	}
}

func (srv *marketConditionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *marketConditionService) ListMarketConditions(ctx context.Context, filter *entity.MarketConditionFilter) ([]*entity.MarketCondition, error) {
	if filter == nil {
		filter = &entity.MarketConditionFilter{}
	}
	if err := validateInput(ctx, srv.validate, filter); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opListMarketConditions, filter, func(ctx context.Context) ([]*entity.MarketCondition, error) {
		return srv.conditions.List(ctx, filter)
	})
}

func (srv *marketConditionService) CreateMarketCondition(ctx context.Context, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	if err := srv.validateCondition(ctx, input); err != nil {
		return nil, err
	}

	condition, err := querycache.Mutate(ctx, srv.cache, opCreateMarketCondition, func(ctx context.Context) (*entity.MarketCondition, error) {
		return srv.conditions.Create(ctx, input)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create market condition", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}

	return condition, nil
}

func (srv *marketConditionService) UpdateMarketCondition(ctx context.Context, id int64, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := srv.validateCondition(ctx, input); err != nil {
		return nil, err
	}

	condition, err := querycache.Mutate(ctx, srv.cache, opUpdateMarketCondition, func(ctx context.Context) (*entity.MarketCondition, error) {
		return srv.conditions.Update(ctx, id, input)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update market condition", slog.Int64("condition_id", id), slog.Any("error", err))

		return nil, err
	}

	return condition, nil
}

func (srv *marketConditionService) DeleteMarketCondition(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}

	_, err := querycache.Mutate(ctx, srv.cache, opDeleteMarketCondition, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, srv.conditions.Delete(ctx, id)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete market condition", slog.Int64("condition_id", id), slog.Any("error", err))

		return err
	}

	return nil
}

// validateCondition also rejects an end date before the start date.
func (srv *marketConditionService) validateCondition(ctx context.Context, input *entity.MarketConditionInput) error {
	if err := validateInput(ctx, srv.validate, input); err != nil {
		return err
	}
	if input.EndDate != nil && *input.EndDate < input.StartDate {
		return domainerrors.ErrInvalidInput.WithDetails("end_date must not be before start_date")
	}

	return nil
}
