package impl

import (
	"context"
	"log/slog"

	deliverycontext "pricing/internal/delivery/context"
	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/querycache"
	"pricing/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// productHistoryService implements the ProductHistoryUsecase interface.
type productHistoryService struct {
	history  repository.ProductHistoryRepository
	cache    *querycache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHistoryService is the constructor for productHistoryService.
func NewProductHistoryService(
	history repository.ProductHistoryRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
	logger *slog.Logger,
) usecase.ProductHistoryUsecase {
	return &productHistoryService{
		history:  history,
		cache:    cache,
		validate: validate,
		logger:   logger,
	}
}

func (srv *productHistoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productHistoryService) ListProductHistory(ctx context.Context, filter *entity.ProductHistoryFilter) ([]*entity.ProductHistory, error) {
	if filter == nil {
		filter = &entity.ProductHistoryFilter{}
	}
	if err := validateInput(ctx, srv.validate, filter); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opListProductHistory, filter, func(ctx context.Context) ([]*entity.ProductHistory, error) {
		return srv.history.List(ctx, filter)
	})
}

// CreateProductHistory invalidates ProductHistory and Products, since a sale changes product totals.
func (srv *productHistoryService) CreateProductHistory(ctx context.Context, input *entity.ProductHistoryInput) (*entity.ProductHistory, error) {
	if err := validateInput(ctx, srv.validate, input); err != nil {
		return nil, err
	}

	record, err := querycache.Mutate(ctx, srv.cache, opCreateProductHistory, func(ctx context.Context) (*entity.ProductHistory, error) {
		return srv.history.Create(ctx, input)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to record product history", slog.Int64("product_id", input.Product), slog.Any("error", err))

		return nil, err
	}

	return record, nil
}

func (srv *productHistoryService) DeleteProductHistory(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}

	_, err := querycache.Mutate(ctx, srv.cache, opDeleteProductHistory, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, srv.history.Delete(ctx, id)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete product history", slog.Int64("history_id", id), slog.Any("error", err))

		return err
	}

	return nil
}
