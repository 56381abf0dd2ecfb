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
	"github.com/pkg/errors"
)

// productService implements the ProductUsecase interface.
type productService struct {
	products repository.ProductRepository
	cache    *querycache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(
	products repository.ProductRepository,
	cache *querycache.Cache,
	validate *validator.Validate,
	logger *slog.Logger,
) usecase.ProductUsecase {
	return &productService{
		products: products,
		cache:    cache,
		validate: validate,
		logger:   logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts provides Products.
func (srv *productService) ListProducts(ctx context.Context, filter *entity.ProductFilter) ([]*entity.Product, error) {
	if filter == nil {
		filter = &entity.ProductFilter{}
	}
	if err := validateInput(ctx, srv.validate, filter); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opListProducts, filter, func(ctx context.Context) ([]*entity.Product, error) {
		return srv.products.List(ctx, filter)
	})
}

// WatchProducts subscribes to the Products list.
func (srv *productService) WatchProducts(
	ctx context.Context,
	filter *entity.ProductFilter,
	listener func(*entity.ProductListState),
) (func(), error) {
	if filter == nil {
		filter = &entity.ProductFilter{}
	}
	if err := validateInput(ctx, srv.validate, filter); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) ([]*entity.Product, error) {
		return srv.products.List(ctx, filter)
	}
	unsubscribe, err := querycache.Watch(ctx, srv.cache, opListProducts, filter, fetch, func(snap querycache.Snapshot) {
		listener(productListState(snap))
	})
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Watching products", slog.String("category", filter.Category))

	return unsubscribe, nil
}

func productListState(snap querycache.Snapshot) *entity.ProductListState {
	state := &entity.ProductListState{
		Status: entity.QueryStatus(snap.State),
		Stale:  snap.Stale,
	}
	state.Products, _ = snap.Data.([]*entity.Product)
	if snap.Err != nil {
		state.Error = describeError(snap.Err)
	}
	if !snap.FetchedAt.IsZero() {
		fetchedAt := snap.FetchedAt
		state.FetchedAt = &fetchedAt
	}

	return state
}

// GetProduct provides Products.
func (srv *productService) GetProduct(ctx context.Context, id int64) (*entity.ProductDetail, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	return querycache.Query(ctx, srv.cache, opGetProduct, id, func(ctx context.Context) (*entity.ProductDetail, error) {
		return srv.products.Get(ctx, id)
	})
}

// CreateProduct invalidates Products.
func (srv *productService) CreateProduct(ctx context.Context, input *entity.ProductInput) (*entity.Product, error) {
	if err := validateInput(ctx, srv.validate, input); err != nil {
		return nil, err
	}

	product, err := querycache.Mutate(ctx, srv.cache, opCreateProduct, func(ctx context.Context) (*entity.Product, error) {
		return srv.products.Create(ctx, input)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create product", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Product created", slog.Int64("product_id", product.ProductID))

	return product, nil
}

// UpdateProduct invalidates Products.
func (srv *productService) UpdateProduct(ctx context.Context, id int64, input *entity.ProductInput) (*entity.Product, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := validateInput(ctx, srv.validate, input); err != nil {
		return nil, err
	}

	product, err := querycache.Mutate(ctx, srv.cache, opUpdateProduct, func(ctx context.Context) (*entity.Product, error) {
		return srv.products.Update(ctx, id, input)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update product", slog.Int64("product_id", id), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Info("Product updated", slog.Int64("product_id", id))

	return product, nil
}

// DeleteProduct invalidates Products.
func (srv *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := requireID(id); err != nil {
		return err
	}

	_, err := querycache.Mutate(ctx, srv.cache, opDeleteProduct, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, srv.products.Delete(ctx, id)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete product", slog.Int64("product_id", id), slog.Any("error", err))

		return errors.WithStack(err)
	}
	srv.log(ctx).Info("Product deleted", slog.Int64("product_id", id))

	return nil
}
