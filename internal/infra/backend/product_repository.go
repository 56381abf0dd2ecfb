package backend

import (
	"context"
	"net/http"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/httpclient"

	"github.com/pkg/errors"
)

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	client Doer
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(client Doer) repository.ProductRepository {
	return &productRepository{client: client}
}

func (repo *productRepository) List(ctx context.Context, filter *entity.ProductFilter) ([]*entity.Product, error) {
	req := &httpclient.Request{Method: http.MethodGet, Path: productsPath}
	if filter != nil {
		req.Query = filter.Values()
	}

	var products []*entity.Product
	if err := repo.client.Do(ctx, req, &products); err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (repo *productRepository) Get(ctx context.Context, id int64) (*entity.ProductDetail, error) {
	var product entity.ProductDetail
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, Path: member(productsPath, id)}, &product); err != nil {
		return nil, errors.Wrapf(err, "failed to get product %d", id)
	}

	return &product, nil
}

func (repo *productRepository) Create(ctx context.Context, input *entity.ProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPost, Path: productsPath, Body: input}, &product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	return &product, nil
}

func (repo *productRepository) Update(ctx context.Context, id int64, input *entity.ProductInput) (*entity.Product, error) {
	var product entity.Product
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPut, Path: member(productsPath, id), Body: input}, &product); err != nil {
		return nil, errors.Wrapf(err, "failed to update product %d", id)
	}

	return &product, nil
}

func (repo *productRepository) Delete(ctx context.Context, id int64) error {
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodDelete, Path: member(productsPath, id)}, nil); err != nil {
		return errors.Wrapf(err, "failed to delete product %d", id)
	}

	return nil
}

func (repo *productRepository) DemandForecast(ctx context.Context, id int64) (*entity.DemandForecast, error) {
	var forecast entity.DemandForecast
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, Path: member(productsPath, id, "forecast")}, &forecast); err != nil {
		return nil, errors.Wrapf(err, "failed to forecast demand for product %d", id)
	}

	return &forecast, nil
}

func (repo *productRepository) OptimizePrice(ctx context.Context, id int64, params *entity.OptimizationParams) (*entity.PriceOptimization, error) {
	req := &httpclient.Request{Method: http.MethodGet, Path: member(productsPath, id, "optimize")}
	if params != nil {
		req.Query = params.Values()
	}

	var result entity.PriceOptimization
	if err := repo.client.Do(ctx, req, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to optimize price for product %d", id)
	}

	return &result, nil
}

func (repo *productRepository) BulkOptimizePrices(ctx context.Context, params *entity.OptimizationParams, filter *entity.ProductFilter) ([]*entity.Product, error) {
	req := &httpclient.Request{Method: http.MethodGet, Path: bulkOptimizePath}
	if filter != nil {
		req.Query = filter.Values()
	}
	if params != nil {
		if req.Query == nil {
			req.Query = params.Values()
		} else {
			req.Query = merge(req.Query, params.Values())
		}
	}

	var products []*entity.Product
	if err := repo.client.Do(ctx, req, &products); err != nil {
		return nil, errors.Wrap(err, "failed to bulk optimize prices")
	}

	return products, nil
}

func (repo *productRepository) VisualizationData(ctx context.Context, id int64) (*entity.VisualizationData, error) {
	var data entity.VisualizationData
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, Path: member(productsPath, id, "visualization-data")}, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to get visualization data for product %d", id)
	}

	return &data, nil
}
