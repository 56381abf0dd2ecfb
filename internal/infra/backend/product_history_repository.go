package backend

import (
	"context"
	"net/http"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/httpclient"

	"github.com/pkg/errors"
)

type productHistoryRepository struct {
	client Doer
}

// NewProductHistoryRepository is the constructor for productHistoryRepository.
func NewProductHistoryRepository(client Doer) repository.ProductHistoryRepository {
	return &productHistoryRepository{client: client}
}

func (repo *productHistoryRepository) List(ctx context.Context, filter *entity.ProductHistoryFilter) ([]*entity.ProductHistory, error) {
	req := &httpclient.Request{Method: http.MethodGet, Path: productHistoryPath}
	if filter != nil {
		req.Query = filter.Values()
	}

	var history []*entity.ProductHistory
	if err := repo.client.Do(ctx, req, &history); err != nil {
		return nil, errors.Wrap(err, "failed to list product history")
	}

	return history, nil
}

func (repo *productHistoryRepository) Create(ctx context.Context, input *entity.ProductHistoryInput) (*entity.ProductHistory, error) {
	var history entity.ProductHistory
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPost, Path: productHistoryPath, Body: input}, &history); err != nil {
		return nil, errors.Wrap(err, "failed to create product history")
	}

	return &history, nil
}

func (repo *productHistoryRepository) Delete(ctx context.Context, id int64) error {
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodDelete, Path: member(productHistoryPath, id)}, nil); err != nil {
		return errors.Wrapf(err, "failed to delete product history %d", id)
	}

	return nil
}
