package backend

import (
	"context"
	"net/http"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/httpclient"

	"github.com/pkg/errors"
)

type marketConditionRepository struct {
	client Doer
}

// NewMarketConditionRepository is the constructor for marketConditionRepository.
func NewMarketConditionRepository(client Doer) repository.MarketConditionRepository {
	return &marketConditionRepository{client: client}
}

func (repo *marketConditionRepository) List(ctx context.Context, filter *entity.MarketConditionFilter) ([]*entity.MarketCondition, error) {
	req := &httpclient.Request{Method: http.MethodGet, Path: marketConditionsPath}
	if filter != nil {
		req.Query = filter.Values()
	}

	var conditions []*entity.MarketCondition
	if err := repo.client.Do(ctx, req, &conditions); err != nil {
		return nil, errors.Wrap(err, "failed to list market conditions")
	}

	return conditions, nil
}

func (repo *marketConditionRepository) Create(ctx context.Context, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	var condition entity.MarketCondition
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPost, Path: marketConditionsPath, Body: input}, &condition); err != nil {
		return nil, errors.Wrap(err, "failed to create market condition")
	}

	return &condition, nil
}

func (repo *marketConditionRepository) Update(ctx context.Context, id int64, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	var condition entity.MarketCondition
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPut, Path: member(marketConditionsPath, id), Body: input}, &condition); err != nil {
		return nil, errors.Wrapf(err, "failed to update market condition %d", id)
	}

	return &condition, nil
}

func (repo *marketConditionRepository) Delete(ctx context.Context, id int64) error {
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodDelete, Path: member(marketConditionsPath, id)}, nil); err != nil {
		return errors.Wrapf(err, "failed to delete market condition %d", id)
	}

	return nil
}
