package backend

import (
	"context"
	"net/http"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/httpclient"

	"github.com/pkg/errors"
)

type optimizationLogRepository struct {
	client Doer
}

// NewOptimizationLogRepository is the constructor for optimizationLogRepository.
func NewOptimizationLogRepository(client Doer) repository.OptimizationLogRepository {
	return &optimizationLogRepository{client: client}
}

func (repo *optimizationLogRepository) List(ctx context.Context) ([]*entity.OptimizationLog, error) {
	var logs []*entity.OptimizationLog
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, Path: optimizationLogsPath}, &logs); err != nil {
		return nil, errors.Wrap(err, "failed to list optimization logs")
	}

	return logs, nil
}
