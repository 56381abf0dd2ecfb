package impl

import (
	"context"
	"log/slog"

	deliverycontext "pricing/internal/delivery/context"
	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/querycache"
	"pricing/internal/usecase"
)

// userService implements the UserUsecase and CacheUsecase interfaces.
type userService struct {
	auth   repository.AuthRepository
	cache  *querycache.Cache
	logger *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(auth repository.AuthRepository, cache *querycache.Cache, logger *slog.Logger) usecase.UserUsecase {
	return &userService{
		auth:   auth,
		cache:  cache,
		logger: logger,
	}
}

// NewCacheService exposes cache maintenance.
func NewCacheService(cache *querycache.Cache, logger *slog.Logger) usecase.CacheUsecase {
	return &userService{
		cache:  cache,
		logger: logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers provides User, so the list is refetched after every login.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.Profile, error) {
	return querycache.Query(ctx, srv.cache, opListUsers, nil, func(ctx context.Context) ([]*entity.Profile, error) {
		return srv.auth.ListUsers(ctx)
	})
}

func (srv *userService) RefetchAll(ctx context.Context) int {
	n := srv.cache.RefetchAll(ctx)
	srv.log(ctx).Debug("Refetched watched queries", slog.Int("count", n))

	return n
}
