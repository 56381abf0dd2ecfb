package backend

import (
	"context"
	"net/http"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/repository"
	"pricing/internal/infra/httpclient"

	"github.com/pkg/errors"
)

type authRepository struct {
	client Doer
}

// NewAuthRepository is the constructor for authRepository.
func NewAuthRepository(client Doer) repository.AuthRepository {
	return &authRepository{client: client}
}

// Login skips auth so a rejected login never triggers a token refresh.
func (repo *authRepository) Login(ctx context.Context, credentials *entity.Credentials) (*entity.LoginResult, error) {
	var result entity.LoginResult
	err := repo.client.Do(ctx, &httpclient.Request{
		Method:   http.MethodPost,
		Path:     loginPath,
		Body:     credentials,
		SkipAuth: true,
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "login request failed")
	}

	return &result, nil
}

func (repo *authRepository) Logout(ctx context.Context) error {
	err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodPost, Path: logoutPath, SkipAuth: true}, nil)
	if err != nil {
		return errors.Wrap(err, "logout request failed")
	}

	return nil
}

func (repo *authRepository) Register(ctx context.Context, registration *entity.Registration) (*entity.Profile, error) {
	var profile entity.Profile
	err := repo.client.Do(ctx, &httpclient.Request{
		Method:   http.MethodPost,
		Path:     registerPath,
		Body:     registration,
		SkipAuth: true,
	}, &profile)
	if err != nil {
		return nil, errors.Wrap(err, "registration failed")
	}

	return &profile, nil
}

func (repo *authRepository) ListUsers(ctx context.Context) ([]*entity.Profile, error) {
	var users []*entity.Profile
	if err := repo.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, Path: usersPath}, &users); err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}
