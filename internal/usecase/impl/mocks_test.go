package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/service"
	"pricing/internal/infra/auth"
	"pricing/internal/infra/eventbus"
	"pricing/internal/infra/querycache"
	"pricing/internal/infra/tokenstore"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAuthRepository is a testify mock of repository.AuthRepository.
type mockAuthRepository struct {
	mock.Mock
}

func (m *mockAuthRepository) Login(ctx context.Context, credentials *entity.Credentials) (*entity.LoginResult, error) {
	args := m.Called(ctx, credentials)
	result, _ := args.Get(0).(*entity.LoginResult)

	return result, args.Error(1)
}

func (m *mockAuthRepository) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAuthRepository) Register(ctx context.Context, registration *entity.Registration) (*entity.Profile, error) {
	args := m.Called(ctx, registration)
	profile, _ := args.Get(0).(*entity.Profile)

	return profile, args.Error(1)
}

func (m *mockAuthRepository) ListUsers(ctx context.Context) ([]*entity.Profile, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.Profile)

	return users, args.Error(1)
}

// mockProductRepository is a testify mock of repository.ProductRepository.
type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) List(ctx context.Context, filter *entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *mockProductRepository) Get(ctx context.Context, id int64) (*entity.ProductDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*entity.ProductDetail)

	return detail, args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, input *entity.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, input *entity.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, id, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepository) DemandForecast(ctx context.Context, id int64) (*entity.DemandForecast, error) {
	args := m.Called(ctx, id)
	forecast, _ := args.Get(0).(*entity.DemandForecast)

	return forecast, args.Error(1)
}

func (m *mockProductRepository) OptimizePrice(ctx context.Context, id int64, params *entity.OptimizationParams) (*entity.PriceOptimization, error) {
	args := m.Called(ctx, id, params)
	result, _ := args.Get(0).(*entity.PriceOptimization)

	return result, args.Error(1)
}

func (m *mockProductRepository) BulkOptimizePrices(ctx context.Context, params *entity.OptimizationParams, filter *entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, params, filter)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *mockProductRepository) VisualizationData(ctx context.Context, id int64) (*entity.VisualizationData, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).(*entity.VisualizationData)

	return data, args.Error(1)
}

// mockProductHistoryRepository is a testify mock of repository.ProductHistoryRepository.
type mockProductHistoryRepository struct {
	mock.Mock
}

func (m *mockProductHistoryRepository) List(ctx context.Context, filter *entity.ProductHistoryFilter) ([]*entity.ProductHistory, error) {
	args := m.Called(ctx, filter)
	history, _ := args.Get(0).([]*entity.ProductHistory)

	return history, args.Error(1)
}

func (m *mockProductHistoryRepository) Create(ctx context.Context, input *entity.ProductHistoryInput) (*entity.ProductHistory, error) {
	args := m.Called(ctx, input)
	record, _ := args.Get(0).(*entity.ProductHistory)

	return record, args.Error(1)
}

func (m *mockProductHistoryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// mockMarketConditionRepository is a testify mock of repository.MarketConditionRepository.
type mockMarketConditionRepository struct {
	mock.Mock
}

func (m *mockMarketConditionRepository) List(ctx context.Context, filter *entity.MarketConditionFilter) ([]*entity.MarketCondition, error) {
	args := m.Called(ctx, filter)
	conditions, _ := args.Get(0).([]*entity.MarketCondition)

	return conditions, args.Error(1)
}

func (m *mockMarketConditionRepository) Create(ctx context.Context, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	args := m.Called(ctx, input)
	condition, _ := args.Get(0).(*entity.MarketCondition)

	return condition, args.Error(1)
}

func (m *mockMarketConditionRepository) Update(ctx context.Context, id int64, input *entity.MarketConditionInput) (*entity.MarketCondition, error) {
	args := m.Called(ctx, id, input)
	condition, _ := args.Get(0).(*entity.MarketCondition)

	return condition, args.Error(1)
}

func (m *mockMarketConditionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// mockOptimizationLogRepository is a testify mock of repository.OptimizationLogRepository.
type mockOptimizationLogRepository struct {
	mock.Mock
}

func (m *mockOptimizationLogRepository) List(ctx context.Context) ([]*entity.OptimizationLog, error) {
	args := m.Called(ctx)
	logs, _ := args.Get(0).([]*entity.OptimizationLog)

	return logs, args.Error(1)
}

// countingCookies records cookie resets.
type countingCookies struct {
	mu     sync.Mutex
	resets int
}

func (c *countingCookies) ResetCookies() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++

	return nil
}

func (c *countingCookies) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resets
}

// orderedStore records the order in which values are written.
type orderedStore struct {
	service.TokenStore

	mu     sync.Mutex
	writes []string
	// failUser, when set, is returned by SetUser.
	failUser error
}

func (s *orderedStore) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.writes = append(s.writes, "token")
	s.mu.Unlock()

	return s.TokenStore.SetToken(ctx, token)
}

func (s *orderedStore) SetUser(ctx context.Context, profile *entity.Profile) error {
	s.mu.Lock()
	s.writes = append(s.writes, "user")
	failUser := s.failUser
	s.mu.Unlock()

	if failUser != nil {
		return failUser
	}

	return s.TokenStore.SetUser(ctx, profile)
}

// sessionFixtures wires a session service to in-memory collaborators.
type sessionFixtures struct {
	service  *sessionService
	authRepo *mockAuthRepository
	store    *orderedStore
	bus      *eventbus.Bus
	cookies  *countingCookies
	cache    *querycache.Cache
}

func createTestSessionService(t *testing.T, seed func(store service.TokenStore)) sessionFixtures {
	t.Helper()

	store := &orderedStore{TokenStore: tokenstore.NewMemoryStore()}
	if seed != nil {
		seed(store.TokenStore)
	}

	fixtures := sessionFixtures{
		authRepo: &mockAuthRepository{},
		store:    store,
		bus:      eventbus.New(discardLogger()),
		cookies:  &countingCookies{},
		cache:    querycache.NewCache(0, discardLogger()),
	}

	srv, err := NewSessionService(SessionParams{
		AuthRepo:   fixtures.authRepo,
		TokenStore: store,
		Inspector:  auth.NewJWTInspector(),
		Events:     fixtures.bus,
		Cookies:    fixtures.cookies,
		Cache:      fixtures.cache,
		Validate:   validator.New(),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	fixtures.service = srv.(*sessionService)
	t.Cleanup(fixtures.service.Close)

	return fixtures
}

func seedSession(token string, user *entity.Profile) func(service.TokenStore) {
	return func(store service.TokenStore) {
		_ = store.SetToken(context.Background(), token)
		if user != nil {
			_ = store.SetUser(context.Background(), user)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
