package impl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/infra/auth"
	"pricing/internal/infra/backend"
	"pricing/internal/infra/eventbus"
	"pricing/internal/infra/httpclient"
	"pricing/internal/infra/querycache"
	"pricing/internal/infra/tokenstore"
	"pricing/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// remoteFixtures runs the session and product services against an httptest backend.
type remoteFixtures struct {
	session    usecase.SessionUsecase
	products   usecase.ProductUsecase
	conditions usecase.MarketConditionUsecase
	cache      *querycache.Cache
	store      *orderedStore
}

func createRemoteFixtures(t *testing.T, handler http.HandlerFunc) remoteFixtures {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ctx := context.Background()
	store := &orderedStore{TokenStore: tokenstore.NewMemoryStore()}
	require.NoError(t, store.SetToken(ctx, "T1"))
	require.NoError(t, store.SetUser(ctx, testProfile()))

	bus := eventbus.New(discardLogger())
	client, err := httpclient.NewClient(server.URL, store, bus, discardLogger())
	require.NoError(t, err)

	cache := querycache.NewCache(0, discardLogger())
	validate := validator.New()

	session, err := NewSessionService(SessionParams{
		AuthRepo:   backend.NewAuthRepository(client),
		TokenStore: store,
		Inspector:  auth.NewJWTInspector(),
		Events:     bus,
		Cookies:    client,
		Cache:      cache,
		Validate:   validate,
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	return remoteFixtures{
		session:    session,
		products:   NewProductService(backend.NewProductRepository(client), cache, validate, discardLogger()),
		conditions: NewMarketConditionService(backend.NewMarketConditionRepository(client), cache, validate, discardLogger()),
		cache:      cache,
		store:      store,
	}
}

func TestSession_ExpiredTokenWithFailedRefreshEndsSession(t *testing.T) {
	var refreshes atomic.Int32
	fx := createRemoteFixtures(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/market-conditions/":
			_, _ = w.Write([]byte(`[]`))
		case httpclient.RefreshPath:
			refreshes.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid refresh token"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		}
	})
	ctx := context.Background()

	require.True(t, fx.session.Current(ctx).IsAuthenticated)
	_, err := fx.conditions.ListMarketConditions(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, fx.cache.Len())

	_, err = fx.products.ListProducts(ctx, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAuthorizationExpired)
	assert.Equal(t, int32(1), refreshes.Load())

	current := fx.session.Current(ctx)
	assert.False(t, current.IsAuthenticated)
	assert.Nil(t, current.Token)
	assert.Nil(t, current.User)

	_, hasToken, err := fx.store.Token(ctx)
	require.NoError(t, err)
	assert.False(t, hasToken)
	_, hasUser, err := fx.store.User(ctx)
	require.NoError(t, err)
	assert.False(t, hasUser)
	assert.Zero(t, fx.cache.Len())
}

func TestSession_ExpiredTokenIsRefreshedTransparently(t *testing.T) {
	fx := createRemoteFixtures(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == httpclient.RefreshPath:
			_, _ = w.Write([]byte(`{"access":"T2"}`))
		case r.Header.Get("Authorization") == "Bearer T2":
			_, _ = w.Write([]byte(`[{"product_id":1,"name":"Widget","cost_price":"1.00","selling_price":"2.50","category":"Tools"}]`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	ctx := context.Background()

	products, err := fx.products.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	current := fx.session.Current(ctx)
	assert.True(t, current.IsAuthenticated)
	assert.Equal(t, "T2", *current.Token)

	stored, _, err := fx.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T2", stored)
}

func TestSession_LoginOverHTTP(t *testing.T) {
	fx := createRemoteFixtures(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "/auth/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "R1", Path: "/auth/", HttpOnly: true})
		_, _ = w.Write([]byte(`{"access":"T9","user":{"id":2,"username":"ana","first_name":"Ana","last_name":"Lyst","profile":{"user_type":"analyst"}}}`))
	})
	ctx := context.Background()

	session, err := fx.session.Login(ctx, &entity.Credentials{Username: "ana", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, "T9", *session.Token)
	assert.Equal(t, entity.UserTypeAnalyst, session.User.UserType)
}
