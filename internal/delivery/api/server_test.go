package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pricing/config"
	"pricing/internal/delivery/api/middleware"
	"pricing/internal/delivery/api/response"
	"pricing/internal/delivery/api/router"
	"pricing/internal/delivery/api/router/handler"
	"pricing/internal/delivery/api/validator"
	"pricing/internal/domain/entity"
	"pricing/internal/infra/auth"
	"pricing/internal/infra/backend"
	"pricing/internal/infra/eventbus"
	"pricing/internal/infra/httpclient"
	"pricing/internal/infra/querycache"
	"pricing/internal/infra/tokenstore"
	"pricing/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessToken = "access-A1"

// fakeBackend imitates the pricing API closely enough for the gateway.
type fakeBackend struct {
	expired atomic.Bool
	created atomic.Int32

	mu            sync.Mutex
	lastQuery     string
	lastRequestID string
	lastAuth      string
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastQuery = r.URL.RawQuery
	b.lastRequestID = r.Header.Get("X-Request-Id")
	b.lastAuth = r.Header.Get("Authorization")
}

func (b *fakeBackend) seen() (query, requestID, authorization string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastQuery, b.lastRequestID, b.lastAuth
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/auth/login/":
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "ana" || body.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"Invalid credentials"}`)

			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "R1", Path: "/auth/", HttpOnly: true})
		_, _ = io.WriteString(w, `{"access":"`+testAccessToken+`","user":{"id":2,"username":"ana","first_name":"Ana","last_name":"Lyst","email":"ana@example.com","profile":{"user_type":"analyst"}}}`)

		return
	case "/auth/refresh/":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid refresh token"}`)

		return
	}

	if b.expired.Load() || r.Header.Get("Authorization") != "Bearer "+testAccessToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Given token not valid for any token type"}`)

		return
	}
	b.record(r)

	switch {
	case r.URL.Path == "/api/products/" && r.URL.Query().Get("category") == "boom":
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"database is down"}`)
	case r.URL.Path == "/api/products/" && r.Method == http.MethodGet:
		if b.created.Load() > 0 {
			_, _ = io.WriteString(w, `[{"product_id":1,"name":"Widget","cost_price":"1.00","selling_price":"2.50","category":"Tools"},`+
				`{"product_id":2,"name":"Gadget","cost_price":"1.00","selling_price":"3.00","category":"Tools"}]`)

			return
		}
		_, _ = io.WriteString(w, `[{"product_id":1,"name":"Widget","cost_price":"1.00","selling_price":"2.50","category":"Tools"}]`)
	case r.URL.Path == "/api/products/" && r.Method == http.MethodPost:
		b.created.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"product_id":2,"name":"Gadget","cost_price":"1.00","selling_price":"3.00","category":"Tools"}`)
	case r.URL.Path == "/api/market-conditions/" && r.Method == http.MethodGet:
		_, _ = io.WriteString(w, `[{"condition_id":1,"name":"Holiday demand","category":"Tools","trend":"up","impact_factor":"1.20","start_date":"2000-01-01"},`+
			`{"condition_id":2,"name":"Old promo","category":"Tools","trend":"down","impact_factor":"0.90","start_date":"2000-01-01","end_date":"2000-12-31"}]`)
	case r.URL.Path == "/api/products/1/optimize/":
		_, _ = io.WriteString(w, `{"product_id":1,"product_name":"Widget","current_price":"2.50","optimized_price":"2.80"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not found."}`)
	}
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  response.MetaInfo   `json:"meta"`
}

type gatewayFixtures struct {
	echo    *echo.Echo
	backend *fakeBackend
}

func createTestGateway(t *testing.T) gatewayFixtures {
	t.Helper()

	fake := &fakeBackend{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	validate := validator.NewValidate()
	store := tokenstore.NewMemoryStore()
	bus := eventbus.New(logger)
	client, err := httpclient.NewClient(server.URL, store, bus, logger)
	require.NoError(t, err)
	cache := querycache.NewCache(0, logger)

	authRepo := backend.NewAuthRepository(client)
	productRepo := backend.NewProductRepository(client)

	sessionUC, err := impl.NewSessionService(impl.SessionParams{
		AuthRepo:   authRepo,
		TokenStore: store,
		Inspector:  auth.NewJWTInspector(),
		Events:     bus,
		Cookies:    client,
		Cache:      cache,
		Validate:   validate,
		Logger:     logger,
	})
	require.NoError(t, err)

	routerParams := router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			SessionUC: sessionUC,
			UserUC:    impl.NewUserService(authRepo, cache, logger),
			Logger:    logger,
		}),
		ProductHandler: handler.NewProductHandler(handler.ProductHandlerParams{
			ProductUC:      impl.NewProductService(productRepo, cache, validate, logger),
			HistoryUC:      impl.NewProductHistoryService(backend.NewProductHistoryRepository(client), cache, validate, logger),
			OptimizationUC: impl.NewOptimizationService(productRepo, backend.NewOptimizationLogRepository(client), cache, validate, logger),
			Logger:         logger,
		}),
		MarketConditionHandler: handler.NewMarketConditionHandler(handler.MarketConditionHandlerParams{
			MarketConditionUC: impl.NewMarketConditionService(backend.NewMarketConditionRepository(client), cache, validate, logger),
			Logger:            logger,
		}),
		CacheHandler:      handler.NewCacheHandler(impl.NewCacheService(cache, logger)),
		SessionMiddleware: middleware.NewSessionMiddleware(sessionUC),
	}

	return gatewayFixtures{
		echo:    NewEcho(cfg, logger, validate, routerParams),
		backend: fake,
	}
}

func (fx gatewayFixtures) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func (fx gatewayFixtures) login(t *testing.T) {
	t.Helper()

	rec, _ := fx.do(t, http.MethodPost, "/auth/login", `{"username":"ana","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestGateway_HealthEchoesRequestID(t *testing.T) {
	fx := createTestGateway(t)

	rec, env := fx.do(t, http.MethodGet, "/health", "", "X-Request-Id", "req-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-1", env.Meta.RequestID)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestGateway_GuardedRoutesRequireSession(t *testing.T) {
	fx := createTestGateway(t)

	for _, path := range []string{"/products", "/product-history", "/market-conditions", "/optimization-logs", "/users"} {
		rec, env := fx.do(t, http.MethodGet, path, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "NOT_AUTHENTICATED", env.Error.Code, path)
	}
}

func TestGateway_LoginFailureIsReported(t *testing.T) {
	fx := createTestGateway(t)

	rec, env := fx.do(t, http.MethodPost, "/auth/login", `{"username":"ana","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	rec, env = fx.do(t, http.MethodGet, "/auth/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session handler.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.False(t, session.IsAuthenticated)
	require.NotNil(t, session.Error)
	assert.Equal(t, "Invalid credentials", *session.Error)
}

func TestGateway_LoginThenBrowse(t *testing.T) {
	fx := createTestGateway(t)

	rec, env := fx.do(t, http.MethodPost, "/auth/login", `{"username":"ana","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), testAccessToken)

	var session handler.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, "ana", session.User.Username)

	rec, env = fx.do(t, http.MethodGet, "/products", "", "X-Request-Id", "req-42")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"name":"Widget"`)

	_, requestID, authorization := fx.backend.seen()
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "Bearer "+testAccessToken, authorization)
}

func TestGateway_InputErrors(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	t.Run("validation", func(t *testing.T) {
		rec, env := fx.do(t, http.MethodPost, "/products", `{"category":"Tools","selling_price":-1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		assert.Contains(t, env.Error.Details, "name: required")
		assert.Contains(t, env.Error.Details, "selling_price: gte=0")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, env := fx.do(t, http.MethodPost, "/products", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec, env := fx.do(t, http.MethodGet, "/products/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("bad filter", func(t *testing.T) {
		rec, env := fx.do(t, http.MethodGet, "/products?min_price=cheap", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Error.Details, "min_price")
	})
}

func TestGateway_OptimizeSendsOnlyExplicitParams(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, _ := fx.do(t, http.MethodGet, "/products/1/optimize", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	query, _, _ := fx.backend.seen()
	assert.Empty(t, query)

	rec, env := fx.do(t, http.MethodGet, "/products/1/optimize?consider_market=false", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	query, _, _ = fx.backend.seen()
	assert.Equal(t, "consider_market=false", query)
	assert.Contains(t, string(env.Data), `"optimized_price":2.8`)

	for _, bad := range []string{"margin_target=2", "price_sensitivity=0", "margin_target=high"} {
		rec, env = fx.do(t, http.MethodGet, "/products/1/optimize?"+bad, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		require.NotNil(t, env.Error, bad)
		assert.Equal(t, "INVALID_OPTIMIZATION_PARAMS", env.Error.Code, bad)
	}
}

func TestGateway_BackendFaultIsBadGateway(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, env := fx.do(t, http.MethodGet, "/products?category=boom", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SERVER_FAULT", env.Error.Code)
	assert.Empty(t, env.Error.Details)
}

func TestGateway_UnknownBackendResourceIsNotFound(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, env := fx.do(t, http.MethodGet, "/products/99/forecast", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestGateway_ExpiredSessionEndsAfterFailedRefresh(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)
	fx.backend.expired.Store(true)

	rec, env := fx.do(t, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHORIZATION_INVALID", env.Error.Code)

	_, env = fx.do(t, http.MethodGet, "/auth/session", "")
	var session handler.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.False(t, session.IsAuthenticated)

	rec, env = fx.do(t, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", env.Error.Code)
}

func TestGateway_LogoutEndsSession(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, _ := fx.do(t, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env := fx.do(t, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", env.Error.Code)
}

func TestGateway_RefetchAll(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, env := fx.do(t, http.MethodPost, "/cache/refetch", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"refetched":0}`, string(env.Data))
}

func TestGateway_MarketConditionsReportWhetherActive(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)

	rec, env := fx.do(t, http.MethodGet, "/market-conditions", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var conditions []handler.MarketConditionView
	require.NoError(t, json.Unmarshal(env.Data, &conditions))
	require.Len(t, conditions, 2)
	assert.Equal(t, "Holiday demand", conditions[0].Name)
	assert.True(t, conditions[0].Active)
	assert.Equal(t, "Old promo", conditions[1].Name)
	assert.False(t, conditions[1].Active)
}

// nextProductsEvent reads one "products" server-sent event.
func nextProductsEvent(t *testing.T, events *bufio.Reader) *entity.ProductListState {
	t.Helper()

	var data string
	for {
		line, err := events.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "" && data != "":
			var state entity.ProductListState
			require.NoError(t, json.Unmarshal([]byte(data), &state))

			return &state
		case strings.HasPrefix(line, "event: "):
			assert.Equal(t, "event: products", line)
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestGateway_WatchProductsStreamsRefetches(t *testing.T) {
	fx := createTestGateway(t)
	fx.login(t)
	server := httptest.NewServer(fx.echo)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/products/watch", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	events := bufio.NewReader(resp.Body)

	state := nextProductsEvent(t, events)
	assert.Equal(t, entity.QueryStatusSuccess, state.Status)
	require.Len(t, state.Products, 1)

	rec, _ := fx.do(t, http.MethodPost, "/products", `{"name":"Gadget","category":"Tools","cost_price":1,"selling_price":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A loading state may come first; it still carries the previous list.
	state = nextProductsEvent(t, events)
	for state.Status == entity.QueryStatusLoading {
		assert.Len(t, state.Products, 1)
		state = nextProductsEvent(t, events)
	}
	assert.Equal(t, entity.QueryStatusSuccess, state.Status)
	require.Len(t, state.Products, 2)
	assert.Equal(t, "Gadget", state.Products[1].Name)

	rec, _ = fx.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	state = nextProductsEvent(t, events)
	assert.Equal(t, entity.QueryStatusUninitialized, state.Status)
	assert.Empty(t, state.Products)

	_, err = events.ReadString('\n')
	assert.ErrorIs(t, err, io.EOF)
}
