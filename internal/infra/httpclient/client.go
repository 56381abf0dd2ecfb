// Package httpclient is the authenticated request layer in front of the pricing backend.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"pricing/config"
	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/domain/service"
	"pricing/internal/util/requestid"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const (
	// RefreshPath renews the access token from the refresh cookie.
	RefreshPath = "/auth/refresh/"

	maxResponseBytes = 8 << 20
	refreshFlightKey = "refresh"
)

// Request describes one call to the backend. Path is relative to the base URL.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	SkipAuth bool
}

// Client attaches the stored access token to every request and renews it once on a 401.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     service.TokenStore
	publisher  service.EventPublisher
	logger     *slog.Logger

	coalesceRefresh bool
	refreshGroup    singleflight.Group

	jarMu sync.Mutex
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client. Its Jar is replaced when nil.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRefreshCoalescing makes concurrent 401 responses share one refresh call.
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesceRefresh = enabled
	}
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config     *config.Config
	TokenStore service.TokenStore
	Publisher  service.EventPublisher
	Logger     *slog.Logger
}

// New builds the Client from configuration.
func New(params Params) (*Client, error) {
	return NewClient(
		params.Config.Backend.BaseURL,
		params.TokenStore,
		params.Publisher,
		params.Logger,
		WithHTTPClient(&http.Client{Timeout: params.Config.Backend.Timeout}),
		WithRefreshCoalescing(params.Config.Auth.CoalesceRefresh),
	)
}

// NewClient creates a Client for baseURL.
func NewClient(
	baseURL string,
	tokens service.TokenStore,
	publisher service.EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backend base URL %q", baseURL)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("backend base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{},
		tokens:     tokens,
		publisher:  publisher,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := newCookieJar()
		if err != nil {
			return nil, err
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

func newCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	return jar, nil
}

// ResetCookies forgets every cookie, including the refresh cookie.
func (c *Client) ResetCookies() error {
	jar, err := newCookieJar()
	if err != nil {
		return err
	}

	c.jarMu.Lock()
	c.httpClient.Jar = jar
	c.jarMu.Unlock()

	return nil
}

// Do sends req and decodes a successful JSON body into out, which may be nil.
//
// A 401 on a request that does not skip auth triggers exactly one refresh. When the
// refresh yields a new token it is persisted and the request is sent once more; that
// second outcome is returned as-is. When the refresh fails a logout event is published
// and the original 401 is returned. A caller whose context ends during the refresh gets
// its context error and the session is left alone. Any other failure is returned unchanged.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	token, err := c.currentToken(ctx, req)
	if err != nil {
		return err
	}

	body, err := c.send(ctx, req, token)
	if err == nil {
		return decode(req, body, out)
	}

	var remote *domainerrors.RemoteError
	if req.SkipAuth || !errors.As(err, &remote) || remote.StatusCode != http.StatusUnauthorized {
		return err
	}

	newToken, refreshErr := c.refresh(ctx)
	if refreshErr != nil {
		// A caller that went away did not see the refresh fail.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "%s %s", req.Method, req.Path)
		}

		c.logger.WarnContext(ctx, "Access token refresh failed, ending session",
			slog.String("path", req.Path),
			slog.Any("error", refreshErr),
		)
		c.publishLogout(ctx, refreshErr)

		return err
	}

	body, err = c.send(ctx, req, newToken)
	if err != nil {
		return err
	}

	return decode(req, body, out)
}

func (c *Client) currentToken(ctx context.Context, req *Request) (string, error) {
	if req.SkipAuth {
		return "", nil
	}

	token, ok, err := c.tokens.Token(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to read access token")
	}
	if !ok {
		return "", nil
	}

	return token, nil
}

// refresh renews the access token and persists it before returning.
//
// A coalesced refresh runs detached from the caller that started it, so callers
// joining it are not failed by that caller's cancellation. Each caller still stops
// waiting when its own context ends.
func (c *Client) refresh(ctx context.Context) (string, error) {
	if !c.coalesceRefresh {
		return c.doRefresh(ctx)
	}

	results := c.refreshGroup.DoChan(refreshFlightKey, func() (any, error) {
		return c.doRefresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", errors.WithStack(ctx.Err())
	case res := <-results:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.DebugContext(ctx, "Joined in-flight token refresh")
		}
		token, _ := res.Val.(string)

		return token, nil
	}
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	req := &Request{Method: http.MethodPost, Path: RefreshPath, SkipAuth: true}

	body, err := c.send(ctx, req, "")
	if err != nil {
		return "", err
	}

	var payload struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", domainerrors.ErrMalformedResponse.WrapMessage("refresh response is not JSON")
	}
	if payload.Access == "" {
		return "", domainerrors.ErrMalformedResponse.WrapMessage("refresh response has no access token")
	}

	if err := c.tokens.SetToken(ctx, payload.Access); err != nil {
		// The retry still carries the new token; the next start falls back to a refresh.
		c.logger.ErrorContext(ctx, "Failed to persist refreshed access token", slog.Any("error", err))
	}

	c.publish(ctx, &entity.SessionEvent{
		Type:       entity.SessionEventTokenRefreshed,
		Reason:     "access token refreshed",
		Token:      payload.Access,
		OccurredAt: time.Now(),
	})

	return payload.Access, nil
}

func (c *Client) publishLogout(ctx context.Context, cause error) {
	c.publish(ctx, &entity.SessionEvent{
		Type:       entity.SessionEventLogout,
		Reason:     cause.Error(),
		OccurredAt: time.Now(),
	})
}

func (c *Client) publish(ctx context.Context, event *entity.SessionEvent) {
	if err := c.publisher.PublishSessionEvent(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "Failed to publish session event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}

// send performs one HTTP exchange. Non-2xx responses become *RemoteError and
// transport failures become *NetworkError.
func (c *Client) send(ctx context.Context, req *Request, token string) ([]byte, error) {
	httpReq, err := c.newHTTPRequest(ctx, req, token)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "%s %s", req.Method, req.Path)
		}
		c.logger.WarnContext(ctx, "Backend unreachable",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Any("error", err),
		)

		return nil, &domainerrors.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domainerrors.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}

	c.logger.DebugContext(ctx, "Backend request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
		slog.Bool("authorized", token != ""),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domainerrors.NewRemoteError(req.Method, req.Path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) do(httpReq *http.Request) (*http.Response, error) {
	c.jarMu.Lock()
	httpClient := *c.httpClient
	c.jarMu.Unlock()

	return httpClient.Do(httpReq)
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request, token string) (*http.Request, error) {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	target.RawPath = ""
	target.RawQuery = ""
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s %s body", req.Method, req.Path)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s %s", req.Method, req.Path)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(requestid.Header, requestID)

	return httpReq, nil
}

func decode(req *Request, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(domainerrors.ErrMalformedResponse, "%s %s: %v", req.Method, req.Path, err)
	}

	return nil
}
