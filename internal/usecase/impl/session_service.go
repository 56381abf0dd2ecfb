// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "pricing/internal/delivery/context"
	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/domain/repository"
	"pricing/internal/domain/service"
	"pricing/internal/infra/querycache"
	"pricing/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SessionParams defines the dependencies of the session service
type SessionParams struct {
	fx.In

	Lifecycle  fx.Lifecycle `optional:"true"`
	AuthRepo   repository.AuthRepository
	TokenStore service.TokenStore
	Inspector  service.TokenInspector
	Events     service.EventSubscriber
	Cookies    service.CookieResetter
	Cache      *querycache.Cache
	Validate   *validator.Validate
	Logger     *slog.Logger
}

// sessionService implements the SessionUsecase interface.
// The in-memory state is authoritative; the token store mirrors it.
type sessionService struct {
	mu    sync.RWMutex
	state entity.Session

	authRepo    repository.AuthRepository
	tokens      service.TokenStore
	inspector   service.TokenInspector
	cookies     service.CookieResetter
	cache       *querycache.Cache
	validate    *validator.Validate
	logger      *slog.Logger
	unsubscribe func()
}

// NewSessionService restores the session from the token store and starts
// listening for session events from the request layer.
func NewSessionService(params SessionParams) (usecase.SessionUsecase, error) {
	srv := &sessionService{
		state:     anonymousSession(nil),
		authRepo:  params.AuthRepo,
		tokens:    params.TokenStore,
		inspector: params.Inspector,
		cookies:   params.Cookies,
		cache:     params.Cache,
		validate:  params.Validate,
		logger:    params.Logger,
	}

	if err := srv.restore(context.Background()); err != nil {
		return nil, err
	}

	srv.unsubscribe = params.Events.SubscribeSessionEvents(srv.handleEvent)
	if params.Lifecycle != nil {
		params.Lifecycle.Append(fx.StopHook(srv.Close))
	}

	return srv, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Close stops listening for session events.
func (srv *sessionService) Close() {
	srv.unsubscribe()
}

func (srv *sessionService) restore(ctx context.Context) error {
	token, hasToken, err := srv.tokens.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to restore access token")
	}
	user, hasUser, err := srv.tokens.User(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to restore user")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if hasToken && hasUser {
		srv.state = srv.authenticatedSession(token, user)
		srv.log(ctx).Info("Restored session", slog.String("username", user.Username))
	}

	return nil
}

func anonymousSession(loginErr *string) entity.Session {
	return entity.Session{
		Status: entity.SessionAnonymous,
		Error:  loginErr,
	}
}

func (srv *sessionService) authenticatedSession(token string, user *entity.Profile) entity.Session {
	session := entity.Session{
		User:            user,
		Token:           &token,
		IsAuthenticated: true,
		Status:          entity.SessionAuthenticated,
	}
	srv.applyClaims(&session, token)

	return session
}

// applyClaims fills display-only details decoded from the token, when it is a JWT.
func (srv *sessionService) applyClaims(session *entity.Session, token string) {
	claims, err := srv.inspector.Inspect(token)
	if err != nil {
		session.TokenExpiresAt = nil

		return
	}
	session.TokenExpiresAt = claims.ExpiresAt
}

// Current returns a snapshot of the session.
func (srv *sessionService) Current(_ context.Context) *entity.Session {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return copySession(&srv.state)
}

// RequireAuthenticated returns the session or ErrNotAuthenticated.
func (srv *sessionService) RequireAuthenticated(ctx context.Context) (*entity.Session, error) {
	session := srv.Current(ctx)
	if !session.IsAuthenticated {
		return nil, domainerrors.ErrNotAuthenticated
	}

	return session, nil
}

// Login moves the session through authenticating to authenticated, or back to anonymous with an error.
func (srv *sessionService) Login(ctx context.Context, credentials *entity.Credentials) (*entity.Session, error) {
	if err := validateInput(ctx, srv.validate, credentials); err != nil {
		return nil, err
	}

	srv.mu.Lock()
	if srv.state.Status == entity.SessionAuthenticating {
		srv.mu.Unlock()

		return nil, domainerrors.ErrLoginInProgress
	}
	srv.state.Status = entity.SessionAuthenticating
	srv.state.Loading = true
	srv.state.Error = nil
	srv.mu.Unlock()

	srv.log(ctx).Info("Signing in", slog.String("username", credentials.Username))

	tokenPersisted := false
	result, err := querycache.Mutate(ctx, srv.cache, opLogin, func(ctx context.Context) (*entity.LoginResult, error) {
		result, err := srv.authRepo.Login(ctx, credentials)
		if err != nil {
			return nil, err
		}
		if result.Access == "" || result.User == nil {
			return nil, domainerrors.ErrMalformedResponse.WrapMessage("login response is missing the token or the user")
		}

		// Token first, then profile.
		if err := srv.tokens.SetToken(ctx, result.Access); err != nil {
			return nil, errors.Wrap(err, "failed to persist access token")
		}
		tokenPersisted = true
		if err := srv.tokens.SetUser(ctx, result.User); err != nil {
			return nil, errors.Wrap(err, "failed to persist user")
		}

		return result, nil
	})
	if err != nil {
		srv.loginFailed(ctx, err, tokenPersisted)

		return nil, loginError(err)
	}

	srv.mu.Lock()
	srv.state = srv.authenticatedSession(result.Access, result.User)
	session := copySession(&srv.state)
	srv.mu.Unlock()

	srv.log(ctx).Info("Signed in",
		slog.String("username", result.User.Username),
		slog.String("user_type", result.User.UserType.String()),
	)

	return session, nil
}

// loginFailed records the failure message and drops whatever session existed before,
// including a token this attempt already persisted.
func (srv *sessionService) loginFailed(ctx context.Context, err error, tokenPersisted bool) {
	message := loginFailureMessage(err)

	srv.mu.Lock()
	wasAuthenticated := srv.state.Token != nil
	srv.state = anonymousSession(&message)
	srv.mu.Unlock()

	srv.log(ctx).Warn("Sign in failed", slog.String("reason", message), slog.Any("error", err))

	if wasAuthenticated || tokenPersisted {
		srv.clear(ctx, "login failed")
	}
}

// loginFailureMessage prefers the backend's own explanation.
func loginFailureMessage(err error) string {
	var remote *domainerrors.RemoteError
	if errors.As(err, &remote) {
		if msg := remote.RemoteMessage(); msg != "" {
			return msg
		}
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return "Login failed"
}

// loginError reports rejected credentials as ErrInvalidCredentials and keeps every other failure.
func loginError(err error) error {
	var remote *domainerrors.RemoteError
	if errors.As(err, &remote) && remote.StatusCode >= 400 && remote.StatusCode < 500 {
		return domainerrors.ErrInvalidCredentials.WithDetails(loginFailureMessage(err))
	}

	return err
}

// Logout ends the session locally and tells the backend on a best-effort basis.
func (srv *sessionService) Logout(ctx context.Context) error {
	srv.mu.Lock()
	username := ""
	if srv.state.User != nil {
		username = srv.state.User.Username
	}
	srv.state = anonymousSession(nil)
	srv.mu.Unlock()

	srv.log(ctx).Info("Signing out", slog.String("username", username))

	if err := srv.authRepo.Logout(ctx); err != nil {
		srv.log(ctx).Debug("Backend logout failed, continuing", slog.Any("error", err))
	}

	return srv.clear(ctx, "logout")
}

// Register validates and submits a new account.
func (srv *sessionService) Register(ctx context.Context, registration *entity.Registration) (*entity.Profile, error) {
	if err := validateInput(ctx, srv.validate, registration); err != nil {
		return nil, err
	}

	profile, err := querycache.Mutate(ctx, srv.cache, opRegister, func(ctx context.Context) (*entity.Profile, error) {
		return srv.authRepo.Register(ctx, registration)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", registration.Username), slog.Any("error", err))

		return nil, err
	}

	return profile, nil
}

func (srv *sessionService) handleEvent(ctx context.Context, event *entity.SessionEvent) {
	switch event.Type {
	case entity.SessionEventLogout:
		srv.mu.Lock()
		srv.state = anonymousSession(nil)
		srv.mu.Unlock()

		srv.log(ctx).Warn("Session ended by request layer", slog.String("reason", event.Reason))
		_ = srv.clear(ctx, event.Reason)
	case entity.SessionEventTokenRefreshed:
		srv.mu.Lock()
		defer srv.mu.Unlock()

		if srv.state.IsAuthenticated {
			token := event.Token
			srv.state.Token = &token
			srv.applyClaims(&srv.state, token)
		}
	}
}

// clear empties the token store, every cookie and the whole query cache.
func (srv *sessionService) clear(ctx context.Context, reason string) error {
	srv.cache.Reset(ctx)

	var errs []error
	if err := srv.tokens.Clear(ctx); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to clear token store"))
	}
	if err := srv.cookies.ResetCookies(); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to reset cookies"))
	}

	if len(errs) > 0 {
		srv.log(ctx).Error("Failed to clear session", slog.String("reason", reason), slog.Any("errors", errs))

		return errs[0]
	}

	return nil
}

func copySession(s *entity.Session) *entity.Session {
	session := *s
	if s.User != nil {
		user := *s.User
		session.User = &user
	}

	return &session
}
