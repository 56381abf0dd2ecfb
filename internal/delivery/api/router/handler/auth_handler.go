package handler

import (
	"log/slog"
	"time"

	"pricing/internal/delivery/api/response"
	"pricing/internal/domain/entity"
	"pricing/internal/usecase"
	"pricing/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	UserUC    usecase.UserUsecase
	Logger    *slog.Logger
}

// AuthHandler exposes the console session.
type AuthHandler struct {
	sessionUC usecase.SessionUsecase
	userUC    usecase.UserUsecase
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		sessionUC: params.SessionUC,
		userUC:    params.UserUC,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// SessionView is the session as shown to the console. The token itself is never exposed.
type SessionView struct {
	Status          entity.SessionStatus `json:"status"`
	IsAuthenticated bool                 `json:"is_authenticated"`
	Loading         bool                 `json:"loading"`
	User            *entity.Profile      `json:"user"`
	Error           *string              `json:"error"`
	TokenExpiresAt  *time.Time           `json:"token_expires_at,omitempty"`
	ExpiresIn       string               `json:"expires_in,omitempty"`
}

func (h *AuthHandler) view(session *entity.Session) *SessionView {
	view := &SessionView{
		Status:          session.Status,
		IsAuthenticated: session.IsAuthenticated,
		Loading:         session.Loading,
		User:            session.User,
		Error:           session.Error,
		TokenExpiresAt:  session.TokenExpiresAt,
	}
	if session.TokenExpiresAt != nil {
		view.ExpiresIn = util.FormatDuration(session.TokenExpiresAt.Sub(h.now()))
	}

	return view
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var credentials entity.Credentials
	if err := bindBody(c, &credentials); err != nil {
		return err
	}

	session, err := h.sessionUC.Login(c.Request().Context(), &credentials)
	if err != nil {
		return err
	}

	return response.OK(c, h.view(session))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessionUC.Logout(c.Request().Context()); err != nil {
		return err
	}

	return response.NoContent(c)
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c echo.Context) error {
	return response.OK(c, h.view(h.sessionUC.Current(c.Request().Context())))
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var registration entity.Registration
	if err := bindBody(c, &registration); err != nil {
		return err
	}

	profile, err := h.sessionUC.Register(c.Request().Context(), &registration)
	if err != nil {
		return err
	}

	return response.Created(c, profile)
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.userUC.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return response.OK(c, users)
}
