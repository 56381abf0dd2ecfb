package middleware

import (
	"log/slog"

	deliverycontext "pricing/internal/delivery/context"
	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionMiddleware guards routes that need a signed-in console session.
type SessionMiddleware struct {
	sessionUC usecase.SessionUsecase
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessionUC usecase.SessionUsecase) *SessionMiddleware {
	return &SessionMiddleware{sessionUC: sessionUC}
}

// RequireSession rejects the request with NOT_AUTHENTICATED unless the session is authenticated.
// The session snapshot is stored on the context and its user is added to the request logger.
// An expired authorization that ended the session is reported as AUTHORIZATION_INVALID.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		session, err := m.sessionUC.RequireAuthenticated(ctx)
		if err != nil {
			return err
		}
		deliverycontext.SetSession(c, session)

		if session.User != nil {
			logger := deliverycontext.GetLoggerOrDefault(ctx, slog.Default()).
				With(slog.String("username", session.User.Username))
			ctx = deliverycontext.WithLogger(ctx, logger)
			c.SetRequest(c.Request().WithContext(ctx))
		}

		err = next(c)
		if errors.Is(err, domainerrors.ErrAuthorizationExpired) && !m.sessionUC.Current(ctx).IsAuthenticated {
			deliverycontext.GetLoggerOrDefault(ctx, slog.Default()).Warn("Session ended while serving request", slog.Any("error", err))

			return domainerrors.ErrAuthorizationInvalid
		}

		return err
	}
}
