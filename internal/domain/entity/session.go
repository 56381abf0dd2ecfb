package entity

import "time"

// SessionStatus is the lifecycle position of a console session.
type SessionStatus string

const (
	SessionAnonymous      SessionStatus = "anonymous"
	SessionAuthenticating SessionStatus = "authenticating"
	SessionAuthenticated  SessionStatus = "authenticated"
)

// Session is the in-memory authentication state of one console client.
type Session struct {
	User            *Profile      `json:"user"`
	Token           *string       `json:"-"`
	IsAuthenticated bool          `json:"is_authenticated"`
	Error           *string       `json:"error"`
	Status          SessionStatus `json:"status"`
	Loading         bool          `json:"loading"`
	TokenExpiresAt  *time.Time    `json:"token_expires_at,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the auth API response to a successful login.
type LoginResult struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh,omitempty"`
	User    *Profile `json:"user"`
}

// SessionEventType identifies what happened to a session.
type SessionEventType string

const (
	// SessionEventLogout asks the session holder to drop all authorized state.
	SessionEventLogout SessionEventType = "auth/logout"

	// SessionEventTokenRefreshed carries an access token renewed by the request layer.
	SessionEventTokenRefreshed SessionEventType = "auth/updateToken"
)

// SessionEvent is published by the request layer when the session changes underneath its holder.
type SessionEvent struct {
	Type       SessionEventType
	Reason     string
	Token      string
	OccurredAt time.Time
}
