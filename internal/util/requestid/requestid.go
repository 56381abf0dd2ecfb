// Package requestid carries the correlation ID shared by the gateway and the backend client.
package requestid

import "context"

// Header is the HTTP header the ID travels in, inbound and outbound.
const Header = "X-Request-Id"

type contextKey struct{}

// FromContext returns the request ID, or "" when none was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}

	return ""
}

// WithContext returns a new context carrying id.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}
