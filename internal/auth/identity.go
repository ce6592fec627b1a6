package auth

import (
	"context"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// Error is a failure that carries a client-facing code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrorCode exposes the code to the GraphQL error formatter.
func (e *Error) ErrorCode() string { return e.Code }

// ErrUnauthorized is returned by RequireAuth when no identity is present.
var ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "Unauthorized: missing/invalid token"}

// Identify extracts and verifies the bearer token of r. It returns nil when the
// header is missing, malformed, or the token does not verify.
func (t *TokenManager) Identify(r *http.Request) *Identity {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return nil
	}
	claims, err := t.Parse(token)
	if err != nil {
		return nil
	}
	return &Identity{UserID: claims.UserID, Username: claims.Username, Email: claims.Email}
}

// RequireAuth fails with ErrUnauthorized when identity is nil.
func RequireAuth(identity *Identity) error {
	if identity == nil {
		return ErrUnauthorized
	}
	return nil
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(contextKey{}).(*Identity)
	return identity
}
