// Package identity resolves the caller of an operation. Transports verify a
// credential once and store the resulting user id in the request context;
// services only ever ask the Provider.
package identity

import (
	"context"
	"net/http"
	"strings"

	"household-shopping/internal/apperr"
)

// Provider answers who is calling. ok is false when nobody is signed in.
type Provider interface {
	CurrentUserID(ctx context.Context) (userID string, ok bool)
}

// Verifier turns a bearer credential into a user id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type contextKey struct{}

// WithUserID returns a context carrying userID as the caller.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// FromContext returns the caller stored by WithUserID.
func FromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}

// ContextProvider reads the caller from the context.
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	return FromContext(ctx)
}

// Require returns the caller or an Unauthenticated error attributed to op.
func Require(ctx context.Context, p Provider, op string) (string, error) {
	userID, ok := p.CurrentUserID(ctx)
	if !ok {
		return "", apperr.Unauthenticated(op)
	}
	return userID, nil
}

// Middleware verifies "Authorization: Bearer <token>" and stores the user id
// in the request context. Requests without the header pass through
// anonymously so public routes keep working; owner-scoped operations then
// fail with Unauthenticated.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				http.Error(w, "malformed authorization header", http.StatusUnauthorized)
				return
			}
			userID, err := v.Verify(r.Context(), strings.TrimSpace(token))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
