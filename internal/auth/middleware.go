package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated identity.
type contextKey string

const usernameKey contextKey = "username"

// Authenticate resolves the bearer token into an authenticated principal.
//
// It runs once per request, before any handler:
//   - no Authorization header → request continues unauthenticated
//   - "Bearer <token>" with a valid signature and expiry → the subject
//     username is attached to the request context
//   - invalid or expired token → request continues unauthenticated
//
// It never short-circuits with an error response itself; whether an
// unauthenticated request is acceptable is decided downstream (RequireUser
// on protected route groups). Stateless — no session, no revocation list.
func Authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if username, err := tokens.Validate(token); err == nil {
					ctx := context.WithValue(r.Context(), usernameKey, username)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects requests that carry no authenticated identity with
// 401. Mount it on route groups that need a user; Authenticate must run
// earlier in the chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UsernameFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UsernameFromContext retrieves the authenticated username from the request
// context. Returns ("", false) for anonymous requests.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// WithUsername returns a context carrying an authenticated username.
// Exists for handler tests, which have no middleware chain to populate it.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
