package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// errNoToken marks a request that never presented a bearer token, as
// opposed to one whose token failed validation.
var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type (instead of a plain string) means only this
// package can read or write the userID value in a request context — no
// accidental collisions with other packages' keys.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on every snippet route.
//
// It expects an `Authorization: Bearer <token>` header. If the header is
// absent, malformed, or the token fails signature/expiry verification, the
// request stops here with 401 — the handler never runs. On success the
// userID from the token's subject claim is stored in the request context.
//
// The token is trusted as signed: no database lookup happens here, so a
// deleted user's outstanding token keeps working until it expires.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) when no valid token was presented — which on
// a RequireAuth-protected route should never happen.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID pulls the bearer token from the Authorization header and
// validates it. "Bearer" matching is case-insensitive per RFC 6750.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoToken
	}

	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errNoToken
	}

	return tokens.Validate(header[len(prefix):])
}
