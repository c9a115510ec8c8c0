package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue keys are compared by type AND value; a package-private
// type means no other package can read or shadow the userID we store, even
// if it guesses the string.
type contextKey string

const userIDKey contextKey = "userID"

// TokenCookie is the name of the HttpOnly session cookie.
const TokenCookie = "token"

// RequireAuth enforces authentication on protected routes.
//
// It accepts the JWT from either the "token" HttpOnly cookie (browser
// clients) or an "Authorization: Bearer ..." header (everything else),
// validates it, and stores the userID in the request context. Missing or
// invalid tokens end the chain with 401.
//
// The cookie is HttpOnly so page scripts can't read it — XSS can't
// exfiltrate the session.
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
// context. Returns ("", false) when the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// extractUserID pulls the JWT off the request and validates it.
// Cookie first (the browser path), then the Authorization header.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return tokens.Validate(c.Value)
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return tokens.Validate(after)
	}

	return "", http.ErrNoCookie
}
