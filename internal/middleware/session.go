// Package middleware provides HTTP middlewares for session authentication
// and request logging.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/avolkovs/hwledger/internal/auth"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "hwledger_session"

// SetSessionCookie writes the session cookie holding token, expiring
// after ttl.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SessionAuth enforces session-cookie authentication.
//
// It verifies the signed token from the session cookie and, on success,
// stores the authenticated username in the request context so it can be
// used downstream as the acting user. Requests without a valid session
// are rejected with 401.
func SessionAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseToken(cookie.Value, secret)
			if err != nil {
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated username from the request
// context. Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
