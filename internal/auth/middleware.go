package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CookieName is the HttpOnly cookie carrying the session token.
const CookieName = "gateway_session"

type contextKey string

const claimsContextKey contextKey = "admin"

// Middleware rejects requests without a valid session token. The token may
// arrive as a Bearer header or as the session cookie.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			unauthorized(w, "Please sign in.")
			return
		}
		claims, err := a.Validate(token)
		if err != nil {
			unauthorized(w, "Your session is invalid or has expired.")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromRequest extracts the session token, preferring the header.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// GetClaims returns the session claims stored by Middleware.
func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// SessionCookie builds the cookie for a freshly issued token. An empty token
// with a zero expiry clears the cookie.
func SessionCookie(token string, expires time.Time, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
		return c
	}
	c.Expires = expires
	return c
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
