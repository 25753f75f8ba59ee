// Package auth carries the store session token in an HMAC-signed cookie and
// exposes it to handlers through the request context.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	tokenCtxKey       = ctxKey("sessionToken")
)

// CreateSession sets a signed cookie with the session token.
func CreateSession(w http.ResponseWriter, token, secret string) {
	value := token + "." + sign(token, secret)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and returns the token.
func ParseSession(r *http.Request, secret string) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	token, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(sign(token, secret))) {
		return "", false
	}
	return token, true
}

func sign(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// WithToken stores the session token in the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext extracts the session token.
func TokenFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(tokenCtxKey)
	if v == nil {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}

// Middleware attaches a valid session token to the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := ParseSession(r, secret); ok {
				r = r.WithContext(WithToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}
