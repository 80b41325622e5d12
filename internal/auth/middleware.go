package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/formhive/formhive/internal/policy"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Resolve derives the caller identity from the session cookie or a
// Bearer header on every request. An absent or invalid credential
// resolves to the anonymous caller without failing the request; each
// handler decides whether anonymity is acceptable.
func Resolve(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			caller := policy.Caller{
				Authenticated: true,
				UserID:        claims.UserID,
				Email:         claims.Email,
			}
			ctx := context.WithValue(r.Context(), callerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. Must run after Resolve.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetCaller(r.Context()).Authenticated {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCaller returns the resolved caller, or the anonymous caller when
// the request carried no valid session.
func GetCaller(ctx context.Context) policy.Caller {
	caller, _ := ctx.Value(callerContextKey).(policy.Caller)
	return caller
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
