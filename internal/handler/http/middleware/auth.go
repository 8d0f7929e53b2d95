package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-presensi-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type ctxKey int

const userIDKey ctxKey = iota

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			userID, err := jwt.UserIDFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		}
		return http.HandlerFunc(hfn)
	}
}

// SSEAuth accepts the short-lived SSE token from the query string, since
// EventSource cannot send an Authorization header.
func SSEAuth(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
			if err != nil {
				response.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// UserID returns the authenticated caller set by AuthRequired or SSEAuth.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithUserID is used by tests that bypass token verification.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
