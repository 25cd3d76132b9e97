package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// AuthMiddleware verifies bearer tokens and attaches the caller's claims
// to the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, apperrors.New(apperrors.AuthRequired, "Authentication token required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.WriteError(w, apperrors.New(apperrors.AuthRequired, "Invalid Authorization header format"))
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.WriteError(w, apperrors.New(apperrors.AuthInvalid, "Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware ensures that the caller has the admin role.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || claims.Role != "admin" {
			utils.WriteError(w, apperrors.New(apperrors.Forbidden, "Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CallerClaims returns the authenticated caller's claims, if present.
func CallerClaims(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
	return claims, ok
}
