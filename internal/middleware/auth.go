package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dispatch-app/backend/internal/auth"
	"dispatch-app/backend/internal/common"
)

// TokenValidator is satisfied by auth.TokenService.
type TokenValidator interface {
	Validate(token string) (*auth.TokenClaims, error)
}

// AuthMiddleware requires a valid bearer token on every request.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, time.Now(), errors.New("Unauthorized. Missing bearer token"), "", http.StatusUnauthorized)
				return
			}

			claims, err := validator.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondError(w, time.Now(), errors.New("Unauthorized. Invalid token"), "", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
