package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
)

const kindUnauthorized = "unauthorized"

// AuthMiddleware authenticates requests with a bearer token.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate rejects requests without a valid bearer token and stores the user
// id in the request context otherwise.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, kindUnauthorized, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, kindUnauthorized, "Invalid authorization format")
			return
		}

		userID, err := m.verifier.Verify(r.Context(), token)
		switch {
		case errors.Is(err, ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, kindUnauthorized, "Token expired")
			return
		case err != nil:
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, kindUnauthorized, "Invalid token", err,
				shared.WithElevatedLogLevel())
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("user_id", userID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
