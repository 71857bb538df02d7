package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api/middleware"
	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func validClaims(sub string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestNewJWTVerifierRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := middleware.NewJWTVerifier("short")
	assert.Error(t, err)
}

func TestJWTVerifier(t *testing.T) {
	t.Parallel()

	verifier, err := middleware.NewJWTVerifier(testSecret)
	require.NoError(t, err)
	userID := uuid.New()

	expired := validClaims(userID.String())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noExpiry := validClaims(userID.String())
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		want    uuid.UUID
		wantErr error
	}{
		{"valid", signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(userID.String())), userID, nil},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, expired), uuid.Nil, middleware.ErrExpiredToken},
		{"no expiry", signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry), uuid.Nil, middleware.ErrInvalidToken},
		{
			"wrong secret",
			signToken(t, "another-secret-that-is-at-least-32-chars", jwt.SigningMethodHS256, validClaims(userID.String())),
			uuid.Nil, middleware.ErrInvalidToken,
		},
		{
			"wrong algorithm",
			signToken(t, testSecret, jwt.SigningMethodHS512, validClaims(userID.String())),
			uuid.Nil, middleware.ErrInvalidToken,
		},
		{
			"subject is not a uuid",
			signToken(t, testSecret, jwt.SigningMethodHS256, validClaims("alice")),
			uuid.Nil, middleware.ErrInvalidToken,
		},
		{"garbage", "not.a.token", uuid.Nil, middleware.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := verifier.Verify(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	verifier, err := middleware.NewJWTVerifier(testSecret)
	require.NoError(t, err)
	auth := middleware.NewAuthMiddleware(verifier)
	userID := uuid.New()
	expired := validClaims(userID.String())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(userID.String())), http.StatusOK},
		{"lowercase scheme", "bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, validClaims(userID.String())), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, expired), http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, seen)
			} else {
				assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	var gotID string
	h := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = logger.RequestIDFromContext(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NotEmpty(t, gotID)
	assert.Equal(t, gotID, rec.Header().Get(middleware.RequestIDHeader))

	entry, ok := logger.FindLogEntry(t, buf, "inside handler")
	require.True(t, ok)
	assert.Equal(t, gotID, entry["request_id"])

	done, ok := logger.FindLogEntry(t, buf, "request completed")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusTeapot, done["status"])

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-id-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id-1", gotID)
}
