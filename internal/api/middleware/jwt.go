package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
)

// Token verification errors.
var (
	// ErrInvalidToken indicates the token is malformed, badly signed or has no usable subject.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")
)

// TokenVerifier turns a bearer token into the id of the user it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// JWTVerifier verifies HS256 tokens issued by the identity service. The user id
// is the "sub" claim.
type JWTVerifier struct {
	key      []byte
	leeway   time.Duration
	timeFunc func() time.Time
}

var _ TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier for secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	return &JWTVerifier{
		key:      []byte(secret),
		leeway:   2 * time.Minute,
		timeFunc: time.Now,
	}, nil
}

// Verify implements TokenVerifier.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (uuid.UUID, error) {
	log := logger.FromContext(ctx)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("token validation failed: expired")
			return uuid.Nil, ErrExpiredToken
		}
		log.Debug("token validation failed", "error_type", fmt.Sprintf("%T", err))
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		log.Debug("token validation failed: subject is not a user id")
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
