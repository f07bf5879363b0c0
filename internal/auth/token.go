// Package auth provides the identity/token and password-hashing
// collaborators: HMAC-signed JWTs carrying the caller's username and admin
// flag, and bcrypt for credentials.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jobly/internal/apperr"
)

// Identity is the structured identity yielded by a verified token.
type Identity struct {
	Username string
	IsAdmin  bool
}

type tokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns a TokenIssuer. ttl bounds token lifetime; zero
// means tokens never expire (only sensible in tests).
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity.
func (t *TokenIssuer) Issue(username string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a bearer token. Any failure — malformed,
// tampered, expired, wrong algorithm — is Unauthenticated; the caller is
// anonymous as far as the gate is concerned.
func (t *TokenIssuer) Verify(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, apperr.Unauthenticated("Invalid token")
	}
	return Identity{Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}
