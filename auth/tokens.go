package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/config"
)

// TokenIssuer creates and verifies signed, time-limited bearer tokens. The
// claim set is minimal: subject (username) plus issue and expiry timestamps,
// signed with the configured shared secret and HMAC algorithm.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	// defaultTTL is applied when Issue is called without a usable TTL.
	defaultTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the auth configuration. The
// algorithm name is validated at config load, so GetSigningMethod cannot
// return nil here.
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.JWTSecret),
		method:     jwt.GetSigningMethod(cfg.Algorithm),
		defaultTTL: cfg.DefaultTokenDuration,
	}
}

// Issue produces a signed token for subject expiring at now + ttl. A
// non-positive ttl falls back to the configured default lifetime.
func (t *TokenIssuer) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = t.defaultTTL
	}
	now := time.Now()
	expiry := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiry, nil
}

// Verify parses tokenString and returns its subject. It fails with an
// AuthError when the signature is invalid, the token is malformed or
// expired, or the subject claim is absent.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", apperror.NewAuthError("Could not validate credentials", err)
	}
	if !token.Valid {
		return "", apperror.NewAuthError("Could not validate credentials", errors.New("token is invalid"))
	}
	if claims.Subject == "" {
		return "", apperror.NewAuthError("Could not validate credentials", errors.New("missing subject claim"))
	}
	return claims.Subject, nil
}
