// Package auth provides JWT session tokens and password hashing for the
// tracker API.
//
// SESSION FLOW:
//  1. Client POSTs /api/auth/login with email + password
//  2. Server verifies credentials, marks the store session, issues a JWT
//  3. The JWT travels back in an HttpOnly cookie (and in the response body
//     for non-browser clients)
//  4. On later requests the middleware validates the JWT and puts the user
//     ID in the request context
//
// WHY JWT?
// The token is self-describing — userID and expiry live inside the signed
// payload, so validating a request needs no lookup. Note the store still
// keeps its own single "current session" pointer (that is the app's data
// model); the JWT is transport-level proof that the caller is the one who
// logged in.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is how long a login remains valid. A single-user
// tracker wants long-lived sessions; a day is the compromise between that
// and unbounded tokens.
const DefaultTokenLifetime = 24 * time.Hour

const issuer = "nutriai"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens. The same secret
// serves both operations — keep it out of source control and rotate it
// periodically in production.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret and the
// default token lifetime. The secret should be at least 32 bytes of random
// data in production, e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), lifetime: DefaultTokenLifetime}, nil
}

// claims embeds jwt.RegisteredClaims; the "sub" (Subject) claim carries the
// internal user ID — the standard claim for "who this token belongs to".
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new session token for the given userID,
// using HS256 (HMAC-SHA256 — symmetric, fast, right for a single-server
// deployment).
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.lifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID from
// its "sub" claim.
//
// The jwt library checks the signature, the expiry, and the issuer.
// Restricting the accepted algorithms to HS256 (jwt.WithValidMethods)
// closes the classic algorithm-confusion hole where a token signed with
// "none" slips through.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
