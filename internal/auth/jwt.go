// Package auth provides JWT token generation/validation, bcrypt password
// hashing, and the bearer-token middleware protecting the snippet API.
//
// AUTHENTICATION FLOW:
// 1. POST /api/auth/register → bcrypt-hash the password, create the user
// 2. POST /api/auth/login → verify the hash, issue a signed JWT
// 3. The client sends `Authorization: Bearer <token>` on every snippet call
// 4. RequireAuth validates the token and puts the userID in the context
//
// The token is stateless: everything needed to authenticate a request
// (userID, expiry) is inside the signed token, so no session store exists
// and validation never touches the database. The flip side: a leaked token
// stays valid until it expires — there is no server-side revocation list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is how long an issued token stays valid. After seven days
// the client must log in again.
const TokenLifetime = 7 * 24 * time.Hour

const issuer = "devsnippet"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify tokens — the same secret must be used for
// both, so a multi-instance deployment shares one JWT_SECRET.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" claim carries the user's
// internal ID; Email is a custom claim the frontend decodes (without
// verifying) to greet the user by address.
type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT for the given user, valid for
// TokenLifetime.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single service that is its own token consumer.
func (s *TokenService) Generate(userID, email string) (string, error) {
	return s.GenerateWithDuration(userID, email, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
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

// Validate parses and verifies a JWT string and returns the userID from its
// "sub" claim.
//
// The jwt library checks signature, expiry, and issuer. We additionally pin
// the algorithm to HS256 with jwt.WithValidMethods — without that, a token
// claiming a different "alg" could slip through (the classic algorithm
// confusion attack).
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
