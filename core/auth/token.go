package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "stonehub"

// ErrInvalidToken is returned for tokens that fail signature, expiry or shape checks.
var ErrInvalidToken = errors.New("invalid session token")

// Claims 会话令牌中携带的信息
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer whose tokens live for ttl.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for email. sessionID may be empty for stateless sessions.
func (i *TokenIssuer) Issue(email, sessionID string) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   email,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	return claims, nil
}
