package session

import (
	"context"
	"net/http"

	"stonehub/core/auth"
)

// JWTStore keeps the whole session in a signed token; nothing is stored server-side.
type JWTStore struct {
	issuer *auth.TokenIssuer
	secure bool
}

// NewJWTStore creates a stateless session store.
func NewJWTStore(issuer *auth.TokenIssuer, secure bool) *JWTStore {
	return &JWTStore{issuer: issuer, secure: secure}
}

func (s *JWTStore) Begin(ctx context.Context, w http.ResponseWriter, email string) error {
	token, err := s.issuer.Issue(email, "")
	if err != nil {
		return err
	}
	setCookie(w, token, s.issuer.TTL(), s.secure)
	return nil
}

func (s *JWTStore) Identity(r *http.Request) (string, bool) {
	token := tokenFromRequest(r)
	if token == "" {
		return "", false
	}
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return "", false
	}
	return claims.Email, true
}

func (s *JWTStore) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	clearCookie(w, s.secure)
	return nil
}
