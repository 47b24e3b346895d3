package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"stonehub/core/auth"
	"stonehub/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "stonehub:session:"

// RedisStore signs a session ID into the cookie and keeps the ID -> email
// mapping in Redis, so ending a session revokes it everywhere.
type RedisStore struct {
	issuer *auth.TokenIssuer
	client *redis.Client
	secure bool
}

// NewRedisStore creates a server-side session store.
func NewRedisStore(issuer *auth.TokenIssuer, client *redis.Client, secure bool) *RedisStore {
	return &RedisStore{issuer: issuer, client: client, secure: secure}
}

func sessionKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Begin(ctx context.Context, w http.ResponseWriter, email string) error {
	id := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(id), email, s.issuer.TTL()).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	token, err := s.issuer.Issue(email, id)
	if err != nil {
		return err
	}
	setCookie(w, token, s.issuer.TTL(), s.secure)
	return nil
}

func (s *RedisStore) Identity(r *http.Request) (string, bool) {
	claims, ok := s.claims(r)
	if !ok {
		return "", false
	}

	email, err := s.client.Get(r.Context(), sessionKey(claims.ID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("[Session] 读取Redis会话失败", logger.ErrorField(err))
		}
		return "", false
	}
	if email != claims.Email {
		return "", false
	}
	return email, true
}

func (s *RedisStore) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	clearCookie(w, s.secure)
	claims, ok := s.claims(r)
	if !ok {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(claims.ID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) claims(r *http.Request) (*auth.Claims, bool) {
	token := tokenFromRequest(r)
	if token == "" {
		return nil, false
	}
	claims, err := s.issuer.Parse(token)
	if err != nil || claims.ID == "" {
		return nil, false
	}
	return claims, true
}
