package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stonehub/config"
	"stonehub/core/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
}

// begin runs Begin and returns the cookie it set.
func begin(t *testing.T, s Store, email string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, s.Begin(context.Background(), rec, email))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestCookieAttributes(t *testing.T) {
	s := NewJWTStore(newIssuer(), true)
	c := begin(t, s, "a@x.com")

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), c.MaxAge)
}

func TestJWTStoreIdentity(t *testing.T) {
	s := NewJWTStore(newIssuer(), false)
	c := begin(t, s, "a@x.com")

	email, ok := s.Identity(requestWith(c))
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)

	_, ok = s.Identity(requestWith(nil))
	assert.False(t, ok)

	_, ok = s.Identity(requestWith(&http.Cookie{Name: CookieName, Value: "garbage"}))
	assert.False(t, ok)
}

func TestJWTStoreRejectsForeignSecret(t *testing.T) {
	other := NewJWTStore(auth.NewTokenIssuer([]byte("other"), time.Hour), false)
	c := begin(t, other, "a@x.com")

	s := NewJWTStore(newIssuer(), false)
	_, ok := s.Identity(requestWith(c))
	assert.False(t, ok)
}

func TestBearerFallback(t *testing.T) {
	s := NewJWTStore(newIssuer(), false)
	c := begin(t, s, "a@x.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+c.Value)
	email, ok := s.Identity(req)
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}

func TestJWTStoreEndClearsCookie(t *testing.T) {
	s := NewJWTStore(newIssuer(), false)
	rec := httptest.NewRecorder()
	require.NoError(t, s.End(context.Background(), rec, requestWith(nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(newIssuer(), client, false), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	s, mr := newRedisStore(t)
	c := begin(t, s, "a@x.com")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], redisKeyPrefix)
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))

	email, ok := s.Identity(requestWith(c))
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", email)

	rec := httptest.NewRecorder()
	require.NoError(t, s.End(context.Background(), rec, requestWith(c)))
	assert.Empty(t, mr.Keys())

	// 已撤销的 token 即使签名有效也不再被接受
	_, ok = s.Identity(requestWith(c))
	assert.False(t, ok)
}

func TestRedisStoreExpiredKey(t *testing.T) {
	s, mr := newRedisStore(t)
	c := begin(t, s, "a@x.com")

	mr.FastForward(2 * time.Hour)
	_, ok := s.Identity(requestWith(c))
	assert.False(t, ok)
}

func TestRedisStoreRejectsStatelessToken(t *testing.T) {
	s, _ := newRedisStore(t)
	c := begin(t, NewJWTStore(newIssuer(), false), "a@x.com")

	_, ok := s.Identity(requestWith(c))
	assert.False(t, ok)
}

func TestRedisStoreEndWithoutSession(t *testing.T) {
	s, _ := newRedisStore(t)
	rec := httptest.NewRecorder()
	assert.NoError(t, s.End(context.Background(), rec, requestWith(nil)))
}

func TestNewStore(t *testing.T) {
	cfg := &config.Config{SessionSecret: "s", SessionTTL: time.Hour}

	cfg.SessionBackend = "jwt"
	st, err := NewStore(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &JWTStore{}, st)

	cfg.SessionBackend = "redis"
	_, err = NewStore(cfg, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	st, err = NewStore(cfg, client)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, st)

	cfg.SessionBackend = "memcached"
	_, err = NewStore(cfg, nil)
	assert.Error(t, err)
}
