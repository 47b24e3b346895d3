package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stonehub/config"
	"stonehub/core/auth"

	"github.com/redis/go-redis/v9"
)

// CookieName is the site-wide session cookie.
const CookieName = "stonehub_session"

// Store maps a browser session to an authenticated email.
type Store interface {
	// Begin starts a session for email and writes the cookie.
	Begin(ctx context.Context, w http.ResponseWriter, email string) error
	// Identity returns the email bound to the request, if any.
	Identity(r *http.Request) (string, bool)
	// End expires the session. Ending an absent session is not an error.
	End(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// NewStore builds the backend selected by cfg.SessionBackend.
// client is only used by the redis backend and may be nil otherwise.
func NewStore(cfg *config.Config, client *redis.Client) (Store, error) {
	issuer := auth.NewTokenIssuer(cfg.Secret(), cfg.SessionTTL)
	switch cfg.SessionBackend {
	case "jwt":
		return NewJWTStore(issuer, cfg.CookieSecure), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis session backend requires a redis client")
		}
		return NewRedisStore(issuer, client, cfg.CookieSecure), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
}

// tokenFromRequest reads the session cookie, falling back to a bearer header
// for non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func setCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
