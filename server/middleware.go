package server

import (
	"context"
	"net/http"
	"time"

	"stonehub/core/session"
	"stonehub/logger"
)

type contextKey string

const identityKey contextKey = "userEmail"

// WithIdentity resolves the session once per request and stores the email in the context.
func WithIdentity(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if email, ok := store.Identity(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, email))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated email, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey).(string)
	return email, ok && email != ""
}

// RequireSessionPage redirects anonymous browsers to the login page.
func RequireSessionPage(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login.html", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireSessionAPI rejects anonymous API calls with a JSON 401.
func RequireSessionAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// LoggerMiddleware 记录每个请求的方法、路径、状态码和耗时
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		logger.Info("[HTTP] 请求完成",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", wrapped.statusCode),
			logger.Duration("duration", time.Since(start)),
			logger.String("remote", r.RemoteAddr),
		)
	})
}

// responseWriter 包装 http.ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
