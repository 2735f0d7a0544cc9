package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/session"
	"github.com/Abu-Issam/buyshea-connect/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const SessionCookie = "storefront_session"

type ctxKey int

const sessionKey ctxKey = iota

// SessionStore resolves the visitor session for a request.
type SessionStore interface {
	GetOrCreate(ctx context.Context, id string) (*session.Session, bool)
}

// SessionMiddleware attaches the visitor session named by the session cookie,
// creating one and setting the cookie when needed.
func SessionMiddleware(store SessionStore, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			sess, _ := store.GetOrCreate(r.Context(), id)
			if sess.ID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = logger.Into(ctx, logger.From(ctx, zap.L()).With(zap.String("session_id", sess.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// requireSession is the guard every session scoped handler starts with.
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "no_session", "missing storefront session")
		return nil, false
	}
	return sess, true
}

// AccessLog stores a request scoped logger in the context and logs every
// request once it completes.
func AccessLog(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := logger.WithTrace(r.Context(), base).With(
				zap.String("request_id", middleware.GetReqID(r.Context())))
			next.ServeHTTP(ww, r.WithContext(logger.Into(r.Context(), l)))

			l.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
