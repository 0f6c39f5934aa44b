package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/pkg/httpx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

// SessionCookieName carries the opaque session token. The token itself is
// never stored server-side, only its fingerprint.
const SessionCookieName = "corkboard_session"

type ctxKey int

const ctxKeyPrincipal ctxKey = iota

// principalFrom returns the request's principal, or nil for anonymous
// requests. The session middleware resolves it exactly once per request.
func principalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(ctxKeyPrincipal).(*domain.Principal)
	return p
}

// sessionToken reads the raw token from the request cookie, "" if absent.
func sessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// sessionMiddleware resolves the session cookie into a principal in the
// request context. A missing, expired, or unknown session leaves the request
// anonymous rather than failing it; individual routes decide whether
// anonymous is acceptable. Any other resolution failure (e.g. the database
// going away) is a server error, not an anonymous request.
func sessionMiddleware(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := auth.Principal(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrNotAuthenticated) {
					slogx.FromContext(r.Context()).Error("failed to resolve session", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError, "server_error")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPrincipal, &p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth rejects anonymous requests with 401.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principalFrom(r.Context()) == nil {
			httpx.WriteError(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
