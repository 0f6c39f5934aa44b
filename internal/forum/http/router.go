package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/httpx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	PostService    *service.PostService
	CommentService *service.CommentService

	// CookieSecure is propagated to the session cookie; leave false only for
	// local development over plain http.
	CookieSecure bool

	// CORSOrigin is the single trusted frontend origin, "" for same-origin.
	CORSOrigin string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// The session middleware runs inside the global chain so every route sees
	// the resolved principal (or anonymous) without re-reading the cookie.
	r.middlewares = append(r.middlewares,
		httpx.CORS(r.CORSOrigin),
		sessionMiddleware(r.AuthService),
	)

	r.registerSessions()
	r.registerPosts()
	r.registerComments()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
	}

	r.Mux.Handle("POST /api/sessions", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /api/login-totp", http.HandlerFunc(h.HandleVerifyTOTP))
	r.Mux.Handle("POST /api/login-totp/skip", http.HandlerFunc(h.HandleSkipTOTP))
	r.Mux.Handle("GET /api/sessions/current", http.HandlerFunc(h.HandleCurrent))
	r.Mux.Handle("DELETE /api/sessions/current", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService}

	r.Mux.Handle("GET /api/posts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /api/posts/{id}", http.HandlerFunc(h.HandleGet))

	// Mutations need an authenticated principal before the policy layer even
	// sees them.
	r.Mux.Handle("POST /api/posts",
		requireAuth(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("DELETE /api/posts/{id}",
		requireAuth(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}

	// Reading and commenting are open to anonymous visitors; the post's own
	// limit gates admission.
	r.Mux.Handle("GET /api/posts/{id}/comments", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("POST /api/posts/{id}/comments", http.HandlerFunc(h.HandleCreate))

	r.Mux.Handle("PUT /api/comments/{id}",
		requireAuth(http.HandlerFunc(h.HandleEdit)))
	r.Mux.Handle("DELETE /api/comments/{id}",
		requireAuth(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("POST /api/comments/{id}/interesting",
		requireAuth(http.HandlerFunc(h.HandleMarkInteresting)))
	r.Mux.Handle("DELETE /api/comments/{id}/interesting",
		requireAuth(http.HandlerFunc(h.HandleUnmarkInteresting)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
