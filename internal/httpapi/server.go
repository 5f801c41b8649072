// Package httpapi exposes the engine over a JSON HTTP API. All status-code
// mapping lives here; the services underneath only return typed errors.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vellumhq/vellum/internal/auth"
	"github.com/vellumhq/vellum/internal/service"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	collections *service.CollectionService
	posts       *service.PostService
	users       *service.UserService
	authsvc     *service.AuthService
	invites     *service.InviteService
	admin       *service.AdminService
	tokens      *auth.TokenService
	logger      zerolog.Logger
}

// Deps contains the dependencies for NewServer.
type Deps struct {
	Collections *service.CollectionService
	Posts       *service.PostService
	Users       *service.UserService
	Auth        *service.AuthService
	Invites     *service.InviteService
	Admin       *service.AdminService
	Tokens      *auth.TokenService
	Logger      zerolog.Logger
}

// NewServer creates the API server.
func NewServer(deps Deps) *Server {
	return &Server{
		collections: deps.Collections,
		posts:       deps.Posts,
		users:       deps.Users,
		authsvc:     deps.Auth,
		invites:     deps.Invites,
		admin:       deps.Admin,
		tokens:      deps.Tokens,
		logger:      deps.Logger,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints.
		r.Post("/auth/login", s.handleLogin)
		r.Post("/admin/init", s.handleAdminInit)
		r.Get("/admin/initialized", s.handleAdminInitialized)
		r.Get("/invitations/{token}", s.handleInviteLookup)
		r.Post("/users/password", s.handleSetPassword)

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/collections", s.handleListCollections)
			r.Get("/collections/{collectionID}", s.handleGetCollection)
			r.Get("/collections/{collectionID}/posts", s.handleListPosts)
			r.Post("/collections/{collectionID}/posts", s.handleCreatePost)
			r.Put("/collections/{collectionID}/posts/{postID}", s.handleUpdatePost)
			r.Get("/posts/{postID}", s.handleGetPost)

			// Schema mutation and account management are admin-only.
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Post("/collections", s.handleCreateCollection)
				r.Post("/collections/{collectionID}/attributes", s.handleAddAttribute)
				r.Get("/users", s.handleListUsers)
				r.Get("/users/{userID}", s.handleGetUser)
				r.Put("/users/{userID}", s.handleUpdateUser)
				r.Post("/invitations", s.handleSendInvite)
				r.Post("/invitations/{userID}/resend", s.handleResendInvite)
			})
		})
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
