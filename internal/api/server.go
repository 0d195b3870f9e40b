// ABOUTME: HTTP router wiring for the taskhive REST API
// ABOUTME: Public user/login routes plus bearer-guarded task routes

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hivelabs/taskhive/internal/auth"
	"github.com/hivelabs/taskhive/internal/store"
)

// Server holds the API's dependencies and implements its HTTP handlers
type Server struct {
	store  store.Store
	issuer *auth.Issuer
	logger *slog.Logger
}

// NewServer creates an API server over the given store and token issuer
func NewServer(st store.Store, issuer *auth.Issuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  st,
		issuer: issuer,
		logger: logger.With("component", "api"),
	}
}

// Router builds the chi router with all routes and middleware attached.
// Registration and login bypass the auth middleware explicitly; everything
// under /tasks requires a verified bearer token.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimw.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/{id}", s.handleGetUser)
	})

	r.Post("/auth/login", s.handleLogin)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(auth.RequireAuth(s.store, s.issuer))
		r.Post("/", s.handleCreateTask)
		r.Get("/", s.handleListTasks)
		r.Get("/{id}", s.handleGetTask)
		r.Put("/{id}", s.handleUpdateTask)
		r.Delete("/{id}", s.handleDeleteTask)
	})

	return r
}
