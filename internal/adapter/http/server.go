// Package adapthttp exposes the session log over a JSON API and serves the
// bundled dashboard.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"flowform/internal/app"
	"flowform/internal/domain"
)

// Info describes the running service for health and readiness responses.
type Info struct {
	Version  string
	Port     int
	LogLevel string
}

// Server wires the application services into HTTP handlers. All session
// routes operate on behalf of a single user resolved at startup.
type Server struct {
	sessions *app.SessionService
	stats    *app.StatsService
	store    domain.Store
	userID   int64
	webDir   string
	info     Info
}

func New(sessions *app.SessionService, stats *app.StatsService, store domain.Store, userID int64, webDir string, info Info) *Server {
	return &Server{
		sessions: sessions,
		stats:    stats,
		store:    store,
		userID:   userID,
		webDir:   webDir,
		info:     info,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)
		api.Get("/stats", s.handleStats)
		api.Get("/sessions", s.handleListSessions)
		api.Post("/sessions", s.handleCreateSession)
		api.Post("/sessions/{id}/complete", s.handleCompleteSession)
	})
	r.Get("/ready", s.handleReady)

	if s.webDir != "" {
		r.Handle("/*", withNoCache(staticFromDisk(s.webDir)))
	}

	return r
}
