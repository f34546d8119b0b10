// ABOUTME: HTTP server struct with chi router, session store, and optional project store.
// ABOUTME: Configures all routes and wires handler methods via functional options.

package editor

import (
	"net/http"

	"github.com/MrLixm/mari-tools-lxm/store"
	"github.com/go-chi/chi/v5"
)

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithProjectStore wires a persistent project store so sessions can be saved
// as named graph documents and operations are logged.
func WithProjectStore(projects *store.ProjectStore) ServerOption {
	return func(s *Server) {
		s.projects = projects
	}
}

// Server holds the chi router, the session store, and an optional project store.
type Server struct {
	router   chi.Router
	store    *Store
	projects *store.ProjectStore
}

// NewServer creates a Server with all routes configured.
func NewServer(sessions *Store, opts ...ServerOption) *Server {
	s := &Server{
		store: sessions,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	// Session lifecycle
	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Get("/sessions/{id}/export", s.handleExport)
	r.Get("/sessions/{id}/validate", s.handleValidate)

	// Graph operations
	r.Post("/sessions/{id}/nodes/{name}/replace", s.handleReplace)
	r.Post("/sessions/{id}/expose", s.handleExpose)
	r.Post("/sessions/{id}/channels", s.handleChannels)
	r.Post("/sessions/{id}/undo", s.handleUndo)
	r.Post("/sessions/{id}/redo", s.handleRedo)

	// Project persistence
	r.Post("/sessions/{id}/save", s.handleSave)
	r.Get("/graphs", s.handleListGraphs)
	r.Get("/graphs/{name}/operations", s.handleListOperations)

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
