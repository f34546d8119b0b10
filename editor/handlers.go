// ABOUTME: HTTP handler methods for all server endpoints.
// ABOUTME: Covers session CRUD, graph operations, undo/redo, export, validation, and persistence.

package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrLixm/mari-tools-lxm/graph"
	"github.com/MrLixm/mari-tools-lxm/ops"
	"github.com/go-chi/chi/v5"
)

// maxBodySize caps uploaded graph documents and JSON bodies at 10MB.
const maxBodySize = 10 << 20

// nodeInfo is the JSON shape of one node in session summaries.
type nodeInfo struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Incoming int     `json:"incoming"`
	Outgoing int     `json:"outgoing"`
}

// exposedInfo is the JSON shape of one exposed attribute in session summaries.
type exposedInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Links int    `json:"links"`
}

// sessionSummary is the JSON response body for session reads.
type sessionSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Nodes       []nodeInfo         `json:"nodes"`
	Exposed     []exposedInfo      `json:"exposed"`
	Diagnostics []graph.Diagnostic `json:"diagnostics,omitempty"`
}

// opResponse is the JSON response body for graph operations.
type opResponse struct {
	Created  []string      `json:"created,omitempty"`
	Exposed  []string      `json:"exposed,omitempty"`
	Warnings []ops.Warning `json:"warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel graph errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, graph.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, graph.ErrNameCollision):
		status = http.StatusConflict
	case errors.Is(err, graph.ErrUnsupportedType),
		errors.Is(err, graph.ErrValidation),
		errors.Is(err, graph.ErrTypeMismatch),
		errors.Is(err, graph.ErrEmptySelection),
		errors.Is(err, graph.ErrPortNotFound),
		errors.Is(err, graph.ErrTypeIncompatible),
		errors.Is(err, graph.ErrAttributeNotFound),
		errors.Is(err, graph.ErrReadOnly):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

// handleCreateSession creates a new session from a posted YAML graph document.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large (max 10MB)"})
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "graph document is required"})
		return
	}

	sess, err := s.store.Create(string(body))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": fmt.Sprintf("invalid graph: %v", err)})
		return
	}

	sess.RLock()
	defer sess.RUnlock()
	writeJSON(w, http.StatusCreated, summarize(sess))
}

// handleGetSession returns a summary of the session's graph.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.RLock()
	defer sess.RUnlock()
	writeJSON(w, http.StatusOK, summarize(sess))
}

// handleExport returns the raw YAML document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	sess.RLock()
	name := sess.Graph.Name()
	raw := sess.RawYAML
	sess.RUnlock()

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.yaml"`, name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(raw))
}

// handleValidate re-runs the linter and returns diagnostics.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Validate()

	sess.RLock()
	defer sess.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"diagnostics": sess.Diagnostics})
}

// handleReplace swaps the named node for a structural clone, preserving edges.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	clone, warnings, err := sess.ReplaceNode(name)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logOperation(sess, "replace", name, len(warnings))
	writeJSON(w, http.StatusOK, opResponse{Created: []string{clone.Name()}, Warnings: warnings})
}

// handleExpose promotes shared child attributes onto the container.
func (s *Server) handleExpose(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Nodes []string `json:"nodes"`
		Attrs []string `json:"attrs"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid JSON body"})
		return
	}

	exposed, warnings, err := sess.ExposeShared(req.Nodes, req.Attrs)
	if err != nil {
		writeError(w, err)
		return
	}

	names := make([]string, 0, len(exposed))
	for _, exp := range exposed {
		names = append(names, exp.Name)
	}
	s.logOperation(sess, "expose", fmt.Sprintf("%d node(s)", len(req.Nodes)), len(warnings))
	writeJSON(w, http.StatusOK, opResponse{Exposed: names, Warnings: warnings})
}

// handleChannels bulk-creates channel nodes.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Channels []struct {
			Name   string `json:"name"`
			Depth  int    `json:"depth"`
			Scalar bool   `json:"scalar"`
			Size   int    `json:"size"`
		} `json:"channels"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid JSON body"})
		return
	}

	specs := make([]ops.ChannelSpec, 0, len(req.Channels))
	for _, ch := range req.Channels {
		specs = append(specs, ops.ChannelSpec{Name: ch.Name, Depth: ch.Depth, Scalar: ch.Scalar, Size: ch.Size})
	}

	nodes, warnings, err := sess.CreateChannels(specs)
	if err != nil {
		writeError(w, err)
		return
	}

	created := make([]string, 0, len(nodes))
	for _, n := range nodes {
		created = append(created, n.Name())
	}
	s.logOperation(sess, "channels", fmt.Sprintf("%d spec(s)", len(specs)), len(warnings))
	writeJSON(w, http.StatusOK, opResponse{Created: created, Warnings: warnings})
}

// handleUndo restores the previous graph state.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Undo(); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	sess.RLock()
	defer sess.RUnlock()
	writeJSON(w, http.StatusOK, summarize(sess))
}

// handleRedo restores a previously undone state.
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Redo(); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	sess.RLock()
	defer sess.RUnlock()
	writeJSON(w, http.StatusOK, summarize(sess))
}

// handleSave persists the session's document to the project store.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.projects == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "no project store configured"})
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	sess.RLock()
	name := sess.Graph.Name()
	raw := sess.RawYAML
	sess.RUnlock()

	if err := s.projects.SaveGraph(name, raw); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": name})
}

// handleListGraphs lists persisted graph documents.
func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	if s.projects == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "no project store configured"})
		return
	}
	graphs, err := s.projects.ListGraphs()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": graphs})
}

// handleListOperations lists the logged operations for a persisted graph.
func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	if s.projects == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "no project store configured"})
		return
	}
	name := chi.URLParam(r, "name")
	rows, err := s.projects.ListOperations(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"operations": rows})
}

// logOperation records a successful operation when a project store is wired.
func (s *Server) logOperation(sess *Session, kind, subject string, warnings int) {
	if s.projects == nil {
		return
	}
	sess.RLock()
	name := sess.Graph.Name()
	sess.RUnlock()
	_, _ = s.projects.LogOperation(name, kind, subject, warnings)
}

// summarize builds the JSON summary of a session. Callers hold the read lock.
func summarize(sess *Session) sessionSummary {
	summary := sessionSummary{
		ID:          sess.ID,
		Name:        sess.Graph.Name(),
		Nodes:       []nodeInfo{},
		Exposed:     []exposedInfo{},
		Diagnostics: sess.Diagnostics,
	}
	for _, n := range sess.Graph.Nodes() {
		info := nodeInfo{
			Name: n.Name(),
			Type: n.TypeID(),
			X:    n.Position().X,
			Y:    n.Position().Y,
		}
		if edges, err := sess.Graph.Edges(n); err == nil {
			for _, e := range edges {
				if e.To.Node == n.Name() {
					info.Incoming++
				} else {
					info.Outgoing++
				}
			}
		}
		summary.Nodes = append(summary.Nodes, info)
	}
	for _, exp := range sess.Graph.ExposedAttributes() {
		summary.Exposed = append(summary.Exposed, exposedInfo{
			Name:  exp.Name,
			Type:  exp.Type.String(),
			Links: len(exp.Links),
		})
	}
	return summary
}
