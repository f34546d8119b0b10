// ABOUTME: HTTP endpoint tests for the editor server using httptest.
// ABOUTME: Exercises session lifecycle, graph operations, undo/redo, export, and persistence.

package editor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrLixm/mari-tools-lxm/graph"
	"github.com/MrLixm/mari-tools-lxm/store"
)

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	return NewServer(NewStore(10, time.Hour, graph.Builtin()), opts...)
}

func createTestSession(t *testing.T, srv *Server) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(testGraphYAML))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", w.Code, w.Body.String())
	}
	var resp sessionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.ID
}

func TestCreateSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(testGraphYAML))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var resp sessionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "layers" {
		t.Errorf("name = %q, want layers", resp.Name)
	}
	if len(resp.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(resp.Nodes))
	}
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	for name, body := range map[string]string{
		"empty":        "",
		"unknown type": "nodes:\n  - name: X\n    type: hologram\n",
	} {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", name, w.Code)
		}
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/sessions/nope", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session: status = %d, want 404", w.Code)
	}
}

func TestReplaceEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/nodes/PaintA/replace", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp opResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Created) != 1 || resp.Created[0] != "PaintA1" {
		t.Errorf("created = %v, want [PaintA1]", resp.Created)
	}

	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/nodes/Ghost/replace", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing node: status = %d, want 404", w.Code)
	}
}

func TestExposeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	body := `{"nodes": ["Source", "PaintA"], "attrs": ["opacity"]}`
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/expose", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp opResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Exposed) != 1 || resp.Exposed[0] != "opacity" {
		t.Errorf("exposed = %v, want [opacity]", resp.Exposed)
	}

	// Empty selection is a client error.
	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/expose", strings.NewReader(`{"nodes": [], "attrs": ["opacity"]}`))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty selection: status = %d, want 422", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/expose", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad JSON: status = %d, want 422", w.Code)
	}
}

func TestChannelsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	body := `{"channels": [{"name": "Rough", "depth": 8, "scalar": true}, {"name": "Height", "depth": 32, "scalar": true, "size": 8192}]}`
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/channels", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp opResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Created) != 2 {
		t.Errorf("created = %v, want 2 channels", resp.Created)
	}
}

func TestUndoRedoEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/nodes/PaintA/replace", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replace failed: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/undo", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: status = %d, want 200", w.Code)
	}
	var resp sessionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, n := range resp.Nodes {
		if n.Name == "PaintA" {
			found = true
		}
	}
	if !found {
		t.Error("undo summary does not list the restored node")
	}

	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/redo", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("redo: status = %d, want 200", w.Code)
	}

	// Redo stack is now empty.
	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/redo", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("empty redo: status = %d, want 409", w.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/export", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("PaintA")) {
		t.Error("export does not contain the graph document")
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/validate", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Diagnostics []graph.Diagnostic `json:"diagnostics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestPersistenceEndpoints(t *testing.T) {
	projects, err := store.Open(filepath.Join(t.TempDir(), "project.db"))
	if err != nil {
		t.Fatalf("open project store: %v", err)
	}
	defer func() { _ = projects.Close() }()

	srv := newTestServer(t, WithProjectStore(projects))
	id := createTestSession(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/save", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save: status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// An operation on a persisted session lands in the log.
	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/nodes/PaintA/replace", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replace: status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/graphs", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list graphs: status = %d", w.Code)
	}
	var graphsResp struct {
		Graphs []store.GraphSummary `json:"graphs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &graphsResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(graphsResp.Graphs) != 1 || graphsResp.Graphs[0].Name != "layers" {
		t.Errorf("graphs = %+v, want the saved layers graph", graphsResp.Graphs)
	}

	req = httptest.NewRequest(http.MethodGet, "/graphs/layers/operations", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list operations: status = %d", w.Code)
	}
	var opsResp struct {
		Operations []store.OperationRow `json:"operations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &opsResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(opsResp.Operations) != 1 || opsResp.Operations[0].Kind != "replace" {
		t.Errorf("operations = %+v, want one replace entry", opsResp.Operations)
	}
}

func TestPersistenceEndpointsWithoutStore(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	for _, path := range []string{"/sessions/" + id + "/save", "/graphs", "/graphs/layers/operations"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "/save") {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusNotImplemented {
			t.Errorf("%s: status = %d, want 501", path, w.Code)
		}
	}
}
