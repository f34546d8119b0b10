// ABOUTME: SQLite-backed project store for named graph documents and an operation log.
// ABOUTME: Provides upsert, get, list for documents and append/list for logged operations.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MrLixm/mari-tools-lxm/graph"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// GraphSummary is a row from the graphs table for list queries.
type GraphSummary struct {
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// OperationRow is one logged graph operation.
type OperationRow struct {
	OpID      string `json:"op_id"`
	GraphName string `json:"graph_name"`
	Kind      string `json:"kind"`
	Subject   string `json:"subject"`
	Warnings  int    `json:"warnings"`
	CreatedAt string `json:"created_at"`
}

// ProjectStore persists graph documents and an append-only operation log in
// SQLite. Documents are stored as their YAML source; the live graph is
// always rebuilt by decoding, never cached here.
type ProjectStore struct {
	db *sql.DB
}

// Open opens or creates a project store database at the given path.
// Runs migrations to ensure the schema is up to date.
func Open(path string) (*ProjectStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS graphs (
			name TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS operations (
			op_id TEXT PRIMARY KEY,
			graph_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			subject TEXT NOT NULL,
			warnings INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &ProjectStore{db: db}, nil
}

// Close closes the database connection.
func (s *ProjectStore) Close() error {
	return s.db.Close()
}

// SaveGraph upserts a graph document by name.
func (s *ProjectStore) SaveGraph(name, doc string) error {
	_, err := s.db.Exec(
		`INSERT INTO graphs (name, doc, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		name, doc, timestamp())
	if err != nil {
		return fmt.Errorf("upsert graph %q: %w", name, err)
	}
	return nil
}

// GetGraph returns the stored document for a graph name.
func (s *ProjectStore) GetGraph(name string) (string, error) {
	var doc string
	err := s.db.QueryRow("SELECT doc FROM graphs WHERE name = ?", name).Scan(&doc)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("graph %q: %w", name, graph.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query graph %q: %w", name, err)
	}
	return doc, nil
}

// ListGraphs returns all stored graphs, ordered by updated_at descending.
func (s *ProjectStore) ListGraphs() ([]GraphSummary, error) {
	rows, err := s.db.Query("SELECT name, updated_at FROM graphs ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query graphs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var graphs []GraphSummary
	for rows.Next() {
		var g GraphSummary
		if err := rows.Scan(&g.Name, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan graph row: %w", err)
		}
		graphs = append(graphs, g)
	}
	return graphs, rows.Err()
}

// LogOperation appends one operation record and returns its ULID.
func (s *ProjectStore) LogOperation(graphName, kind, subject string, warnings int) (string, error) {
	opID := ulid.Make().String()
	_, err := s.db.Exec(
		`INSERT INTO operations (op_id, graph_name, kind, subject, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		opID, graphName, kind, subject, warnings, timestamp())
	if err != nil {
		return "", fmt.Errorf("log operation: %w", err)
	}
	return opID, nil
}

// ListOperations returns the logged operations for a graph, newest first.
func (s *ProjectStore) ListOperations(graphName string) ([]OperationRow, error) {
	rows, err := s.db.Query(
		`SELECT op_id, graph_name, kind, subject, warnings, created_at
		 FROM operations WHERE graph_name = ? ORDER BY op_id DESC`,
		graphName)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []OperationRow
	for rows.Next() {
		var op OperationRow
		if err := rows.Scan(&op.OpID, &op.GraphName, &op.Kind, &op.Subject, &op.Warnings, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
