// ABOUTME: Diagnostic type for validation findings associated with nodes or exposed attributes.
// ABOUTME: Produced by graph/validator and surfaced through sessions and the HTTP API.
package graph

// Diagnostic represents a validation finding.
type Diagnostic struct {
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Node     string `json:"node,omitempty"`
	Rule     string `json:"rule"`
}
