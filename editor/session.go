// ABOUTME: Session struct with undo/redo and graph mutation operations.
// ABOUTME: Wraps a live container; each mutation snapshots the YAML document for undo.

package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/MrLixm/mari-tools-lxm/graph"
	"github.com/MrLixm/mari-tools-lxm/graph/validator"
	"github.com/MrLixm/mari-tools-lxm/graphio"
	"github.com/MrLixm/mari-tools-lxm/ops"
)

const maxUndoDepth = 50

type Session struct {
	mu          sync.RWMutex
	ID          string
	Graph       *graph.Container
	RawYAML     string
	Diagnostics []graph.Diagnostic
	UndoStack   []string
	RedoStack   []string
	CreatedAt   time.Time
	LastAccess  time.Time
	registry    *graph.TypeRegistry
}

// RLock acquires a read lock for safe concurrent reads of session data.
func (sess *Session) RLock() {
	sess.mu.RLock()
}

// RUnlock releases a read lock.
func (sess *Session) RUnlock() {
	sess.mu.RUnlock()
}

// Validate re-runs the linter and updates diagnostics under lock.
func (sess *Session) Validate() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Diagnostics = validator.Lint(sess.Graph)
}

// ReplaceNode swaps the named node for a blank structural clone, preserving
// its settings, position, and incident edges.
func (sess *Session) ReplaceNode(name string) (*graph.Node, []ops.Warning, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	node := sess.Graph.FindNode(name)
	if node == nil {
		return nil, nil, fmt.Errorf("node %q: %w", name, graph.ErrNotFound)
	}

	prev := sess.RawYAML
	clone, warnings, err := ops.Replace(sess.Graph, node)
	if err != nil {
		return nil, warnings, err
	}

	sess.pushUndo(prev)
	sess.reserialize()
	return clone, warnings, nil
}

// ExposeShared promotes the named attributes of the selected child nodes to
// the session's container and links them.
func (sess *Session) ExposeShared(nodeNames, attrNames []string) ([]*graph.ExposedAttribute, []ops.Warning, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	children := make([]*graph.Node, 0, len(nodeNames))
	for _, name := range nodeNames {
		node := sess.Graph.FindNode(name)
		if node == nil {
			return nil, nil, fmt.Errorf("node %q: %w", name, graph.ErrNotFound)
		}
		children = append(children, node)
	}

	prev := sess.RawYAML
	exposed, warnings, err := ops.ExposeShared(sess.Graph, children, attrNames)
	if err != nil {
		return nil, warnings, err
	}

	sess.pushUndo(prev)
	sess.reserialize()
	return exposed, warnings, nil
}

// CreateChannels bulk-creates channel nodes from the given specs.
func (sess *Session) CreateChannels(specs []ops.ChannelSpec) ([]*graph.Node, []ops.Warning, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	prev := sess.RawYAML
	nodes, warnings, err := ops.CreateChannels(sess.Graph, specs)
	if err != nil {
		return nil, warnings, err
	}

	sess.pushUndo(prev)
	sess.reserialize()
	return nodes, warnings, nil
}

// Undo restores the previous graph state.
func (sess *Session) Undo() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.UndoStack) == 0 {
		return fmt.Errorf("nothing to undo")
	}

	prevYAML := sess.UndoStack[len(sess.UndoStack)-1]
	sess.UndoStack = sess.UndoStack[:len(sess.UndoStack)-1]

	sess.RedoStack = append(sess.RedoStack, sess.RawYAML)

	restored, err := graphio.Decode(prevYAML, sess.registry)
	if err != nil {
		return fmt.Errorf("failed to restore previous state: %w", err)
	}

	sess.Graph = restored
	sess.RawYAML = prevYAML
	sess.Diagnostics = validator.Lint(sess.Graph)
	return nil
}

// Redo restores a previously undone state.
func (sess *Session) Redo() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.RedoStack) == 0 {
		return fmt.Errorf("nothing to redo")
	}

	nextYAML := sess.RedoStack[len(sess.RedoStack)-1]
	sess.RedoStack = sess.RedoStack[:len(sess.RedoStack)-1]

	sess.UndoStack = append(sess.UndoStack, sess.RawYAML)
	if len(sess.UndoStack) > maxUndoDepth {
		sess.UndoStack = sess.UndoStack[1:]
	}

	restored, err := graphio.Decode(nextYAML, sess.registry)
	if err != nil {
		return fmt.Errorf("failed to restore next state: %w", err)
	}

	sess.Graph = restored
	sess.RawYAML = nextYAML
	sess.Diagnostics = validator.Lint(sess.Graph)
	return nil
}

// pushUndo saves a prior state to the undo stack and clears the redo stack.
func (sess *Session) pushUndo(prev string) {
	sess.UndoStack = append(sess.UndoStack, prev)
	if len(sess.UndoStack) > maxUndoDepth {
		sess.UndoStack = sess.UndoStack[1:]
	}
	sess.RedoStack = nil
}

// reserialize updates RawYAML and diagnostics after a mutation.
func (sess *Session) reserialize() {
	raw, err := graphio.Encode(sess.Graph)
	if err == nil {
		sess.RawYAML = raw
	}
	sess.Diagnostics = validator.Lint(sess.Graph)
}
