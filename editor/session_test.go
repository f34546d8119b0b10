// ABOUTME: Tests for the session store and session mutations with undo/redo.
// ABOUTME: Covers create/get, TTL cleanup, capacity eviction, and snapshot restore semantics.

package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/MrLixm/mari-tools-lxm/graph"
	"github.com/MrLixm/mari-tools-lxm/ops"
)

const testGraphYAML = `
name: layers
nodes:
  - name: Source
    type: paint
    position: {x: 0, y: 0}
  - name: PaintA
    type: paint
    position: {x: 100, y: 0}
    attrs:
      - name: opacity
        value: 0.4
  - name: BaseColor
    type: channel
    position: {x: 300, y: 0}
connections:
  - from: {node: Source, port: Output}
    to: {node: PaintA, port: Input}
  - from: {node: PaintA, port: Output}
    to: {node: BaseColor, port: Input}
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(10, time.Hour, graph.Builtin())
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("session has no ID")
	}
	if len(sess.Graph.Nodes()) != 3 {
		t.Errorf("graph nodes = %d, want 3", len(sess.Graph.Nodes()))
	}

	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Error("Get did not return the created session")
	}
	if _, ok := store.Get("nope"); ok {
		t.Error("Get returned a session for an unknown ID")
	}
}

func TestStoreCreateRejectsInvalidDocument(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create("nodes:\n  - name: X\n    type: hologram\n"); err == nil {
		t.Error("Create accepted an invalid document")
	}
}

func TestStoreCapacityEvictsOldest(t *testing.T) {
	store := NewStore(2, time.Hour, graph.Builtin())

	first, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	first.LastAccess = time.Now().Add(-time.Minute)

	if _, err := store.Create(testGraphYAML); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(testGraphYAML); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, ok := store.Get(first.ID); ok {
		t.Error("oldest session survived capacity eviction")
	}
}

func TestStoreCleanup(t *testing.T) {
	store := NewStore(10, time.Millisecond, graph.Builtin())
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sess.LastAccess = time.Now().Add(-time.Minute)

	store.Cleanup()
	if _, ok := store.Get(sess.ID); ok {
		t.Error("expired session survived cleanup")
	}
}

func TestSessionReplaceNodeWithUndoRedo(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	clone, warnings, err := sess.ReplaceNode("PaintA")
	if err != nil {
		t.Fatalf("ReplaceNode failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if clone.Name() != "PaintA1" {
		t.Errorf("clone name = %q, want PaintA1", clone.Name())
	}
	if sess.Graph.FindNode("PaintA") != nil {
		t.Error("original node still present")
	}
	if len(sess.UndoStack) != 1 {
		t.Fatalf("undo stack = %d entries, want 1", len(sess.UndoStack))
	}

	if err := sess.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if sess.Graph.FindNode("PaintA") == nil {
		t.Error("undo did not restore the original node")
	}
	if sess.Graph.FindNode("PaintA1") != nil {
		t.Error("undo left the clone in place")
	}

	if err := sess.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if sess.Graph.FindNode("PaintA1") == nil {
		t.Error("redo did not re-apply the replacement")
	}
}

func TestSessionFailedOperationDoesNotPushUndo(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := sess.ReplaceNode("Ghost"); !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("ReplaceNode of missing node: got %v, want ErrNotFound", err)
	}
	if len(sess.UndoStack) != 0 {
		t.Errorf("failed operation pushed an undo entry")
	}
	if err := sess.Undo(); err == nil {
		t.Error("Undo on empty stack succeeded")
	}
}

func TestSessionMutationClearsRedo(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := sess.ReplaceNode("PaintA"); err != nil {
		t.Fatalf("ReplaceNode failed: %v", err)
	}
	if err := sess.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if len(sess.RedoStack) != 1 {
		t.Fatalf("redo stack = %d entries, want 1", len(sess.RedoStack))
	}

	if _, _, err := sess.CreateChannels([]ops.ChannelSpec{{Name: "Rough", Depth: 8, Scalar: true}}); err != nil {
		t.Fatalf("CreateChannels failed: %v", err)
	}
	if len(sess.RedoStack) != 0 {
		t.Error("new mutation did not clear the redo stack")
	}
	if err := sess.Redo(); err == nil {
		t.Error("Redo on cleared stack succeeded")
	}
}

func TestSessionExposeShared(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exposed, _, err := sess.ExposeShared([]string{"Source", "PaintA"}, []string{"opacity"})
	if err != nil {
		t.Fatalf("ExposeShared failed: %v", err)
	}
	if len(exposed) != 1 || len(exposed[0].Links) != 2 {
		t.Fatalf("exposed = %+v, want one attribute with two links", exposed)
	}
	// Seeded from Source, whose opacity holds the type default.
	if exposed[0].Value.AsFloat() != 1 {
		t.Errorf("seeded value = %v, want 1", exposed[0].Value.AsFloat())
	}

	if _, _, err := sess.ExposeShared([]string{"Ghost"}, []string{"opacity"}); !errors.Is(err, graph.ErrNotFound) {
		t.Errorf("missing node: got %v, want ErrNotFound", err)
	}
}

func TestSessionReserializeKeepsDocumentCurrent(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Create(testGraphYAML)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before := sess.RawYAML

	if _, _, err := sess.CreateChannels([]ops.ChannelSpec{{Name: "Rough", Depth: 8, Scalar: true}}); err != nil {
		t.Fatalf("CreateChannels failed: %v", err)
	}
	if sess.RawYAML == before {
		t.Error("RawYAML not refreshed after mutation")
	}
	if sess.UndoStack[0] != before {
		t.Error("undo snapshot is not the pre-mutation document")
	}
}
