// ABOUTME: Node replacement: clones a node's type, settings, and position, rewires every
// ABOUTME: incident edge onto the clone, then removes the original from the graph.
package ops

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

// Replace produces a structurally equivalent new node for original and swaps
// it into the graph: same type, same writable attribute values, same canvas
// position, every incident edge re-created with the original substituted by
// the replacement. The original is removed only after creation and rewiring
// attempts complete; if creation fails, the graph is left untouched.
//
// Attribute copies and edge re-creations are best-effort per item: a value
// that cannot be applied or an edge whose port no longer resolves is skipped
// and reported as a warning, never an abort.
func Replace(g *graph.Container, original *graph.Node) (*graph.Node, []Warning, error) {
	if original == nil || g.FindNode(original.Name()) != original {
		return nil, nil, fmt.Errorf("replace: original node: %w", graph.ErrNotFound)
	}

	// Snapshot writable attribute values, the position, and every incident
	// edge before mutating anything.
	typ := original.Type()
	values := make(map[string]graph.Value)
	for _, name := range typ.AttrNames() {
		if typ.Attrs[name].ReadOnly {
			continue
		}
		v, err := g.GetAttribute(original, name)
		if err != nil {
			return nil, nil, fmt.Errorf("replace %q: snapshot: %w", original.Name(), err)
		}
		values[name] = v
	}
	edges, err := g.Edges(original)
	if err != nil {
		return nil, nil, fmt.Errorf("replace %q: %w", original.Name(), err)
	}

	name := UniqueName(original.Name(), g.NameSet())
	clone, err := g.CreateNode(typ.ID, original.Position(), name)
	if err != nil {
		return nil, nil, fmt.Errorf("replace %q: create replacement: %w", original.Name(), err)
	}

	var warnings []Warning
	for _, attrName := range typ.AttrNames() {
		v, ok := values[attrName]
		if !ok {
			continue
		}
		if err := g.SetAttribute(clone, attrName, v); err != nil {
			warnings = append(warnings, Warning{
				Op:      "replace",
				Subject: "attribute " + attrName,
				Detail:  err.Error(),
			})
		}
	}

	for _, e := range edges {
		from, to := e.From, e.To
		if from.Node == original.Name() {
			from.Node = clone.Name()
		}
		if to.Node == original.Name() {
			to.Node = clone.Name()
		}
		if err := g.Connect(from, to); err != nil {
			warnings = append(warnings, Warning{
				Op:      "replace",
				Subject: fmt.Sprintf("edge %s.%s -> %s.%s", e.From.Node, e.From.Port, e.To.Node, e.To.Port),
				Detail:  err.Error(),
			})
		}
	}

	if err := g.DeleteNode(original); err != nil {
		return clone, warnings, fmt.Errorf("replace %q: remove original: %w", original.Name(), err)
	}
	return clone, warnings, nil
}
