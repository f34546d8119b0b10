// ABOUTME: Attribute exposure: promotes shared child attributes onto the parent container
// ABOUTME: and links each exposed control bidirectionally to every selected child.
package ops

import (
	"fmt"

	"github.com/MrLixm/mari-tools-lxm/graph"
)

// ExposeShared creates (or reuses) one exposed attribute on the parent per
// requested name and links it to the matching attribute of every selected
// child. All preconditions are checked before any mutation: the selection
// must be non-empty, every child must be a live child of parent with the
// same node type, and every requested name must exist on that type.
//
// The operation is idempotent: existing exposed attributes are reused by
// name, and a link is created only if the (name, child, attribute) triple is
// absent. A newly created exposed attribute is seeded once from the first
// child's current value; subsequent synchronization is the access layer's
// live-link mechanism, not re-run here.
func ExposeShared(parent *graph.Container, children []*graph.Node, attrNames []string) ([]*graph.ExposedAttribute, []Warning, error) {
	if len(children) == 0 {
		return nil, nil, fmt.Errorf("expose: %w", graph.ErrEmptySelection)
	}
	if len(attrNames) == 0 {
		return nil, nil, fmt.Errorf("expose: no attribute names: %w", graph.ErrValidation)
	}

	typ := children[0].Type()
	for _, child := range children {
		if child == nil || parent.FindNode(child.Name()) != child {
			return nil, nil, fmt.Errorf("expose: node is not a child of %q: %w", parent.Name(), graph.ErrValidation)
		}
		if child.TypeID() != typ.ID {
			return nil, nil, fmt.Errorf("expose: node %q is %q, selection is %q: %w",
				child.Name(), child.TypeID(), typ.ID, graph.ErrTypeMismatch)
		}
	}

	names := dedupe(attrNames)
	for _, name := range names {
		spec, ok := typ.Attrs[name]
		if !ok {
			return nil, nil, fmt.Errorf("expose: type %q has no attribute %q: %w", typ.ID, name, graph.ErrValidation)
		}
		// Host registries can carry per-instance overrides; a child whose
		// current value type diverges from the declared type fails validation.
		for _, child := range children {
			v, err := parent.GetAttribute(child, name)
			if err != nil {
				return nil, nil, fmt.Errorf("expose: %w", err)
			}
			if v.Type != spec.Type {
				return nil, nil, fmt.Errorf("expose: node %q attribute %q holds %s, type declares %s: %w",
					child.Name(), name, v.Type, spec.Type, graph.ErrValidation)
			}
		}
	}

	var result []*graph.ExposedAttribute
	var warnings []Warning
	for _, name := range names {
		spec := typ.Attrs[name]
		exp := parent.FindExposedAttribute(name)
		if exp == nil {
			created, err := parent.CreateExposedAttribute(name, spec.Type)
			if err != nil {
				warnings = append(warnings, Warning{Op: "expose", Subject: name, Detail: err.Error()})
				continue
			}
			// Seed once from the first child; this is the only value push at
			// creation time, it does not propagate back out.
			if seed, err := parent.GetAttribute(children[0], name); err == nil {
				created.Value = seed
			}
			exp = created
		} else if exp.Type != spec.Type {
			warnings = append(warnings, Warning{
				Op:      "expose",
				Subject: name,
				Detail: fmt.Sprintf("existing exposed attribute is %s, attribute is %s: skipped",
					exp.Type, spec.Type),
			})
			continue
		}

		for _, child := range children {
			if exp.HasLink(child.Name(), name) {
				continue
			}
			if err := parent.LinkAttribute(exp, child, name); err != nil {
				warnings = append(warnings, Warning{
					Op:      "expose",
					Subject: fmt.Sprintf("%s.%s", child.Name(), name),
					Detail:  err.Error(),
				})
			}
		}
		result = append(result, exp)
	}
	return result, warnings, nil
}

// dedupe removes duplicate names preserving the caller's order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
