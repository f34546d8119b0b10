// ABOUTME: Exposed attributes: virtual container attributes linked to child node attributes.
// ABOUTME: Setting an exposed value propagates to every linked child attribute (live-link semantics).
package graph

import "fmt"

// AttrLink ties an exposed attribute to one child attribute, identified by
// (child name, attribute name).
type AttrLink struct {
	Node string
	Attr string
}

// ExposedAttribute is a virtual attribute hosted on a container, promoted
// from one or more children. Its name is unique among the container's
// exposed attributes.
type ExposedAttribute struct {
	Name  string
	Type  ValueType
	Value Value
	Links []AttrLink
}

// HasLink reports whether the exposed attribute is already linked to the
// given child attribute.
func (e *ExposedAttribute) HasLink(node, attr string) bool {
	for _, l := range e.Links {
		if l.Node == node && l.Attr == attr {
			return true
		}
	}
	return false
}

func (e *ExposedAttribute) removeLinks(node string) {
	kept := e.Links[:0]
	for _, l := range e.Links {
		if l.Node != node {
			kept = append(kept, l)
		}
	}
	e.Links = kept
}

// ExposedAttributes returns the container's exposed attributes in creation order.
func (c *Container) ExposedAttributes() []*ExposedAttribute {
	return c.exposed
}

// FindExposedAttribute returns the exposed attribute with the given name, or nil.
func (c *Container) FindExposedAttribute(name string) *ExposedAttribute {
	for _, exp := range c.exposed {
		if exp.Name == name {
			return exp
		}
	}
	return nil
}

// CreateExposedAttribute adds an exposed attribute with a zero value of the
// declared type. Names must be unique among the container's exposed attributes.
func (c *Container) CreateExposedAttribute(name string, t ValueType) (*ExposedAttribute, error) {
	if name == "" {
		return nil, fmt.Errorf("create exposed attribute: empty name: %w", ErrValidation)
	}
	if c.FindExposedAttribute(name) != nil {
		return nil, fmt.Errorf("create exposed attribute %q: %w", name, ErrNameCollision)
	}
	exp := &ExposedAttribute{Name: name, Type: t, Value: Zero(t)}
	c.exposed = append(c.exposed, exp)
	return exp, nil
}

// LinkAttribute links an exposed attribute to a child attribute. The target
// must be a live child of this container with an attribute of matching type.
// Linking an already-linked target is a no-op.
func (c *Container) LinkAttribute(exp *ExposedAttribute, n *Node, attrName string) error {
	if c.FindExposedAttribute(exp.Name) != exp {
		return fmt.Errorf("link %q: exposed attribute: %w", exp.Name, ErrNotFound)
	}
	if n == nil || c.children[n.name] != n {
		return fmt.Errorf("link %q: child node: %w", exp.Name, ErrNotFound)
	}
	spec, ok := n.typ.Attrs[attrName]
	if !ok {
		return fmt.Errorf("link %q: node %q attribute %q: %w", exp.Name, n.name, attrName, ErrAttributeNotFound)
	}
	if spec.Type != exp.Type {
		return fmt.Errorf("link %q: attribute %q is %s, exposed is %s: %w",
			exp.Name, attrName, spec.Type, exp.Type, ErrTypeMismatch)
	}
	if exp.HasLink(n.name, attrName) {
		return nil
	}
	exp.Links = append(exp.Links, AttrLink{Node: n.name, Attr: attrName})
	return nil
}

// SetExposedValue writes the exposed value and pushes it to every linked
// child attribute. A link whose target vanished mid-propagation is skipped;
// liveness is maintained by DeleteNode pruning links.
func (c *Container) SetExposedValue(exp *ExposedAttribute, v Value) error {
	if c.FindExposedAttribute(exp.Name) != exp {
		return fmt.Errorf("set exposed %q: %w", exp.Name, ErrNotFound)
	}
	if v.Type != exp.Type {
		return fmt.Errorf("set exposed %q wants %s, got %s: %w", exp.Name, exp.Type, v.Type, ErrTypeMismatch)
	}
	exp.Value = v
	for _, link := range exp.Links {
		child := c.children[link.Node]
		if child == nil {
			continue
		}
		if err := c.SetAttribute(child, link.Attr, v); err != nil {
			return fmt.Errorf("propagate exposed %q to %s.%s: %w", exp.Name, link.Node, link.Attr, err)
		}
	}
	return nil
}
