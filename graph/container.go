// ABOUTME: Container: a node graph that owns an ordered set of child nodes and exposed attributes.
// ABOUTME: Implements the host graph access layer: node/edge CRUD, attribute get/set, exposure and linking.
package graph

import (
	"fmt"
	"sort"
)

// Container owns an ordered collection of child nodes and may host exposed
// attributes promoted from them. All graph reads and mutations go through it.
type Container struct {
	name     string
	registry *TypeRegistry
	order    []string
	children map[string]*Node
	exposed  []*ExposedAttribute
}

// NewContainer creates an empty container backed by the given type registry.
func NewContainer(name string, registry *TypeRegistry) *Container {
	return &Container{
		name:     name,
		registry: registry,
		children: make(map[string]*Node),
	}
}

// Name returns the container's name.
func (c *Container) Name() string { return c.name }

// Registry returns the type registry the container creates nodes from.
func (c *Container) Registry() *TypeRegistry { return c.registry }

// Nodes returns the child nodes in insertion order.
func (c *Container) Nodes() []*Node {
	nodes := make([]*Node, 0, len(c.order))
	for _, name := range c.order {
		nodes = append(nodes, c.children[name])
	}
	return nodes
}

// FindNode returns the child with the given name, or nil if absent.
func (c *Container) FindNode(name string) *Node {
	return c.children[name]
}

// NameSet returns the set of child names, usable as a naming scope.
func (c *Container) NameSet() map[string]bool {
	names := make(map[string]bool, len(c.children))
	for name := range c.children {
		names[name] = true
	}
	return names
}

// CreateNode instantiates a node of the given type at the given position.
// Opaque compound types cannot be created by name and fail with ErrUnsupportedType.
func (c *Container) CreateNode(typeID string, pos Position, name string) (*Node, error) {
	typ, ok := c.registry.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("create node %q of type %q: %w", name, typeID, ErrUnsupportedType)
	}
	if typ.Opaque {
		return nil, fmt.Errorf("create node %q: type %q is opaque: %w", name, typeID, ErrUnsupportedType)
	}
	return c.addNode(typ, pos, name)
}

// CreateGroupNode creates a group node through the host's dedicated
// constructor. Group nodes are opaque to CreateNode.
func (c *Container) CreateGroupNode(pos Position, name string) (*Node, error) {
	typ, ok := c.registry.Lookup("group")
	if !ok {
		return nil, fmt.Errorf("create group node %q: %w", name, ErrUnsupportedType)
	}
	return c.addNode(typ, pos, name)
}

func (c *Container) addNode(typ *NodeType, pos Position, name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("create node: empty name: %w", ErrValidation)
	}
	if _, exists := c.children[name]; exists {
		return nil, fmt.Errorf("create node %q: %w", name, ErrNameCollision)
	}
	attrs := make(map[string]Value, len(typ.Attrs))
	for attrName, spec := range typ.Attrs {
		attrs[attrName] = spec.Default
	}
	n := &Node{
		name:   name,
		typ:    typ,
		attrs:  attrs,
		pos:    pos,
		parent: c,
		inputs: make(map[string]PortRef),
	}
	c.children[name] = n
	c.order = append(c.order, name)
	return n, nil
}

// DeleteNode removes a node from the container. Connections touching the
// node and exposed-attribute links targeting it are removed with it.
func (c *Container) DeleteNode(n *Node) error {
	if n == nil || c.children[n.name] != n {
		return fmt.Errorf("delete node: %w", ErrNotFound)
	}
	delete(c.children, n.name)
	for i, name := range c.order {
		if name == n.name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	for _, other := range c.children {
		for port, src := range other.inputs {
			if src.Node == n.name {
				delete(other.inputs, port)
			}
		}
	}
	for _, exp := range c.exposed {
		exp.removeLinks(n.name)
	}
	n.parent = nil
	return nil
}

// Edges returns every connection incident to the node, incoming first, in a
// deterministic order. Edges are derived from the current connection table.
func (c *Container) Edges(n *Node) ([]Edge, error) {
	if n == nil || c.children[n.name] != n {
		return nil, fmt.Errorf("edges: %w", ErrNotFound)
	}
	var edges []Edge
	for _, port := range sortedPorts(n.inputs) {
		edges = append(edges, Edge{From: n.inputs[port], To: PortRef{Node: n.name, Port: port}})
	}
	for _, name := range c.order {
		other := c.children[name]
		if other == n {
			continue
		}
		for _, port := range sortedPorts(other.inputs) {
			if src := other.inputs[port]; src.Node == n.name {
				edges = append(edges, Edge{From: src, To: PortRef{Node: name, Port: port}})
			}
		}
	}
	return edges, nil
}

// Connect creates a directed connection from an output port to an input
// port, replacing any existing upstream on the input. Self-connections are
// rejected as incompatible.
func (c *Container) Connect(from, to PortRef) error {
	src := c.children[from.Node]
	if src == nil {
		return fmt.Errorf("connect: source node %q: %w", from.Node, ErrNotFound)
	}
	dst := c.children[to.Node]
	if dst == nil {
		return fmt.Errorf("connect: destination node %q: %w", to.Node, ErrNotFound)
	}
	if !src.typ.HasOutput(from.Port) {
		return fmt.Errorf("connect: node %q has no output port %q: %w", from.Node, from.Port, ErrPortNotFound)
	}
	if !dst.typ.HasInput(to.Port) {
		return fmt.Errorf("connect: node %q has no input port %q: %w", to.Node, to.Port, ErrPortNotFound)
	}
	if from.Node == to.Node {
		return fmt.Errorf("connect: %q to itself: %w", from.Node, ErrTypeIncompatible)
	}
	dst.inputs[to.Port] = from
	return nil
}

// Disconnect removes the upstream connection of an input port, if any.
func (c *Container) Disconnect(to PortRef) error {
	dst := c.children[to.Node]
	if dst == nil {
		return fmt.Errorf("disconnect: node %q: %w", to.Node, ErrNotFound)
	}
	if !dst.typ.HasInput(to.Port) {
		return fmt.Errorf("disconnect: node %q has no input port %q: %w", to.Node, to.Port, ErrPortNotFound)
	}
	delete(dst.inputs, to.Port)
	return nil
}

// GetAttribute reads a node attribute by name.
func (c *Container) GetAttribute(n *Node, name string) (Value, error) {
	if n == nil || c.children[n.name] != n {
		return Value{}, fmt.Errorf("get attribute %q: %w", name, ErrNotFound)
	}
	v, ok := n.attrs[name]
	if !ok {
		return Value{}, fmt.Errorf("node %q: attribute %q: %w", n.name, name, ErrAttributeNotFound)
	}
	return v, nil
}

// SetAttribute writes a node attribute, enforcing the declared value type
// and the read-only flag.
func (c *Container) SetAttribute(n *Node, name string, v Value) error {
	if n == nil || c.children[n.name] != n {
		return fmt.Errorf("set attribute %q: %w", name, ErrNotFound)
	}
	spec, ok := n.typ.Attrs[name]
	if !ok {
		return fmt.Errorf("node %q: attribute %q: %w", n.name, name, ErrAttributeNotFound)
	}
	if spec.ReadOnly {
		return fmt.Errorf("node %q: attribute %q: %w", n.name, name, ErrReadOnly)
	}
	if v.Type != spec.Type {
		return fmt.Errorf("node %q: attribute %q wants %s, got %s: %w",
			n.name, name, spec.Type, v.Type, ErrTypeMismatch)
	}
	n.attrs[name] = v
	return nil
}

func sortedPorts(inputs map[string]PortRef) []string {
	ports := make([]string, 0, len(inputs))
	for port := range inputs {
		ports = append(ports, port)
	}
	sort.Strings(ports)
	return ports
}
