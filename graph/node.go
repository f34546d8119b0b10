// ABOUTME: Node entity: a named, typed processing unit with typed attributes and a canvas position.
// ABOUTME: Upstream connections are stored per input port; edges are derived by the container, not owned here.
package graph

// Position is a 2D canvas position.
type Position struct {
	X, Y float64
}

// PortRef identifies one endpoint of a connection as (node name, port name).
type PortRef struct {
	Node string
	Port string
}

// Edge is a directed connection from an output port to an input port.
// Edges are derived facts over the current node set; they are never stored
// as separately addressable entities.
type Edge struct {
	From PortRef
	To   PortRef
}

// Node is a single processing unit in a container's graph.
type Node struct {
	name   string
	typ    *NodeType
	attrs  map[string]Value
	pos    Position
	parent *Container

	// inputs maps each connected input port to its upstream output port.
	inputs map[string]PortRef
}

// Name returns the node's name, unique within its parent container.
func (n *Node) Name() string { return n.name }

// Type returns the node's type descriptor.
func (n *Node) Type() *NodeType { return n.typ }

// TypeID returns the node's type ID.
func (n *Node) TypeID() string { return n.typ.ID }

// Position returns the node's canvas position.
func (n *Node) Position() Position { return n.pos }

// SetPosition moves the node on the canvas.
func (n *Node) SetPosition(p Position) { n.pos = p }

// Parent returns the container owning this node, or nil once deleted.
func (n *Node) Parent() *Container { return n.parent }
