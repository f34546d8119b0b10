// ABOUTME: Node type registry with attribute specs, ports, and the builtin texturing kinds.
// ABOUTME: Types are looked up by ID at node creation; opaque compound types cannot be instantiated by name.
package graph

import (
	"fmt"
	"sort"
)

// AttrSpec declares one configurable attribute of a node type.
type AttrSpec struct {
	Type     ValueType
	Default  Value
	ReadOnly bool
}

// NodeType describes a node kind: its attributes and its input/output ports.
// Opaque types (compound nodes assembled by the host) cannot be re-created
// generically from their type ID alone.
type NodeType struct {
	ID      string
	Attrs   map[string]AttrSpec
	Inputs  []string
	Outputs []string
	Opaque  bool
}

// AttrNames returns the type's attribute names in sorted order.
func (t *NodeType) AttrNames() []string {
	names := make([]string, 0, len(t.Attrs))
	for name := range t.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasInput reports whether the type declares the named input port.
func (t *NodeType) HasInput(port string) bool {
	for _, p := range t.Inputs {
		if p == port {
			return true
		}
	}
	return false
}

// HasOutput reports whether the type declares the named output port.
func (t *NodeType) HasOutput(port string) bool {
	for _, p := range t.Outputs {
		if p == port {
			return true
		}
	}
	return false
}

// TypeRegistry holds the known node types, keyed by type ID.
type TypeRegistry struct {
	types map[string]*NodeType
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*NodeType)}
}

// Register adds a node type. Re-registering an existing ID is an error.
func (r *TypeRegistry) Register(t *NodeType) error {
	if _, exists := r.types[t.ID]; exists {
		return fmt.Errorf("register type %q: %w", t.ID, ErrNameCollision)
	}
	r.types[t.ID] = t
	return nil
}

// Lookup returns the node type for an ID.
func (r *TypeRegistry) Lookup(id string) (*NodeType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// TypeIDs returns all registered type IDs in sorted order.
func (r *TypeRegistry) TypeIDs() []string {
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns a registry populated with the standard texturing node kinds.
func Builtin() *TypeRegistry {
	r := NewTypeRegistry()
	for _, t := range []*NodeType{
		{
			ID: "paint",
			Attrs: map[string]AttrSpec{
				"color":   {Type: ColorValue, Default: RGBA(1, 1, 1, 1)},
				"opacity": {Type: FloatValue, Default: Float(1)},
				"size":    {Type: IntValue, Default: Int(4096)},
				"depth":   {Type: IntValue, Default: Int(16)},
				"format":  {Type: StringValue, Default: Str("normal"), ReadOnly: true},
			},
			Inputs:  []string{"Input", "Mask"},
			Outputs: []string{"Output"},
		},
		{
			ID: "channel",
			Attrs: map[string]AttrSpec{
				"size":       {Type: IntValue, Default: Int(4096)},
				"depth":      {Type: IntValue, Default: Int(16)},
				"scalar":     {Type: BoolValue, Default: Bool(false)},
				"colorspace": {Type: StringValue, Default: Str("ACES - ACEScg")},
			},
			Inputs:  []string{"Input"},
			Outputs: []string{"Output"},
		},
		{
			ID: "merge",
			Attrs: map[string]AttrSpec{
				"mode":   {Type: StringValue, Default: Str("over")},
				"amount": {Type: FloatValue, Default: Float(1)},
			},
			Inputs:  []string{"Base", "Over", "Mask"},
			Outputs: []string{"Output"},
		},
		{
			ID: "filter",
			Attrs: map[string]AttrSpec{
				"radius": {Type: FloatValue, Default: Float(0)},
				"amount": {Type: FloatValue, Default: Float(1)},
			},
			Inputs:  []string{"Input"},
			Outputs: []string{"Output"},
		},
		{
			ID: "group",
			Attrs: map[string]AttrSpec{
				"label": {Type: StringValue, Default: Str("")},
			},
			Inputs:  []string{"Input"},
			Outputs: []string{"Output"},
			Opaque:  true,
		},
	} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}
