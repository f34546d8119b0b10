// ABOUTME: Sentinel errors for the graph access layer, matched with errors.Is.
// ABOUTME: Fatal errors abort an operation before mutation; callers wrap them with context via %w.
package graph

import "errors"

var (
	// ErrNotFound indicates a referenced node, attribute, or document no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedType indicates a node type that cannot be instantiated by name,
	// either because it is unregistered or because it is an opaque compound type.
	ErrUnsupportedType = errors.New("unsupported node type")

	// ErrNameCollision indicates a name already in use within its scope.
	ErrNameCollision = errors.New("name collision")

	// ErrAttributeNotFound indicates an attribute name absent from a node's type.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrReadOnly indicates an attempt to write a read-only attribute.
	ErrReadOnly = errors.New("attribute is read-only")

	// ErrPortNotFound indicates a connection endpoint naming a port the node does not have.
	ErrPortNotFound = errors.New("port not found")

	// ErrTypeIncompatible indicates two ports that cannot legally be connected.
	ErrTypeIncompatible = errors.New("incompatible connection")

	// ErrTypeMismatch indicates a value whose type does not match the declared attribute type,
	// or a selection of nodes with heterogeneous types.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEmptySelection indicates an operation invoked with no nodes selected.
	ErrEmptySelection = errors.New("empty selection")

	// ErrValidation indicates operation input that fails a precondition check.
	ErrValidation = errors.New("validation failed")
)
