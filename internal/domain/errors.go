package domain

import "errors"

// Structural errors raised by the document model
var (
	// ErrNotAChild indicates the node is not present in the addressed collection.
	ErrNotAChild = errors.New("node is not a child of this parent")

	// ErrUnexpectedNodeType indicates a node kind cannot be created or placed here.
	ErrUnexpectedNodeType = errors.New("unexpected node type")

	// ErrDuplicateAttribute indicates an attribute with the same local name and
	// namespace already exists on the owner element.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrCircularInsert indicates a node would become its own descendant.
	ErrCircularInsert = errors.New("node cannot be inserted below itself")
)

// Name errors
var (
	// ErrInvalidName indicates a string is not a valid XML qualified name.
	ErrInvalidName = errors.New("invalid name")
)
