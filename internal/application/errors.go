package application

import (
	"errors"
	"fmt"

	"xmlpad/internal/domain"
)

// Errors from the document model, re-exported for adapters
var (
	ErrDuplicateAttribute = domain.ErrDuplicateAttribute
	ErrNotAChild          = domain.ErrNotAChild
	ErrUnexpectedNodeType = domain.ErrUnexpectedNodeType
	ErrInvalidName        = domain.ErrInvalidName
	ErrMalformed          = domain.ErrMalformed
)

// Naming errors
var (
	// ErrNodeNotCreated indicates a rename was attempted before the node had a name.
	ErrNodeNotCreated = errors.New("node has not been created yet")

	// ErrNodeNameNotEditable indicates the node kind has no editable name.
	ErrNodeNameNotEditable = errors.New("node name is not editable")
)

// Placement errors
var (
	ErrRootLevelAttributes    = errors.New("attributes cannot be placed at the root level")
	ErrRootLevelText          = errors.New("text cannot be placed at the root level")
	ErrRootLevelElements      = errors.New("the document already has a root element")
	ErrRootLevelBeforeXmlDecl = errors.New("nothing can be placed before the xml declaration")
	ErrInvalidChild           = errors.New("node type cannot be a child of this parent")
	ErrMoveIntoSelf           = errors.New("node cannot be moved below itself")
	ErrCannotNudge            = errors.New("node cannot be nudged in that direction")
	ErrValueNotEditable       = errors.New("node value is not editable")
)

// Session errors
var (
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrNoSelection    = errors.New("no node selected")
	ErrEmptyClipboard = errors.New("clipboard is empty")
	ErrNoHistory      = errors.New("clipboard history is not configured")
	ErrEntryNotFound  = errors.New("clipboard history entry not found")
	ErrAmbiguousEntry = errors.New("clipboard history id prefix matches several entries")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NodeError ties a failure to the command and node it happened on
type NodeError struct {
	Op   string
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// NewNodeError wraps err for the named operation on v
func NewNodeError(op string, v *domain.ViewNode, err error) error {
	name := ""
	if v != nil {
		name = v.Text()
	}
	return &NodeError{Op: op, Node: name, Err: err}
}
