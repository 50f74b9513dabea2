package commands

import (
	"fmt"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// PasteCommand inserts the clipboard payload relative to a target
type PasteCommand struct {
	view   *domain.TreeView
	insert *InsertNode
}

// NewPasteCommand reads the clipboard and prepares the insertion. A nil target means the
// selection, then the first top-level node, then the document root.
func NewPasteCommand(view *domain.TreeView, clipboard ports.Clipboard, pos Position, target *domain.ViewNode) (*PasteCommand, error) {
	data, err := clipboard.TreeData()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if data == nil {
		return nil, application.ErrEmptyClipboard
	}
	return NewPasteTreeData(view, data, pos, target)
}

// NewPasteTreeData prepares the insertion of data. Anything pasted onto a node that is not
// an element goes after it.
func NewPasteTreeData(view *domain.TreeView, data *domain.TreeData, pos Position, target *domain.ViewNode) (*PasteCommand, error) {
	if target == nil {
		target = view.SelectedNode()
	}
	if target == nil {
		if roots := view.Nodes(); len(roots) > 0 {
			target = roots[0]
		}
	}
	if target != nil && target.Kind() != domain.NodeElement {
		pos = PositionAfter
	}

	context := resolveParent(view, pos, target)
	node, err := data.CreateViewNode(view.Document(), context)
	if err != nil {
		return nil, err
	}
	n := node.Node()
	if n.Type() == domain.NodeAttribute && context != nil {
		if context.AttributeNode(n.LocalName(), n.NamespaceURI()) != nil {
			return nil, application.ErrDuplicateAttribute
		}
	}
	insert := NewInsertNodeFor(view, pos, target, node)
	if err := insert.Validate(); err != nil {
		return nil, err
	}
	if n.Type() == domain.NodeAttribute && domain.NeedsDeclaration(n, context) {
		owner := view.FindNode(context)
		if owner == nil {
			return nil, application.ErrRootLevelAttributes
		}
		decl := newDeclaration(view.Document(), n.Prefix(), n.NamespaceURI())
		insert.decl = NewInsertNodeFor(view, PositionChild, owner, domain.NewViewNodeFor(decl))
	}
	return &PasteCommand{view: view, insert: insert}, nil
}

func (c *PasteCommand) Name() string { return "Paste " + c.insert.NewNode().Text() }

func (c *PasteCommand) IsNoop() bool { return false }

// NewNode returns the pasted view node
func (c *PasteCommand) NewNode() *domain.ViewNode { return c.insert.NewNode() }

func (c *PasteCommand) Do() error   { return c.apply(c.insert.Do) }
func (c *PasteCommand) Undo() error { return c.apply(c.insert.Undo) }
func (c *PasteCommand) Redo() error { return c.apply(c.insert.Redo) }

func (c *PasteCommand) apply(fn func() error) error {
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	return fn()
}
