package commands

import (
	"fmt"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// InsertNode inserts a node relative to a target view node. A nil target means the
// document root.
//
// Built with NewInsertNode it creates a fresh node of a kind; kinds that need a name get
// their document node later, through Commit or SetXmlNode. Built with NewInsertNodeFor
// it places an existing, fully formed view node.
type InsertNode struct {
	view   *domain.TreeView
	pos    Position
	target *domain.ViewNode
	kind   domain.NodeType

	node *domain.ViewNode
	decl *InsertNode
}

// NewInsertNode creates a command inserting a new node of kind
func NewInsertNode(view *domain.TreeView, pos Position, kind domain.NodeType, target *domain.ViewNode) *InsertNode {
	return &InsertNode{view: view, pos: pos, target: target, kind: kind}
}

// NewInsertNodeFor creates a command inserting an existing view node
func NewInsertNodeFor(view *domain.TreeView, pos Position, target, node *domain.ViewNode) *InsertNode {
	return &InsertNode{view: view, pos: pos, target: target, kind: node.Kind(), node: node}
}

func (c *InsertNode) Name() string { return "Insert " + c.kind.String() }

func (c *InsertNode) IsNoop() bool { return false }

// NewNode returns the inserted view node, nil before the first Do of a fresh node
func (c *InsertNode) NewNode() *domain.ViewNode { return c.node }

// Position returns the requested position
func (c *InsertNode) Position() Position { return c.pos }

// Target returns the node the insertion is relative to
func (c *InsertNode) Target() *domain.ViewNode { return c.target }

// Validate checks the insertion against the legality rules
func (c *InsertNode) Validate() error {
	if err := checkPlacement(c.view, c.pos, c.kind, c.target, nil); err != nil {
		return err
	}
	if c.node == nil && !domain.CanCreate(c.kind) {
		return fmt.Errorf("%w: %s", application.ErrUnexpectedNodeType, c.kind)
	}
	return nil
}

// Do inserts the node and selects it
func (c *InsertNode) Do() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	if c.node == nil {
		c.node = domain.NewViewNode(c.kind)
	}
	if c.node.Node() == nil && !c.kind.RequiresName() {
		n, err := c.view.Document().CreateNode(c.kind, domain.XmlName{})
		if err != nil {
			return err
		}
		c.node.SetNode(n)
	}
	anchor, index, pos := resolvePlacement(c.view, c.kind, c.pos, c.target)
	if err := anchor.Insert(index, pos, c.node, true); err != nil {
		return err
	}
	if c.decl != nil {
		if err := c.decl.Do(); err != nil {
			_ = NewAnchorFor(c.view, c.node).Remove(c.node)
			return err
		}
		c.view.SetSelectedNode(c.node)
	}
	return nil
}

// Undo removes the node from wherever it is now
func (c *InsertNode) Undo() error {
	if c.node == nil {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	if c.view.EditingNode() == c.node {
		c.view.CancelEdit()
	}
	if c.decl != nil {
		if err := c.decl.Undo(); err != nil {
			return err
		}
	}
	return NewAnchorFor(c.view, c.node).Remove(c.node)
}

func (c *InsertNode) Redo() error { return c.Do() }

// Commit names a node inserted without a document node and creates it
func (c *InsertNode) Commit(qname string) error {
	if c.node == nil || c.node.View() == nil {
		return application.ErrNodeNotCreated
	}
	if c.node.Node() != nil {
		return fmt.Errorf("%w: %s already has a name", application.ErrNodeNameNotEditable, c.node.Text())
	}
	anchor := NewAnchorFor(c.view, c.node)
	context := anchor.XmlParent()
	n, decl, err := createNamed(c.view.Document(), c.kind, qname, context)
	if err != nil {
		return err
	}
	if err := c.SetXmlNode(n); err != nil {
		return err
	}
	if decl != nil && anchor.Parent() != nil {
		c.decl = NewInsertNodeFor(c.view, PositionChild, anchor.Parent(), domain.NewViewNodeFor(decl))
		if err := c.decl.Do(); err != nil {
			c.decl = nil
			return err
		}
	}
	return nil
}

// SetXmlNode attaches the document node of a node inserted without one, placing it in
// the document at the view node's position
func (c *InsertNode) SetXmlNode(n *domain.Node) error {
	if c.node == nil || c.node.View() == nil {
		return application.ErrNodeNotCreated
	}
	anchor := NewAnchorFor(c.view, c.node)
	if n.Type() == domain.NodeElement && anchor.IsRoot() {
		if root := c.view.Document().DocumentElement(); root != nil && root != n {
			return application.ErrRootLevelElements
		}
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	c.node.SetNode(n)
	if err := anchor.InsertXml(c.node); err != nil {
		c.node.SetNode(nil)
		return err
	}
	for i, a := range n.Attributes() {
		c.node.Insert(i, domain.NewViewNodeFor(a))
	}
	c.node.SetLabel("")
	if c.view.EditingNode() == c.node {
		c.view.EndEdit()
	}
	return nil
}

// resolvePlacement resolves the anchor, view index and position for placing a node of
// kind relative to target. Attributes stay in front of the other children: an attribute
// placed next to a non-attribute goes after the last attribute, and a non-attribute
// placed next to an attribute goes before the first non-attribute.
func resolvePlacement(view *domain.TreeView, kind domain.NodeType, pos Position, target *domain.ViewNode) (*Anchor, int, Position) {
	if target == nil {
		a := NewAnchorInto(view, nil)
		return a, a.Count(), PositionChild
	}
	attr := kind == domain.NodeAttribute
	if pos == PositionChild {
		a := NewAnchorInto(view, target)
		if attr {
			return a, a.AttributeCount(), PositionChild
		}
		return a, a.Count(), PositionChild
	}
	a := NewAnchorFor(view, target)
	if attr != target.IsAttribute() {
		return a, a.AttributeCount(), PositionChild
	}
	return a, target.Index(), pos
}
