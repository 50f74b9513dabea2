package commands

import (
	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// DeleteNode removes a node and its document node
type DeleteNode struct {
	view   *domain.TreeView
	node   *domain.ViewNode
	anchor *Anchor
	index  int
}

// NewDeleteNode creates a new DeleteNode
func NewDeleteNode(view *domain.TreeView, node *domain.ViewNode) *DeleteNode {
	return &DeleteNode{view: view, node: node, index: -1}
}

func (c *DeleteNode) Name() string { return "Delete " + c.node.Text() }

func (c *DeleteNode) IsNoop() bool { return false }

// Node returns the deleted view node
func (c *DeleteNode) Node() *domain.ViewNode { return c.node }

// Validate checks the node is part of the view
func (c *DeleteNode) Validate() error {
	if c.node == nil {
		return &application.ValidationError{Field: "node", Message: "node is required"}
	}
	if !c.view.Contains(c.node) {
		return application.ErrNotAChild
	}
	return nil
}

// Do removes the node. The selection moves to the next sibling, the previous one or the parent.
func (c *DeleteNode) Do() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	c.anchor = NewAnchorFor(c.view, c.node)
	c.index = c.node.Index()
	next := c.node.NextSibling()
	if next == nil {
		next = c.node.PrevSibling()
	}
	if next == nil {
		next = c.node.Parent()
	}
	if err := c.anchor.Remove(c.node); err != nil {
		return err
	}
	c.view.SetSelectedNode(next)
	return nil
}

// Undo puts the node back at its original index and selects it
func (c *DeleteNode) Undo() error {
	if c.anchor == nil {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	return c.anchor.Insert(c.index, PositionBefore, c.node, true)
}

func (c *DeleteNode) Redo() error { return c.Do() }
