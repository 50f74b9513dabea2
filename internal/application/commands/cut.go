package commands

import (
	"fmt"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// CutCommand places a node on the clipboard and removes it
type CutCommand struct {
	view      *domain.TreeView
	clipboard ports.Clipboard
	node      *domain.ViewNode
	data      *domain.TreeData
	anchor    *Anchor
	index     int
}

// NewCutCommand snapshots node and the place it is removed from
func NewCutCommand(view *domain.TreeView, clipboard ports.Clipboard, node *domain.ViewNode) (*CutCommand, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	if !view.Contains(node) {
		return nil, application.ErrNotAChild
	}
	data, err := domain.NewTreeData(node)
	if err != nil {
		return nil, err
	}
	return &CutCommand{
		view:      view,
		clipboard: clipboard,
		node:      node,
		data:      data,
		anchor:    NewAnchorFor(view, node),
		index:     node.Index(),
	}, nil
}

func (c *CutCommand) Name() string { return "Cut " + c.node.Text() }

func (c *CutCommand) IsNoop() bool { return false }

// Data returns the clipboard payload
func (c *CutCommand) Data() *domain.TreeData { return c.data }

func (c *CutCommand) Do() error {
	if err := c.clipboard.SetTreeData(c.data); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

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

// Undo puts the node back at its original index and selects it. The clipboard keeps
// the payload.
func (c *CutCommand) Undo() error {
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	return c.anchor.Insert(c.index, PositionBefore, c.node, true)
}

func (c *CutCommand) Redo() error { return c.Do() }

// Copy places the clipboard representation of node on the clipboard. It does not change
// the document, so it is not a command.
func Copy(clipboard ports.Clipboard, node *domain.ViewNode) (*domain.TreeData, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	data, err := domain.NewTreeData(node)
	if err != nil {
		return nil, err
	}
	if err := clipboard.SetTreeData(data); err != nil {
		return nil, fmt.Errorf("failed to write clipboard: %w", err)
	}
	return data, nil
}
