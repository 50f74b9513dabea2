package commands

import (
	"fmt"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// NewEditNodeName creates the rename command matching the node's kind
func NewEditNodeName(view *domain.TreeView, node *domain.ViewNode, qname string) (Command, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	if node.Node() == nil {
		return nil, application.ErrNodeNotCreated
	}
	switch node.Kind() {
	case domain.NodeElement:
		return NewEditElementName(view, node, qname)
	case domain.NodeAttribute:
		return NewEditAttributeName(view, node, qname)
	case domain.NodeProcessingInstruction:
		return NewEditProcessingInstructionName(view, node, qname)
	}
	return nil, fmt.Errorf("%w: %s", application.ErrNodeNameNotEditable, node.Kind())
}

// EditElementName renames an element by building a new element with the new name and
// moving the attributes and children of the old one across
type EditElementName struct {
	view    *domain.TreeView
	node    *domain.ViewNode
	oldNode *domain.Node
	newNode *domain.Node
	decl    *InsertNode
	noop    bool
}

// NewEditElementName creates a new EditElementName
func NewEditElementName(view *domain.TreeView, node *domain.ViewNode, qname string) (*EditElementName, error) {
	old, err := renameSource(node, domain.NodeElement)
	if err != nil {
		return nil, err
	}
	name, needsDecl, err := resolveName(qname, old, false)
	if err != nil {
		return nil, err
	}
	c := &EditElementName{view: view, node: node, oldNode: old}
	if sameName(old, name) {
		c.noop = true
		return c, nil
	}
	doc := view.Document()
	c.newNode = doc.CreateElement(name.Prefix, name.LocalName, name.Namespace)
	if needsDecl {
		c.decl = NewInsertNodeFor(view, PositionChild, node, domain.NewViewNodeFor(newDeclaration(doc, name.Prefix, name.Namespace)))
	}
	return c, nil
}

func (c *EditElementName) Name() string { return "Rename " + c.oldNode.Name() }

func (c *EditElementName) IsNoop() bool { return c.noop }

// NewNode returns the element that replaces the old one
func (c *EditElementName) NewNode() *domain.Node { return c.newNode }

func (c *EditElementName) Do() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	if err := c.swap(c.oldNode, c.newNode); err != nil {
		return err
	}
	if c.decl != nil {
		if err := c.decl.Do(); err != nil {
			_ = c.swap(c.newNode, c.oldNode)
			return err
		}
	}
	return nil
}

func (c *EditElementName) Undo() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	if c.decl != nil {
		if err := c.decl.Undo(); err != nil {
			return err
		}
	}
	return c.swap(c.newNode, c.oldNode)
}

func (c *EditElementName) Redo() error { return c.Do() }

func (c *EditElementName) swap(from, to *domain.Node) error {
	parent := from.Parent()
	if parent == nil {
		return application.ErrNotAChild
	}
	for _, a := range from.Attributes() {
		if err := from.RemoveAttribute(a); err != nil {
			return err
		}
		if err := to.AppendAttribute(a); err != nil {
			return err
		}
	}
	for _, ch := range from.Children() {
		if err := from.RemoveChild(ch); err != nil {
			return err
		}
		if err := to.AppendChild(ch); err != nil {
			return err
		}
	}
	if err := replaceChild(parent, to, from); err != nil {
		return err
	}
	c.node.SetNode(to)
	return nil
}

// EditAttributeName renames an attribute by replacing it with a new attribute that carries
// the old value. Only the value is copied.
type EditAttributeName struct {
	view    *domain.TreeView
	node    *domain.ViewNode
	owner   *domain.Node
	oldNode *domain.Node
	newNode *domain.Node
	decl    *InsertNode
	noop    bool
}

// NewEditAttributeName creates a new EditAttributeName
func NewEditAttributeName(view *domain.TreeView, node *domain.ViewNode, qname string) (*EditAttributeName, error) {
	old, err := renameSource(node, domain.NodeAttribute)
	if err != nil {
		return nil, err
	}
	owner := old.OwnerElement()
	if owner == nil {
		return nil, application.ErrNotAChild
	}
	name, needsDecl, err := resolveName(qname, owner, true)
	if err != nil {
		return nil, err
	}
	c := &EditAttributeName{view: view, node: node, owner: owner, oldNode: old}
	if sameName(old, name) {
		c.noop = true
		return c, nil
	}
	if dup := owner.AttributeNode(name.LocalName, name.Namespace); dup != nil && dup != old {
		return nil, application.ErrDuplicateAttribute
	}
	doc := view.Document()
	c.newNode = doc.CreateAttribute(name.Prefix, name.LocalName, name.Namespace)
	c.newNode.SetValue(old.Value())
	if needsDecl {
		ownerView := node.Parent()
		if ownerView == nil {
			ownerView = view.FindNode(owner)
		}
		if ownerView == nil {
			return nil, application.ErrNotAChild
		}
		c.decl = NewInsertNodeFor(view, PositionChild, ownerView, domain.NewViewNodeFor(newDeclaration(doc, name.Prefix, name.Namespace)))
	}
	return c, nil
}

func (c *EditAttributeName) Name() string { return "Rename " + c.oldNode.Name() }

func (c *EditAttributeName) IsNoop() bool { return c.noop }

// NewNode returns the attribute that replaces the old one
func (c *EditAttributeName) NewNode() *domain.Node { return c.newNode }

func (c *EditAttributeName) Do() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	if err := c.swap(c.oldNode, c.newNode); err != nil {
		return err
	}
	if c.decl != nil {
		if err := c.decl.Do(); err != nil {
			_ = c.swap(c.newNode, c.oldNode)
			return err
		}
	}
	return nil
}

func (c *EditAttributeName) Undo() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	if c.decl != nil {
		if err := c.decl.Undo(); err != nil {
			return err
		}
	}
	return c.swap(c.newNode, c.oldNode)
}

func (c *EditAttributeName) Redo() error { return c.Do() }

func (c *EditAttributeName) swap(from, to *domain.Node) error {
	if err := c.owner.InsertAttributeBefore(to, from); err != nil {
		return err
	}
	if err := c.owner.RemoveAttribute(from); err != nil {
		_ = c.owner.RemoveAttribute(to)
		return err
	}
	c.node.SetNode(to)
	return nil
}

// EditProcessingInstructionName changes the target of a processing instruction
type EditProcessingInstructionName struct {
	view    *domain.TreeView
	node    *domain.ViewNode
	oldNode *domain.Node
	newNode *domain.Node
}

// NewEditProcessingInstructionName creates a new EditProcessingInstructionName
func NewEditProcessingInstructionName(view *domain.TreeView, node *domain.ViewNode, target string) (*EditProcessingInstructionName, error) {
	old, err := renameSource(node, domain.NodeProcessingInstruction)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateQName(target); err != nil {
		return nil, err
	}
	c := &EditProcessingInstructionName{view: view, node: node, oldNode: old}
	if old.Name() != target {
		c.newNode = view.Document().CreateProcessingInstruction(target, old.Value())
	}
	return c, nil
}

func (c *EditProcessingInstructionName) Name() string { return "Rename " + c.oldNode.Name() }

func (c *EditProcessingInstructionName) IsNoop() bool { return c.newNode == nil }

// NewNode returns the instruction that replaces the old one
func (c *EditProcessingInstructionName) NewNode() *domain.Node { return c.newNode }

func (c *EditProcessingInstructionName) Do() error {
	if c.newNode == nil {
		return nil
	}
	return c.swap(c.oldNode, c.newNode)
}

func (c *EditProcessingInstructionName) Undo() error {
	if c.newNode == nil {
		return nil
	}
	return c.swap(c.newNode, c.oldNode)
}

func (c *EditProcessingInstructionName) Redo() error { return c.Do() }

func (c *EditProcessingInstructionName) swap(from, to *domain.Node) error {
	parent := from.Parent()
	if parent == nil {
		return application.ErrNotAChild
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	if err := replaceChild(parent, to, from); err != nil {
		return err
	}
	c.node.SetNode(to)
	return nil
}

func renameSource(node *domain.ViewNode, kind domain.NodeType) (*domain.Node, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	n := node.Node()
	if n == nil {
		return nil, application.ErrNodeNotCreated
	}
	if n.Type() != kind {
		return nil, fmt.Errorf("%w: %s", application.ErrNodeNameNotEditable, n.Type())
	}
	return n, nil
}

func sameName(n *domain.Node, name domain.XmlName) bool {
	return n.Prefix() == name.Prefix && n.LocalName() == name.LocalName && n.NamespaceURI() == name.Namespace
}

// replaceChild splices to into parent where from is and removes from
func replaceChild(parent, to, from *domain.Node) error {
	if err := parent.InsertBefore(to, from); err != nil {
		return err
	}
	if err := parent.RemoveChild(from); err != nil {
		_ = parent.RemoveChild(to)
		return err
	}
	return nil
}
