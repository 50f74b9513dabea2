package commands

import (
	"fmt"
	"strings"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// EditNodeValue changes the value of a leaf node. For an element without element children
// the value replaces its text content.
type EditNodeValue struct {
	view     *domain.TreeView
	node     *domain.ViewNode
	oldValue string
	newValue string

	// element content
	element  bool
	saved    []savedChild
	textNode *domain.ViewNode
}

type savedChild struct {
	view  *domain.ViewNode
	index int
}

// NewEditNodeValue creates a new EditNodeValue
func NewEditNodeValue(view *domain.TreeView, node *domain.ViewNode, value string) (*EditNodeValue, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	n := node.Node()
	if n == nil {
		return nil, application.ErrNodeNotCreated
	}
	if err := checkValue(n.Type(), value); err != nil {
		return nil, err
	}
	c := &EditNodeValue{view: view, node: node, newValue: value}
	switch n.Type() {
	case domain.NodeAttribute, domain.NodeText, domain.NodeCDATA, domain.NodeComment,
		domain.NodeProcessingInstruction, domain.NodeXmlDeclaration, domain.NodeDocumentType,
		domain.NodeWhitespace, domain.NodeSignificantWhitespace:
		c.oldValue = n.Value()
	case domain.NodeElement:
		for _, ch := range n.Children() {
			if ch.Type() == domain.NodeElement {
				return nil, fmt.Errorf("%w: %s has child elements", application.ErrValueNotEditable, n.Name())
			}
		}
		c.element = true
		c.oldValue = n.InnerText()
	default:
		return nil, fmt.Errorf("%w: %s", application.ErrValueNotEditable, n.Type())
	}
	return c, nil
}

func (c *EditNodeValue) Name() string { return "Edit " + c.node.Text() }

// IsNoop is true when the value does not change. An element whose text is split over
// several nodes is never a no-op, so editing it normalizes the content.
func (c *EditNodeValue) IsNoop() bool {
	if c.newValue != c.oldValue {
		return false
	}
	if !c.element {
		return true
	}
	n := c.node.Node()
	switch n.ChildCount() {
	case 0:
		return true
	case 1:
		return n.FirstChild().Type() == domain.NodeText
	}
	return false
}

func (c *EditNodeValue) Do() error {
	if !c.element {
		return c.setValue(c.newValue)
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	c.saved = c.saved[:0]
	for _, ch := range c.node.Children() {
		if ch.IsAttribute() {
			continue
		}
		c.saved = append(c.saved, savedChild{view: ch, index: ch.Index()})
	}
	for i := len(c.saved) - 1; i >= 0; i-- {
		ch := c.saved[i].view
		if err := NewAnchorFor(c.view, ch).Remove(ch); err != nil {
			return err
		}
	}
	if c.newValue == "" {
		return nil
	}
	if c.textNode == nil {
		c.textNode = domain.NewViewNodeFor(c.view.Document().CreateTextNode(c.newValue))
	}
	anchor := NewAnchorInto(c.view, c.node)
	return anchor.Insert(anchor.Count(), PositionChild, c.textNode, false)
}

func (c *EditNodeValue) Undo() error {
	if !c.element {
		return c.setValue(c.oldValue)
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	if c.textNode != nil && c.view.Contains(c.textNode) {
		if err := NewAnchorFor(c.view, c.textNode).Remove(c.textNode); err != nil {
			return err
		}
	}
	anchor := NewAnchorInto(c.view, c.node)
	for _, s := range c.saved {
		if err := anchor.Insert(s.index, PositionBefore, s.view, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *EditNodeValue) Redo() error { return c.Do() }

func (c *EditNodeValue) setValue(v string) error {
	n := c.node.Node()
	n.SetValue(v)
	c.node.SetNode(n)
	return nil
}

// checkValue refuses values that would not read back as the same node once saved
func checkValue(kind domain.NodeType, value string) error {
	switch kind {
	case domain.NodeComment:
		if strings.Contains(value, "--") || strings.HasSuffix(value, "-") {
			return fmt.Errorf(`%w: a comment cannot contain "--" or end with "-"`, application.ErrValueNotEditable)
		}
	case domain.NodeCDATA:
		if strings.Contains(value, "]]>") {
			return fmt.Errorf(`%w: a CDATA section cannot contain "]]>"`, application.ErrValueNotEditable)
		}
	case domain.NodeProcessingInstruction, domain.NodeXmlDeclaration:
		if strings.Contains(value, "?>") {
			return fmt.Errorf(`%w: %s cannot contain "?>"`, application.ErrValueNotEditable, kind)
		}
	case domain.NodeWhitespace, domain.NodeSignificantWhitespace:
		if strings.TrimSpace(value) != "" {
			return fmt.Errorf("%w: %s holds only white space", application.ErrValueNotEditable, kind)
		}
	}
	return nil
}
