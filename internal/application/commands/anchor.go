package commands

import (
	"slices"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// AnchorKind classifies what an Anchor addresses
type AnchorKind int

const (
	// AnchorDocumentRoot addresses the top-level nodes of the document
	AnchorDocumentRoot AnchorKind = iota
	// AnchorElementChildren addresses an element's attributes followed by its children
	AnchorElementChildren
	// AnchorElementAttributes addresses only an element's attribute collection
	AnchorElementAttributes
)

// Anchor normalizes "where a node lives" so insertion and removal work the same way
// for the document root, an element's children and an element's attributes.
// Indices are view indices: for an element, attributes come first, then children.
type Anchor struct {
	kind     AnchorKind
	view     *domain.TreeView
	parent   *domain.ViewNode
	xparent  *domain.Node
	attached bool
}

// NewAnchorFor resolves the anchor that currently holds v. The parent is captured now,
// so a later Remove targets this parent even if v has been reparented since.
func NewAnchorFor(view *domain.TreeView, v *domain.ViewNode) *Anchor {
	a := &Anchor{view: view, attached: view.Contains(v)}
	if p := v.Parent(); p != nil {
		a.parent = p
		if pn := p.Node(); pn != nil && pn.Type() == domain.NodeElement {
			a.kind = AnchorElementChildren
			a.xparent = pn
			return a
		}
	}
	if n := v.Node(); n != nil && n.Type() == domain.NodeAttribute && n.OwnerElement() != nil {
		a.kind = AnchorElementAttributes
		a.xparent = n.OwnerElement()
		a.parent = view.FindNode(a.xparent)
		return a
	}
	a.kind = AnchorDocumentRoot
	a.xparent = view.Document().Node()
	return a
}

// NewAnchorInto addresses the children of parent. A nil parent addresses the document root.
func NewAnchorInto(view *domain.TreeView, parent *domain.ViewNode) *Anchor {
	a := &Anchor{view: view, parent: parent, attached: true}
	if parent != nil {
		a.attached = view.Contains(parent)
		if pn := parent.Node(); pn != nil && pn.Type() == domain.NodeElement {
			a.kind = AnchorElementChildren
			a.xparent = pn
			return a
		}
	}
	a.kind = AnchorDocumentRoot
	a.parent = nil
	a.xparent = view.Document().Node()
	return a
}

// NewAttributeAnchor addresses only the attribute collection of an element view node
func NewAttributeAnchor(view *domain.TreeView, element *domain.ViewNode) *Anchor {
	return &Anchor{
		kind:     AnchorElementAttributes,
		view:     view,
		parent:   element,
		xparent:  element.Node(),
		attached: view.Contains(element),
	}
}

func (a *Anchor) Kind() AnchorKind { return a.kind }

// Parent returns the view node holding the anchored nodes, nil at the root
func (a *Anchor) Parent() *domain.ViewNode { return a.parent }

// XmlParent returns the document node (document or element) holding the anchored nodes
func (a *Anchor) XmlParent() *domain.Node { return a.xparent }

// Attached reports whether the reference node was part of the live view
func (a *Anchor) Attached() bool { return a.attached }

// IsRoot reports whether the anchor is the document root
func (a *Anchor) IsRoot() bool { return a.kind == AnchorDocumentRoot }

// IsElement reports whether the anchor is an element
func (a *Anchor) IsElement() bool { return a.kind != AnchorDocumentRoot }

// Count returns the number of view nodes under the anchor
func (a *Anchor) Count() int {
	if a.kind == AnchorElementAttributes {
		return a.AttributeCount()
	}
	return len(a.viewChildren())
}

// AttributeCount returns the number of attributes of an element anchor, 0 otherwise
func (a *Anchor) AttributeCount() int {
	if a.kind == AnchorDocumentRoot {
		return 0
	}
	return a.xparent.AttributeCount()
}

// ChildCount returns the number of non-attribute children. Always 0 for an attribute anchor.
func (a *Anchor) ChildCount() int {
	if a.kind == AnchorElementAttributes {
		return 0
	}
	return a.xparent.ChildCount()
}

// NodeAt returns the view node at index i, or nil
func (a *Anchor) NodeAt(i int) *domain.ViewNode {
	list := a.viewChildren()
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// IndexOf returns the view index of v under the anchor, or -1
func (a *Anchor) IndexOf(v *domain.ViewNode) int {
	return slices.Index(a.viewChildren(), v)
}

func (a *Anchor) viewChildren() []*domain.ViewNode {
	if a.parent != nil {
		return a.parent.Children()
	}
	return a.view.Nodes()
}

// Insert places v (and its document node, when it has one) at index. After adds one
// to the index; Before and Child use it as is.
func (a *Anchor) Insert(index int, pos Position, v *domain.ViewNode, selectIt bool) error {
	if pos == PositionAfter {
		index++
	}
	if n := v.Node(); n != nil {
		if err := a.insertXml(index, n); err != nil {
			return err
		}
	}
	if a.parent != nil {
		a.parent.Insert(index, v)
	} else {
		a.view.Insert(index, v)
	}
	if v.Node() != nil {
		a.view.NotifyInserted(v)
	}
	if selectIt {
		a.view.SetSelectedNode(v)
	}
	return nil
}

// InsertXml places the document node of an already positioned view node, used when the
// node is created after its view node was shown (e.g. once a name has been typed).
func (a *Anchor) InsertXml(v *domain.ViewNode) error {
	index := a.IndexOf(v)
	if index < 0 {
		return application.ErrNotAChild
	}
	if err := a.insertXml(index, v.Node()); err != nil {
		return err
	}
	a.view.NotifyInserted(v)
	return nil
}

func (a *Anchor) insertXml(index int, n *domain.Node) error {
	if n.Type() == domain.NodeAttribute {
		if a.kind == AnchorDocumentRoot {
			return application.ErrRootLevelAttributes
		}
		if dup := a.xparent.AttributeNode(n.LocalName(), n.NamespaceURI()); dup != nil && dup != n {
			return application.ErrDuplicateAttribute
		}
		if ref := a.xparent.AttributeAt(index); ref != nil && index >= 0 {
			return a.xparent.InsertAttributeBefore(n, ref)
		}
		return a.xparent.AppendAttribute(n)
	}
	if a.kind == AnchorElementAttributes {
		return application.ErrUnexpectedNodeType
	}
	ci := index - a.AttributeCount()
	if ci < 0 {
		ci = 0
	}
	if ref := a.xparent.ChildAt(ci); ref != nil {
		return a.xparent.InsertBefore(n, ref)
	}
	return a.xparent.AppendChild(n)
}

// Remove detaches v (and its document node) from the parent captured by this anchor
func (a *Anchor) Remove(v *domain.ViewNode) error {
	if v.Parent() != a.parent {
		return application.ErrNotAChild
	}
	if a.parent == nil && a.IndexOf(v) < 0 {
		return application.ErrNotAChild
	}
	if n := v.Node(); n != nil {
		var err error
		if n.Type() == domain.NodeAttribute {
			err = a.xparent.RemoveAttribute(n)
		} else {
			err = a.xparent.RemoveChild(n)
		}
		if err != nil {
			return err
		}
	}
	v.Remove()
	return nil
}
