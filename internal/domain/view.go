package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Image indices shown next to view nodes. They also travel with clipboard payloads.
const (
	ImageElement = iota
	ImageAttribute
	ImageLeafElement
	ImageText
	ImageComment
	ImagePI
	ImageOpenElement
	ImageCDATA
	ImageDocType
	ImageWhitespace
)

// ViewNode is the display counterpart of a document node.
// It owns its children and holds a non-owning reference to the document node, which
// is nil while a node is being created and has no name yet.
type ViewNode struct {
	kind     NodeType
	node     *Node
	label    string
	parent   *ViewNode
	children []*ViewNode
	view     *TreeView
	image    int
	Expanded bool
}

// NewViewNode creates a detached view node of the given kind without a document node
func NewViewNode(kind NodeType) *ViewNode {
	v := &ViewNode{kind: kind}
	v.updateImage()
	return v
}

// NewViewNodeFor creates a detached view subtree mirroring n (attributes first, then children)
func NewViewNodeFor(n *Node) *ViewNode {
	v := &ViewNode{kind: n.typ, node: n}
	if n.typ == NodeElement {
		for _, a := range n.attrs {
			v.appendChild(NewViewNodeFor(a))
		}
		for _, c := range n.children {
			v.appendChild(NewViewNodeFor(c))
		}
	}
	v.updateImage()
	return v
}

func (v *ViewNode) appendChild(c *ViewNode) {
	c.parent = v
	v.children = append(v.children, c)
}

// Kind returns the node kind the view node represents
func (v *ViewNode) Kind() NodeType { return v.kind }

// Node returns the mirrored document node, nil until created
func (v *ViewNode) Node() *Node { return v.node }

// SetNode replaces the mirrored document node and keeps the view index current
func (v *ViewNode) SetNode(n *Node) {
	if v.view != nil && v.node != nil {
		delete(v.view.index, v.node)
	}
	v.node = n
	if n != nil {
		v.kind = n.typ
	}
	if v.view != nil && n != nil {
		v.view.index[n] = v
	}
	v.updateImage()
	if v.view != nil {
		v.view.notify(ViewEvent{Kind: EventChanged, Node: v})
	}
}

// Label returns the pending name of a node that has no document node yet
func (v *ViewNode) Label() string { return v.label }

// SetLabel records the pending name of a node under construction
func (v *ViewNode) SetLabel(s string) { v.label = s }

// Parent returns the parent view node, nil for top-level nodes
func (v *ViewNode) Parent() *ViewNode { return v.parent }

// View returns the tree the node is attached to, nil when detached
func (v *ViewNode) View() *TreeView { return v.view }

// Children returns a copy of the child list
func (v *ViewNode) Children() []*ViewNode { return slices.Clone(v.children) }

// ChildCount returns the number of child view nodes
func (v *ViewNode) ChildCount() int { return len(v.children) }

// ChildAt returns the i-th child or nil
func (v *ViewNode) ChildAt(i int) *ViewNode {
	if i < 0 || i >= len(v.children) {
		return nil
	}
	return v.children[i]
}

// ImageIndex returns the icon index for the node
func (v *ViewNode) ImageIndex() int { return v.image }

// IsAttribute reports whether the node stands for an attribute
func (v *ViewNode) IsAttribute() bool { return v.kind == NodeAttribute }

// Index returns the position among siblings (or top-level nodes), -1 when detached
func (v *ViewNode) Index() int {
	if v.parent != nil {
		return slices.Index(v.parent.children, v)
	}
	if v.view != nil {
		return slices.Index(v.view.roots, v)
	}
	return -1
}

// Siblings returns the list the node lives in
func (v *ViewNode) Siblings() []*ViewNode {
	if v.parent != nil {
		return v.parent.Children()
	}
	if v.view != nil {
		return v.view.Nodes()
	}
	return nil
}

// PrevSibling returns the previous visible sibling or nil
func (v *ViewNode) PrevSibling() *ViewNode {
	sib := v.Siblings()
	i := slices.Index(sib, v)
	if i <= 0 {
		return nil
	}
	return sib[i-1]
}

// NextSibling returns the next visible sibling or nil
func (v *ViewNode) NextSibling() *ViewNode {
	sib := v.Siblings()
	i := slices.Index(sib, v)
	if i < 0 || i+1 >= len(sib) {
		return nil
	}
	return sib[i+1]
}

// IsDescendantOf reports whether v lies below other
func (v *ViewNode) IsDescendantOf(other *ViewNode) bool {
	for p := v.parent; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// Text returns a one-line rendering used by hosts: name plus value
func (v *ViewNode) Text() string {
	if v.node == nil {
		if v.label != "" {
			return v.label
		}
		return "<" + v.kind.String() + ">"
	}
	n := v.node
	switch n.typ {
	case NodeElement:
		if text := v.leafText(); text != "" {
			return n.Name() + " = " + strconv.Quote(text)
		}
		return n.Name()
	case NodeAttribute:
		return n.Name() + " = " + strconv.Quote(n.value)
	case NodeProcessingInstruction, NodeXmlDeclaration, NodeDocumentType:
		return strings.TrimSpace(n.Name() + " " + n.value)
	default:
		return n.Name() + " " + strconv.Quote(n.value)
	}
}

func (v *ViewNode) leafText() string {
	for _, c := range v.node.children {
		if c.typ == NodeElement {
			return ""
		}
	}
	return v.node.InnerText()
}

// Insert adds child at index i (clamped to the valid range)
func (v *ViewNode) Insert(i int, child *ViewNode) {
	if i < 0 {
		i = 0
	}
	if i > len(v.children) {
		i = len(v.children)
	}
	child.detach()
	child.parent = v
	v.children = slices.Insert(v.children, i, child)
	v.updateImage()
	if v.view != nil {
		v.view.attach(child)
	}
}

// Remove detaches the node from its parent or from the view's top-level list.
// The former parent's image is recalculated.
func (v *ViewNode) Remove() {
	parent := v.parent
	view := v.view
	v.detach()
	if parent != nil {
		parent.updateImage()
	}
	if view != nil {
		view.detachIndex(v)
		view.notify(ViewEvent{Kind: EventRemoved, Node: v})
	}
}

func (v *ViewNode) detach() {
	if v.parent != nil {
		i := slices.Index(v.parent.children, v)
		if i >= 0 {
			v.parent.children = slices.Delete(v.parent.children, i, i+1)
		}
		v.parent = nil
		return
	}
	if v.view != nil {
		i := slices.Index(v.view.roots, v)
		if i >= 0 {
			v.view.roots = slices.Delete(v.view.roots, i, i+1)
		}
	}
}

func (v *ViewNode) updateImage() {
	switch v.kind {
	case NodeElement:
		switch {
		case len(v.children) == 0:
			v.image = ImageLeafElement
		case v.Expanded:
			v.image = ImageOpenElement
		default:
			v.image = ImageElement
		}
	case NodeAttribute:
		v.image = ImageAttribute
	case NodeComment:
		v.image = ImageComment
	case NodeProcessingInstruction, NodeXmlDeclaration:
		v.image = ImagePI
	case NodeCDATA:
		v.image = ImageCDATA
	case NodeDocumentType:
		v.image = ImageDocType
	case NodeWhitespace, NodeSignificantWhitespace:
		v.image = ImageWhitespace
	default:
		v.image = ImageText
	}
}

// NodePath addresses a view node by child indices from the top-level list.
// Example: [0, 1, 3] means roots[0] -> child[1] -> child[3]
type NodePath []int

func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// ParseNodePath parses "/0/1/3" (or "0.1.3") into a NodePath
func ParseNodePath(s string) (NodePath, error) {
	s = strings.Trim(strings.TrimSpace(s), "/.")
	if s == "" {
		return NodePath{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '.' })
	path := make(NodePath, 0, len(fields))
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid path segment %q", f)
		}
		path = append(path, i)
	}
	return path, nil
}
