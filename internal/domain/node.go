package domain

import (
	"slices"
	"strings"
)

// NodeType identifies the kind of a document node
type NodeType int

const (
	NodeNone NodeType = iota
	NodeElement
	NodeAttribute
	NodeText
	NodeCDATA
	NodeEntityReference
	NodeEntity
	NodeProcessingInstruction
	NodeComment
	NodeDocument
	NodeDocumentType
	NodeDocumentFragment
	NodeNotation
	NodeWhitespace
	NodeSignificantWhitespace
	NodeEndElement
	NodeEndEntity
	NodeXmlDeclaration
)

// NodeTypeCount is the number of node kinds
const NodeTypeCount = int(NodeXmlDeclaration) + 1

var nodeTypeNames = [...]string{
	NodeNone:                  "none",
	NodeElement:               "element",
	NodeAttribute:             "attribute",
	NodeText:                  "text",
	NodeCDATA:                 "cdata",
	NodeEntityReference:       "entityref",
	NodeEntity:                "entity",
	NodeProcessingInstruction: "pi",
	NodeComment:               "comment",
	NodeDocument:              "document",
	NodeDocumentType:          "doctype",
	NodeDocumentFragment:      "fragment",
	NodeNotation:              "notation",
	NodeWhitespace:            "whitespace",
	NodeSignificantWhitespace: "significant-whitespace",
	NodeEndElement:            "end-element",
	NodeEndEntity:             "end-entity",
	NodeXmlDeclaration:        "xmldecl",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "unknown"
	}
	return nodeTypeNames[t]
}

// ParseNodeType returns the node kind with the given name
func ParseNodeType(s string) (NodeType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "processinginstruction", "processing-instruction":
		return NodeProcessingInstruction, true
	case "documenttype":
		return NodeDocumentType, true
	case "xmldeclaration", "declaration":
		return NodeXmlDeclaration, true
	}
	for i, name := range nodeTypeNames {
		if name == s {
			return NodeType(i), true
		}
	}
	return NodeNone, false
}

// RequiresName reports whether nodes of this kind need a name before they can exist
func (t NodeType) RequiresName() bool {
	return t == NodeElement || t == NodeAttribute || t == NodeProcessingInstruction
}

// Node is a typed node owned by a single Document.
// Attributes are kept apart from the child sequence and reference their owner element.
type Node struct {
	typ       NodeType
	prefix    string
	local     string
	namespace string
	value     string

	doc      *Document
	parent   *Node
	children []*Node
	attrs    []*Node
}

func (n *Node) Type() NodeType { return n.typ }

// Prefix returns the namespace prefix of an element or attribute
func (n *Node) Prefix() string { return n.prefix }

// LocalName returns the local part of the name
func (n *Node) LocalName() string { return n.local }

// NamespaceURI returns the namespace the name is bound to
func (n *Node) NamespaceURI() string { return n.namespace }

// Name returns the qualified name (prefix:local) or the pseudo name of unnamed kinds
func (n *Node) Name() string {
	switch n.typ {
	case NodeText:
		return "#text"
	case NodeCDATA:
		return "#cdata-section"
	case NodeComment:
		return "#comment"
	case NodeDocument:
		return "#document"
	case NodeWhitespace:
		return "#whitespace"
	case NodeSignificantWhitespace:
		return "#significant-whitespace"
	case NodeXmlDeclaration:
		return "xml"
	}
	if n.prefix != "" {
		return n.prefix + ":" + n.local
	}
	return n.local
}

// Value returns the scalar content of the node.
// For elements this is the concatenated text content.
func (n *Node) Value() string {
	if n.typ == NodeElement || n.typ == NodeDocument {
		return n.InnerText()
	}
	return n.value
}

// SetValue replaces the scalar content of a non-container node
func (n *Node) SetValue(v string) {
	n.value = v
}

// OwnerDocument returns the document that created the node
func (n *Node) OwnerDocument() *Document { return n.doc }

// Parent returns the parent of a child node. Attributes have no parent, see OwnerElement.
func (n *Node) Parent() *Node {
	if n.typ == NodeAttribute {
		return nil
	}
	return n.parent
}

// OwnerElement returns the element an attribute belongs to
func (n *Node) OwnerElement() *Node {
	if n.typ != NodeAttribute {
		return nil
	}
	return n.parent
}

// IsNamespaceDeclaration reports whether the attribute is an xmlns declaration
func (n *Node) IsNamespaceDeclaration() bool {
	return n.typ == NodeAttribute && n.namespace == XMLNSNamespace
}

// HasChildNodes reports whether the node has any children
func (n *Node) HasChildNodes() bool { return len(n.children) > 0 }

// ChildCount returns the number of children (attributes excluded)
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the i-th child or nil
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child list
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// FirstChild returns the first child or nil
func (n *Node) FirstChild() *Node { return n.ChildAt(0) }

// LastChild returns the last child or nil
func (n *Node) LastChild() *Node { return n.ChildAt(len(n.children) - 1) }

// IndexOf returns the position of child among the children, or -1
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// PreviousSibling returns the sibling before n in its parent's children
func (n *Node) PreviousSibling() *Node {
	if n.typ == NodeAttribute || n.parent == nil {
		return nil
	}
	return n.parent.ChildAt(n.parent.IndexOf(n) - 1)
}

// NextSibling returns the sibling after n in its parent's children
func (n *Node) NextSibling() *Node {
	if n.typ == NodeAttribute || n.parent == nil {
		return nil
	}
	i := n.parent.IndexOf(n)
	if i < 0 {
		return nil
	}
	return n.parent.ChildAt(i + 1)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	i := n.IndexOf(ref)
	if i < 0 {
		return ErrNotAChild
	}
	return n.insertChildAt(i, child)
}

// InsertAfter inserts child after ref. A nil ref prepends.
func (n *Node) InsertAfter(child, ref *Node) error {
	if ref == nil {
		return n.insertChildAt(0, child)
	}
	i := n.IndexOf(ref)
	if i < 0 {
		return ErrNotAChild
	}
	return n.insertChildAt(i+1, child)
}

// AppendChild adds child as the last child
func (n *Node) AppendChild(child *Node) error {
	return n.insertChildAt(len(n.children), child)
}

func (n *Node) insertChildAt(i int, child *Node) error {
	if child.typ == NodeAttribute {
		return ErrUnexpectedNodeType
	}
	if child == n || child.IsAncestorOf(n) {
		return ErrCircularInsert
	}
	if child.parent != nil {
		if err := child.parent.RemoveChild(child); err != nil {
			return err
		}
	}
	n.children = slices.Insert(n.children, i, child)
	child.parent = n
	return nil
}

// RemoveChild detaches child from n
func (n *Node) RemoveChild(child *Node) error {
	i := n.IndexOf(child)
	if i < 0 {
		return ErrNotAChild
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return nil
}

// IsAncestorOf reports whether n contains other somewhere below it
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// AttributeCount returns the number of attributes
func (n *Node) AttributeCount() int { return len(n.attrs) }

// AttributeAt returns the i-th attribute or nil
func (n *Node) AttributeAt(i int) *Node {
	if i < 0 || i >= len(n.attrs) {
		return nil
	}
	return n.attrs[i]
}

// Attributes returns a copy of the attribute list in iteration order
func (n *Node) Attributes() []*Node {
	return slices.Clone(n.attrs)
}

// AttributeIndex returns the position of attr in the collection, or -1
func (n *Node) AttributeIndex(attr *Node) int {
	return slices.Index(n.attrs, attr)
}

// AttributeNode finds an attribute by local name and namespace
func (n *Node) AttributeNode(local, namespace string) *Node {
	for _, a := range n.attrs {
		if a.local == local && a.namespace == namespace {
			return a
		}
	}
	return nil
}

// AttributeValue returns the value of the unqualified attribute with the given name
func (n *Node) AttributeValue(name string) string {
	if a := n.AttributeNode(name, ""); a != nil {
		return a.value
	}
	return ""
}

// InsertAttributeBefore inserts attr before ref. A nil ref appends.
func (n *Node) InsertAttributeBefore(attr, ref *Node) error {
	if ref == nil {
		return n.AppendAttribute(attr)
	}
	i := n.AttributeIndex(ref)
	if i < 0 {
		return ErrNotAChild
	}
	return n.insertAttributeAt(i, attr)
}

// InsertAttributeAfter inserts attr after ref. A nil ref prepends.
func (n *Node) InsertAttributeAfter(attr, ref *Node) error {
	if ref == nil {
		return n.insertAttributeAt(0, attr)
	}
	i := n.AttributeIndex(ref)
	if i < 0 {
		return ErrNotAChild
	}
	return n.insertAttributeAt(i+1, attr)
}

// AppendAttribute adds attr at the end of the collection
func (n *Node) AppendAttribute(attr *Node) error {
	return n.insertAttributeAt(len(n.attrs), attr)
}

func (n *Node) insertAttributeAt(i int, attr *Node) error {
	if attr.typ != NodeAttribute || n.typ != NodeElement {
		return ErrUnexpectedNodeType
	}
	if attr.parent != nil {
		if err := attr.parent.RemoveAttribute(attr); err != nil {
			return err
		}
	}
	n.attrs = slices.Insert(n.attrs, i, attr)
	attr.parent = n
	return nil
}

// RemoveAttribute detaches attr from the element
func (n *Node) RemoveAttribute(attr *Node) error {
	i := n.AttributeIndex(attr)
	if i < 0 {
		return ErrNotAChild
	}
	n.attrs = slices.Delete(n.attrs, i, i+1)
	attr.parent = nil
	return nil
}

// SetAttribute sets or creates an unprefixed attribute
func (n *Node) SetAttribute(name, value string) *Node {
	if a := n.AttributeNode(name, ""); a != nil {
		a.value = value
		return a
	}
	a := n.doc.CreateAttribute("", name, "")
	a.value = value
	_ = n.AppendAttribute(a)
	return a
}

// InnerText returns the concatenated text of all descendant text-like nodes
func (n *Node) InnerText() string {
	switch n.typ {
	case NodeElement, NodeDocument, NodeDocumentFragment:
		var b strings.Builder
		for _, c := range n.children {
			if c.typ == NodeComment || c.typ == NodeProcessingInstruction {
				continue
			}
			b.WriteString(c.InnerText())
		}
		return b.String()
	default:
		return n.value
	}
}

// Clone copies the node. Deep copies children and, for elements, attributes.
// The copy is detached and owned by the same document.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{
		typ:       n.typ,
		prefix:    n.prefix,
		local:     n.local,
		namespace: n.namespace,
		value:     n.value,
		doc:       n.doc,
	}
	for _, a := range n.attrs {
		ac := a.Clone(false)
		ac.parent = c
		c.attrs = append(c.attrs, ac)
	}
	if deep {
		for _, ch := range n.children {
			cc := ch.Clone(true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// Root returns the top-most ancestor of the node
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}
