package domain

import "fmt"

// Document owns every node created through its factories.
// The document node holds the top-level children (declaration, doctype, comments, root element).
type Document struct {
	node *Node

	// PreserveWhitespace keeps whitespace-only text when parsing
	PreserveWhitespace bool
}

// NewDocument creates an empty document
func NewDocument() *Document {
	d := &Document{}
	d.node = &Node{typ: NodeDocument, doc: d}
	return d
}

// Node returns the document node that parents the top-level children
func (d *Document) Node() *Node { return d.node }

// DocumentElement returns the single top-level element, or nil
func (d *Document) DocumentElement() *Node {
	for _, c := range d.node.children {
		if c.typ == NodeElement {
			return c
		}
	}
	return nil
}

// XmlDeclaration returns the xml declaration node, or nil
func (d *Document) XmlDeclaration() *Node {
	for _, c := range d.node.children {
		if c.typ == NodeXmlDeclaration {
			return c
		}
	}
	return nil
}

// CreateElement creates a detached element
func (d *Document) CreateElement(prefix, local, namespace string) *Node {
	return &Node{typ: NodeElement, prefix: prefix, local: local, namespace: namespace, doc: d}
}

// CreateAttribute creates a detached attribute with an empty value
func (d *Document) CreateAttribute(prefix, local, namespace string) *Node {
	if namespace == "" && (prefix == XMLNSPrefix || (prefix == "" && local == XMLNSPrefix)) {
		namespace = XMLNSNamespace
	}
	return &Node{typ: NodeAttribute, prefix: prefix, local: local, namespace: namespace, doc: d}
}

// CreateTextNode creates a text node
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{typ: NodeText, value: text, doc: d}
}

// CreateCDataSection creates a CDATA section
func (d *Document) CreateCDataSection(data string) *Node {
	return &Node{typ: NodeCDATA, value: data, doc: d}
}

// CreateComment creates a comment
func (d *Document) CreateComment(data string) *Node {
	return &Node{typ: NodeComment, value: data, doc: d}
}

// CreateProcessingInstruction creates a processing instruction with the given target
func (d *Document) CreateProcessingInstruction(target, data string) *Node {
	return &Node{typ: NodeProcessingInstruction, local: target, value: data, doc: d}
}

// CreateXmlDeclaration creates an xml declaration, e.g. `version="1.0"`
func (d *Document) CreateXmlDeclaration(data string) *Node {
	if data == "" {
		data = `version="1.0"`
	}
	return &Node{typ: NodeXmlDeclaration, local: XMLPrefix, value: data, doc: d}
}

// CreateDocumentType creates a doctype. data holds everything after the name.
func (d *Document) CreateDocumentType(name, data string) *Node {
	return &Node{typ: NodeDocumentType, local: name, value: data, doc: d}
}

// CreateWhitespace creates an insignificant whitespace node
func (d *Document) CreateWhitespace(text string) *Node {
	return &Node{typ: NodeWhitespace, value: text, doc: d}
}

// CreateSignificantWhitespace creates a significant whitespace node
func (d *Document) CreateSignificantWhitespace(text string) *Node {
	return &Node{typ: NodeSignificantWhitespace, value: text, doc: d}
}

// CreateNode creates a node of any supported kind with empty content
func (d *Document) CreateNode(typ NodeType, name XmlName) (*Node, error) {
	switch typ {
	case NodeElement:
		return d.CreateElement(name.Prefix, name.LocalName, name.Namespace), nil
	case NodeAttribute:
		return d.CreateAttribute(name.Prefix, name.LocalName, name.Namespace), nil
	case NodeText:
		return d.CreateTextNode(""), nil
	case NodeCDATA:
		return d.CreateCDataSection(""), nil
	case NodeComment:
		return d.CreateComment(""), nil
	case NodeProcessingInstruction:
		return d.CreateProcessingInstruction(name.LocalName, ""), nil
	case NodeXmlDeclaration:
		return d.CreateXmlDeclaration(""), nil
	case NodeDocumentType:
		local := name.LocalName
		if local == "" {
			if root := d.DocumentElement(); root != nil {
				local = root.Name()
			}
		}
		return d.CreateDocumentType(local, ""), nil
	case NodeWhitespace:
		return d.CreateWhitespace(""), nil
	case NodeSignificantWhitespace:
		return d.CreateSignificantWhitespace(""), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedNodeType, typ)
	}
}

// CanCreate reports whether CreateNode supports the kind
func CanCreate(typ NodeType) bool {
	switch typ {
	case NodeElement, NodeAttribute, NodeText, NodeCDATA, NodeComment,
		NodeProcessingInstruction, NodeXmlDeclaration, NodeDocumentType,
		NodeWhitespace, NodeSignificantWhitespace:
		return true
	}
	return false
}

// ImportNode deep copies a node created by another document into d
func (d *Document) ImportNode(n *Node) *Node {
	c := n.Clone(true)
	c.walk(func(x *Node) { x.doc = d })
	return c
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, a := range n.attrs {
		fn(a)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
