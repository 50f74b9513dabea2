package domain

import (
	"io"
	"sort"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// EscapeText escapes character data for element content
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttributeValue escapes a value for a double-quoted attribute
func EscapeAttributeValue(s string) string { return attrEscaper.Replace(s) }

// OuterXML serializes the node including its own markup.
// Attributes serialize as name="value".
func (n *Node) OuterXML() string {
	var b strings.Builder
	n.write(&b, "", 0)
	return b.String()
}

// InnerXML serializes the children of the node.
// For leaf kinds this is the escaped value.
func (n *Node) InnerXML() string {
	var b strings.Builder
	switch n.typ {
	case NodeElement, NodeDocument, NodeDocumentFragment:
		for _, c := range n.children {
			c.write(&b, "", 0)
		}
	case NodeAttribute:
		b.WriteString(EscapeAttributeValue(n.value))
	case NodeText:
		b.WriteString(EscapeText(n.value))
	default:
		b.WriteString(n.value)
	}
	return b.String()
}

// OuterXMLStandalone serializes an element like OuterXML but adds declarations for
// prefixes that the subtree uses and that are bound by ancestors, so the markup parses
// on its own. A prefixed attribute is followed by the declaration of its prefix.
func (n *Node) OuterXMLStandalone() string {
	if n.typ == NodeAttribute {
		switch {
		case n.prefix == "", n.prefix == XMLPrefix, n.IsNamespaceDeclaration(), n.namespace == "":
			return n.OuterXML()
		}
		return n.OuterXML() + " " + XMLNSPrefix + ":" + n.prefix + `="` + EscapeAttributeValue(n.namespace) + `"`
	}
	if n.typ != NodeElement || n.parent == nil || n.parent.typ != NodeElement {
		return n.OuterXML()
	}
	missing := map[string]string{}
	outer := n.parent.InScopeNamespaces()
	n.walk(func(x *Node) {
		if x.typ != NodeElement && x.typ != NodeAttribute {
			return
		}
		if x.IsNamespaceDeclaration() || x.prefix == XMLPrefix {
			return
		}
		if x.typ == NodeAttribute && x.prefix == "" {
			return
		}
		if _, declared := x.locallyDeclared(n, x.prefix); declared {
			return
		}
		if ns, ok := outer[x.prefix]; ok && ns == x.namespace && ns != "" {
			missing[x.prefix] = ns
		}
	})
	if len(missing) == 0 {
		return n.OuterXML()
	}
	c := n.Clone(true)
	prefixes := make([]string, 0, len(missing))
	for p := range missing {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		var decl *Node
		if p == "" {
			decl = n.doc.CreateAttribute("", XMLNSPrefix, XMLNSNamespace)
		} else {
			decl = n.doc.CreateAttribute(XMLNSPrefix, p, XMLNSNamespace)
		}
		decl.value = missing[p]
		_ = c.AppendAttribute(decl)
	}
	return c.OuterXML()
}

// locallyDeclared looks for a declaration of prefix between n and top (inclusive)
func (n *Node) locallyDeclared(top *Node, prefix string) (string, bool) {
	e := n.scopeElement()
	for e != nil {
		for _, a := range e.attrs {
			if a.IsNamespaceDeclaration() && declaredPrefix(a) == prefix {
				return a.value, true
			}
		}
		if e == top {
			break
		}
		e = e.parent
	}
	return "", false
}

// WriteTo serializes the whole document. A non-empty indent pretty prints elements
// that contain no text.
func (d *Document) WriteTo(w io.Writer, indent string) error {
	var b strings.Builder
	for i, c := range d.node.children {
		if indent != "" && i > 0 {
			b.WriteString("\n")
		}
		c.write(&b, indent, 0)
	}
	if indent != "" && len(d.node.children) > 0 {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the compact serialization of the document
func (d *Document) String() string {
	var b strings.Builder
	_ = d.WriteTo(&b, "")
	return b.String()
}

func (n *Node) write(b *strings.Builder, indent string, depth int) {
	switch n.typ {
	case NodeElement:
		n.writeElement(b, indent, depth)
	case NodeAttribute:
		b.WriteString(n.Name())
		b.WriteString(`="`)
		b.WriteString(EscapeAttributeValue(n.value))
		b.WriteString(`"`)
	case NodeText:
		b.WriteString(EscapeText(n.value))
	case NodeWhitespace, NodeSignificantWhitespace:
		b.WriteString(n.value)
	case NodeCDATA:
		b.WriteString("<![CDATA[")
		b.WriteString(n.value)
		b.WriteString("]]>")
	case NodeComment:
		b.WriteString("<!--")
		b.WriteString(n.value)
		b.WriteString("-->")
	case NodeProcessingInstruction, NodeXmlDeclaration:
		b.WriteString("<?")
		b.WriteString(n.local)
		if n.value != "" {
			b.WriteString(" ")
			b.WriteString(n.value)
		}
		b.WriteString("?>")
	case NodeDocumentType:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.local)
		if n.value != "" {
			b.WriteString(" ")
			b.WriteString(n.value)
		}
		b.WriteString(">")
	case NodeEntityReference:
		b.WriteString("&")
		b.WriteString(n.local)
		b.WriteString(";")
	case NodeDocument, NodeDocumentFragment:
		for _, c := range n.children {
			c.write(b, indent, depth)
		}
	}
}

func (n *Node) writeElement(b *strings.Builder, indent string, depth int) {
	name := n.Name()
	b.WriteString("<")
	b.WriteString(name)
	for _, a := range n.attrs {
		b.WriteString(" ")
		a.write(b, "", 0)
	}
	if len(n.children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
	pretty := indent != "" && !n.hasTextChildren()
	for _, c := range n.children {
		if pretty {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(indent, depth+1))
			c.write(b, indent, depth+1)
		} else {
			c.write(b, "", 0)
		}
	}
	if pretty {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(indent, depth))
	}
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func (n *Node) hasTextChildren() bool {
	for _, c := range n.children {
		switch c.typ {
		case NodeText, NodeCDATA, NodeWhitespace, NodeSignificantWhitespace, NodeEntityReference:
			return true
		}
	}
	return false
}
