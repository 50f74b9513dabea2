package domain

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed indicates markup that could not be parsed into nodes
var ErrMalformed = errors.New("malformed xml")

// Load replaces the content of the document with the parsed input
func (d *Document) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	p := &parser{doc: d, data: data, preserve: d.PreserveWhitespace}
	holder := &Node{typ: NodeDocument, doc: d}
	if err := p.parse(holder); err != nil {
		return err
	}
	for _, c := range d.node.Children() {
		_ = d.node.RemoveChild(c)
	}
	for _, c := range holder.Children() {
		_ = d.node.AppendChild(c)
	}
	return nil
}

// LoadString parses s into the document
func (d *Document) LoadString(s string) error {
	return d.Load(strings.NewReader(s))
}

// ParseFragment parses markup into detached nodes owned by d. Prefixes are resolved
// against the declarations in scope at context (which may be nil) when the markup does
// not declare them itself.
func (d *Document) ParseFragment(markup string, context *Node) ([]*Node, error) {
	p := &parser{doc: d, data: []byte(markup), preserve: true}
	if context != nil {
		p.scope = context.InScopeNamespaces()
	}
	holder := &Node{typ: NodeDocumentFragment, doc: d}
	if err := p.parse(holder); err != nil {
		return nil, err
	}
	nodes := holder.Children()
	for _, n := range nodes {
		_ = holder.RemoveChild(n)
	}
	return nodes, nil
}

type parser struct {
	doc      *Document
	data     []byte
	scope    map[string]string
	preserve bool
}

func (p *parser) parse(holder *Node) error {
	dec := xml.NewDecoder(bytes.NewReader(p.data))
	stack := []*Node{holder}
	for {
		offset := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			el, err := p.startElement(top, t)
			if err != nil {
				return err
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 1 {
				return fmt.Errorf("%w: unexpected end element </%s>", ErrMalformed, rawName(t.Name))
			}
			if top.Name() != rawName(t.Name) {
				return fmt.Errorf("%w: element <%s> closed by </%s>", ErrMalformed, top.Name(), rawName(t.Name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			switch {
			case bytes.HasPrefix(p.data[offset:], []byte("<![CDATA[")):
				_ = top.AppendChild(p.doc.CreateCDataSection(text))
			case strings.TrimSpace(text) == "":
				if !p.preserve {
					continue
				}
				if top.typ == NodeElement {
					_ = top.AppendChild(p.doc.CreateSignificantWhitespace(text))
				} else {
					_ = top.AppendChild(p.doc.CreateWhitespace(text))
				}
			default:
				_ = top.AppendChild(p.doc.CreateTextNode(text))
			}

		case xml.Comment:
			_ = top.AppendChild(p.doc.CreateComment(string(t)))

		case xml.ProcInst:
			inst := strings.TrimSpace(string(t.Inst))
			if t.Target == XMLPrefix {
				_ = top.AppendChild(p.doc.CreateXmlDeclaration(inst))
			} else {
				_ = top.AppendChild(p.doc.CreateProcessingInstruction(t.Target, inst))
			}

		case xml.Directive:
			text := strings.TrimSpace(string(t))
			if rest, ok := strings.CutPrefix(text, "DOCTYPE"); ok {
				rest = strings.TrimSpace(rest)
				name, data, _ := strings.Cut(rest, " ")
				_ = top.AppendChild(p.doc.CreateDocumentType(name, strings.TrimSpace(data)))
			}
		}
	}
	if len(stack) > 1 {
		return fmt.Errorf("%w: element <%s> is not closed", ErrMalformed, stack[len(stack)-1].Name())
	}
	return nil
}

func (p *parser) startElement(parent *Node, t xml.StartElement) (*Node, error) {
	el := p.doc.CreateElement(t.Name.Space, t.Name.Local, "")
	if err := parent.AppendChild(el); err != nil {
		return nil, err
	}
	for _, a := range t.Attr {
		attr := p.doc.CreateAttribute(a.Name.Space, a.Name.Local, "")
		attr.value = a.Value
		_ = el.AppendAttribute(attr)
	}
	el.namespace = p.resolve(el, el.prefix)
	for _, a := range el.attrs {
		if a.prefix != "" && a.prefix != XMLNSPrefix {
			a.namespace = p.resolve(el, a.prefix)
		}
	}
	seen := map[XmlName]bool{}
	for _, a := range el.attrs {
		key := XmlName{LocalName: a.local, Namespace: a.namespace}
		if seen[key] {
			return nil, fmt.Errorf("%w: %s on <%s>", ErrDuplicateAttribute, a.Name(), el.Name())
		}
		seen[key] = true
	}
	return el, nil
}

func (p *parser) resolve(el *Node, prefix string) string {
	switch prefix {
	case XMLPrefix:
		return XMLNamespace
	case XMLNSPrefix:
		return XMLNSNamespace
	}
	for e := el; e != nil && e.typ == NodeElement; e = e.parent {
		for _, a := range e.attrs {
			if a.IsNamespaceDeclaration() && declaredPrefix(a) == prefix {
				return a.value
			}
		}
	}
	return p.scope[prefix]
}

func rawName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}
