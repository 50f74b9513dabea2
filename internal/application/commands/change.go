package commands

import (
	"fmt"
	"strings"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// Delimiters and their two-character stand-ins used when content moves in or out of
// comments and CDATA sections
const (
	commentStart  = "<!--"
	commentEnd    = "-->"
	commentEStart = "/*"
	commentEEnd   = "*/"

	cdataStart  = "<![CDATA["
	cdataEnd    = "]]>"
	cdataEStart = "/["
	cdataEEnd   = "]/"
)

// Placeholder names for nodes created from unnamed content
const (
	placeholderElement   = "element"
	placeholderAttribute = "attribute"
	placeholderPI        = "pi"
)

// ChangeNode converts a node to another kind, keeping its name and content where the new
// kind can hold them. It inserts the new node after the old one and deletes the old one
// as a single unit.
type ChangeNode struct {
	view    *domain.TreeView
	node    *domain.ViewNode
	kind    domain.NodeType
	newNode *domain.ViewNode
	group   *CompoundCommand
}

// NewChangeNode builds the replacement node and validates where it goes
func NewChangeNode(view *domain.TreeView, node *domain.ViewNode, kind domain.NodeType) (*ChangeNode, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	src := node.Node()
	if src == nil {
		return nil, application.ErrNodeNotCreated
	}
	c := &ChangeNode{view: view, node: node, kind: kind}
	if src.Type() == kind {
		return c, nil
	}
	if !domain.CanCreate(kind) {
		return nil, fmt.Errorf("%w: %s", application.ErrUnexpectedNodeType, kind)
	}
	if err := checkPlacement(view, PositionAfter, kind, node, src); err != nil {
		return nil, err
	}

	doc := view.Document()
	context := resolveParent(view, PositionAfter, node)
	n, decl, err := c.convert(doc, src, context)
	if err != nil {
		return nil, err
	}

	c.newNode = domain.NewViewNodeFor(n)
	c.group = NewCompoundCommand(c.Name())
	if decl != nil {
		owner := view.FindNode(context)
		if owner == nil {
			return nil, application.ErrRootLevelAttributes
		}
		c.group.Add(NewInsertNodeFor(view, PositionChild, owner, domain.NewViewNodeFor(decl)))
	}
	c.group.Add(NewInsertNodeFor(view, PositionAfter, node, c.newNode))
	c.group.Add(NewDeleteNode(view, node))
	return c, nil
}

func (c *ChangeNode) Name() string { return "Change to " + c.kind.String() }

// IsNoop is true when the node already has the requested kind
func (c *ChangeNode) IsNoop() bool { return c.group == nil }

// NewNode returns the replacement view node, nil for a no-op
func (c *ChangeNode) NewNode() *domain.ViewNode { return c.newNode }

func (c *ChangeNode) Do() error   { return c.apply((*CompoundCommand).Do) }
func (c *ChangeNode) Undo() error { return c.apply((*CompoundCommand).Undo) }
func (c *ChangeNode) Redo() error { return c.apply((*CompoundCommand).Redo) }

func (c *ChangeNode) apply(fn func(*CompoundCommand) error) error {
	if c.group == nil {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()
	return fn(c.group)
}

// convert builds the detached replacement. An unnamed source converted to a kind that
// needs a name is first re-read as markup; if that yields a named node of the target
// kind, that node becomes the source and the conversion runs once more.
func (c *ChangeNode) convert(doc *domain.Document, src, context *domain.Node) (n, decl *domain.Node, err error) {
	original := src
	for attempt := 0; attempt < 2; attempt++ {
		if src != original && src.Type() == c.kind {
			return c.uniqueAttribute(doc, src, context), nil, nil
		}
		name := nameOf(src)
		if name == "" && c.kind.RequiresName() && attempt == 0 {
			data := domain.NewTreeDataFromText(strings.TrimSpace(innerContent(src)))
			if parsed, err := data.CreateNode(doc, context); err == nil && parsed.Type() == c.kind && nameOf(parsed) != "" {
				src = parsed
				continue
			}
		}
		return c.build(doc, src, name, context)
	}
	return c.build(doc, src, nameOf(src), context)
}

func (c *ChangeNode) build(doc *domain.Document, src *domain.Node, name string, context *domain.Node) (n, decl *domain.Node, err error) {
	content := innerContent(src)
	if src.Type() == domain.NodeElement {
		switch c.kind {
		case domain.NodeComment, domain.NodeCDATA, domain.NodeText:
			content = src.OuterXML()
		}
	}

	switch c.kind {
	case domain.NodeElement:
		if name == "" {
			name = placeholderElement
		}
		scope := context
		if scope != nil && scope.Type() != domain.NodeElement {
			scope = nil
		}
		n, _, err = createNamed(doc, c.kind, name, scope)
		if err != nil {
			return nil, nil, err
		}
		if content != "" {
			c.fillElement(doc, n, content, scope)
		}
		return n, nil, nil
	case domain.NodeAttribute:
		if name == "" {
			name = placeholderAttribute
		}
		n, decl, err = createNamed(doc, c.kind, name, context)
		if err != nil {
			return nil, nil, err
		}
		n.SetValue(content)
		return c.uniqueAttribute(doc, n, context), decl, nil
	case domain.NodeProcessingInstruction:
		if name == "" {
			name = placeholderPI
		}
		if _, local := domain.SplitQName(name); local != "" {
			name = local
		}
		if err := checkValue(c.kind, content); err != nil {
			return nil, nil, err
		}
		return doc.CreateProcessingInstruction(name, content), nil, nil
	case domain.NodeComment:
		return doc.CreateComment(EscapeComment(content)), nil, nil
	case domain.NodeCDATA:
		return doc.CreateCDataSection(EscapeCData(content)), nil, nil
	case domain.NodeText:
		return doc.CreateTextNode(content), nil, nil
	}
	n, err = doc.CreateNode(c.kind, domain.XmlName{LocalName: name})
	if err != nil {
		return nil, nil, err
	}
	if content != "" {
		n.SetValue(content)
	}
	return n, nil, nil
}

// fillElement parses content as the children of el. Content that is not well formed
// becomes a single text child.
func (c *ChangeNode) fillElement(doc *domain.Document, el *domain.Node, content string, scope *domain.Node) {
	nodes, err := doc.ParseFragment(content, scope)
	if err != nil {
		_ = el.AppendChild(doc.CreateTextNode(content))
		return
	}
	for _, child := range nodes {
		if el.AppendChild(child) == nil {
			domain.BindUndeclaredPrefixes(child, scope)
		}
	}
}

// uniqueAttribute renames a that would collide with an attribute of owner
func (c *ChangeNode) uniqueAttribute(doc *domain.Document, a, owner *domain.Node) *domain.Node {
	if a.Type() != domain.NodeAttribute || owner == nil || owner.AttributeNode(a.LocalName(), a.NamespaceURI()) == nil {
		return a
	}
	renamed := doc.CreateAttribute(a.Prefix(), GetUniqueAttributeName(owner, a), a.NamespaceURI())
	renamed.SetValue(a.Value())
	return renamed
}

func nameOf(n *domain.Node) string {
	switch n.Type() {
	case domain.NodeElement, domain.NodeAttribute, domain.NodeProcessingInstruction:
		return n.Name()
	}
	return ""
}

func innerContent(n *domain.Node) string {
	switch n.Type() {
	case domain.NodeElement:
		return n.InnerXML()
	case domain.NodeComment:
		return UnescapeComment(n.Value())
	case domain.NodeCDATA:
		return UnescapeCData(n.Value())
	}
	return n.Value()
}

// EscapeComment replaces comment delimiters in s with their stand-ins
func EscapeComment(s string) string {
	return EscapeSequence(s, commentStart, commentEnd, commentEStart, commentEEnd)
}

// UnescapeComment reverses EscapeComment
func UnescapeComment(s string) string {
	return UnescapeSequence(s, commentStart, commentEnd, commentEStart, commentEEnd)
}

// EscapeCData replaces CDATA delimiters in s with their stand-ins
func EscapeCData(s string) string {
	return EscapeSequence(s, cdataStart, cdataEnd, cdataEStart, cdataEEnd)
}

// UnescapeCData reverses EscapeCData
func UnescapeCData(s string) string {
	return UnescapeSequence(s, cdataStart, cdataEnd, cdataEStart, cdataEEnd)
}

// EscapeSequence replaces every start and end delimiter in s with the two-character
// stand-ins estart and eend. Text that would read back as a stand-in, or as a backslash
// escape, is protected with a backslash, so UnescapeSequence restores s exactly however
// the delimiters nest.
func EscapeSequence(s, start, end, estart, eend string) string {
	type piece struct {
		text    string
		literal bool
	}
	var pieces []piece
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], start):
			pieces = append(pieces, piece{text: estart})
			i += len(start)
		case strings.HasPrefix(s[i:], end):
			pieces = append(pieces, piece{text: eend})
			i += len(end)
		default:
			pieces = append(pieces, piece{text: s[i : i+1], literal: true})
			i++
		}
	}

	// Built back to front so every literal knows the character that follows it.
	out := make([]byte, 0, len(s)+len(s)/4)
	for i := len(pieces) - 1; i >= 0; i-- {
		p := pieces[i]
		if !p.literal {
			for j := len(p.text) - 1; j >= 0; j-- {
				out = append(out, p.text[j])
			}
			continue
		}
		ch := p.text[0]
		out = append(out, ch)
		if len(out) > 1 && needsEscape(ch, out[len(out)-2], estart, eend) {
			out = append(out, '\\')
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// UnescapeSequence reverses EscapeSequence
func UnescapeSequence(s, start, end, estart, eend string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isEscapable(s[i+1], estart, eend):
			b.WriteByte(s[i+1])
			i += 2
		case strings.HasPrefix(s[i:], estart):
			b.WriteString(start)
			i += len(estart)
		case strings.HasPrefix(s[i:], eend):
			b.WriteString(end)
			i += len(eend)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func needsEscape(ch, next byte, estart, eend string) bool {
	switch {
	case ch == estart[0] && next == estart[1]:
		return true
	case ch == eend[0] && next == eend[1]:
		return true
	case ch == '\\':
		return isEscapable(next, estart, eend)
	}
	return false
}

func isEscapable(ch byte, estart, eend string) bool {
	return ch == estart[0] || ch == eend[0] || ch == '\\'
}
