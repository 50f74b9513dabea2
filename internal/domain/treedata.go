package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Clipboard formats
const (
	FormatText     = "Text"
	FormatTreeData = "XmlTreeData"
)

// attributeShape matches name="value" or name='value' with a bounded name length,
// optionally followed by the xmlns declarations a copied attribute carries
var attributeShape = regexp.MustCompile(`^\s*([A-Za-z_][\w.\-]{0,255}(?::[A-Za-z_][\w.\-]{0,255})?)\s*=\s*("[^"]*"|'[^']*')(?:\s+xmlns(?::[A-Za-z_][\w.\-]*)?\s*=\s*(?:"[^"]*"|'[^']*'))*\s*$`)

// TreeData is the clipboard transfer object. It carries either a typed payload
// produced by a copy inside the editor, or untyped text from another application
// whose node kind is sniffed when it is read.
type TreeData struct {
	ImageIndex int
	NodeType   NodeType
	XML        string

	typed bool
}

type treeDataPayload struct {
	Image int    `json:"image"`
	Type  string `json:"type"`
	XML   string `json:"xml"`
}

// NewTreeData snapshots the clipboard representation of a view node
func NewTreeData(v *ViewNode) (*TreeData, error) {
	n := v.Node()
	if n == nil {
		return nil, fmt.Errorf("%w: node has no content yet", ErrUnexpectedNodeType)
	}
	return &TreeData{
		ImageIndex: v.ImageIndex(),
		NodeType:   n.Type(),
		XML:        n.OuterXMLStandalone(),
		typed:      true,
	}, nil
}

// NewTypedTreeData rebuilds a typed payload, e.g. one kept in the clipboard history
func NewTypedTreeData(t NodeType, image int, xml string) *TreeData {
	return &TreeData{ImageIndex: image, NodeType: t, XML: xml, typed: true}
}

// NewTreeDataFromText wraps untyped text
func NewTreeDataFromText(s string) *TreeData {
	t := SniffNodeType(s)
	return &TreeData{ImageIndex: imageForType(t), NodeType: t, XML: s}
}

// NewTreeDataFromReader wraps an untyped byte stream
func NewTreeDataFromReader(r io.Reader) (*TreeData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard stream: %w", err)
	}
	return NewTreeDataFromText(string(data)), nil
}

// DecodeTreeData builds a TreeData from clipboard data in the named format.
// Any format whose name starts with "XML" is treated as raw markup.
func DecodeTreeData(format string, data []byte) (*TreeData, error) {
	switch {
	case format == FormatTreeData:
		var p treeDataPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", FormatTreeData, err)
		}
		t, ok := ParseNodeType(p.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedNodeType, p.Type)
		}
		return NewTypedTreeData(t, p.Image, p.XML), nil
	case format == FormatText, strings.HasPrefix(strings.ToUpper(format), "XML"):
		return NewTreeDataFromText(string(data)), nil
	default:
		return nil, fmt.Errorf("unsupported clipboard format %q", format)
	}
}

// Encode serializes the payload in the structured tree data format
func (d *TreeData) Encode() ([]byte, error) {
	return json.Marshal(treeDataPayload{Image: d.ImageIndex, Type: d.NodeType.String(), XML: d.XML})
}

// Typed reports whether the payload came from a copy inside the editor
func (d *TreeData) Typed() bool { return d.typed }

// Text returns the plain text form offered to other applications
func (d *TreeData) Text() string { return d.XML }

// SniffNodeType guesses the node kind of untyped text
func SniffNodeType(s string) NodeType {
	if attributeShape.MatchString(s) {
		return NodeAttribute
	}
	t := strings.TrimLeft(s, " \t\r\n")
	switch {
	case strings.HasPrefix(t, "<?"):
		return NodeProcessingInstruction
	case strings.HasPrefix(t, "<!--"):
		return NodeComment
	case strings.HasPrefix(t, "<![CDATA["):
		return NodeCDATA
	case strings.HasPrefix(t, "<"):
		return NodeElement
	default:
		return NodeText
	}
}

// CreateNode materializes the payload as a detached node owned by doc.
// context is the node the result will be inserted under; its namespace scope is used
// to resolve prefixes and redundant declarations are dropped.
func (d *TreeData) CreateNode(doc *Document, context *Node) (*Node, error) {
	switch d.NodeType {
	case NodeAttribute:
		return d.createAttribute(doc, context)
	case NodeText:
		if !d.typed {
			return doc.CreateTextNode(d.XML), nil
		}
	}
	nodes, err := doc.ParseFragment(d.XML, context)
	if err != nil {
		if !d.typed {
			return doc.CreateTextNode(d.XML), nil
		}
		return nil, err
	}
	n := pickNode(nodes)
	if n == nil {
		return doc.CreateTextNode(d.XML), nil
	}
	if n.typ == NodeElement {
		stripRedundantNamespaces(n, context)
		BindUndeclaredPrefixes(n, context)
	}
	return n, nil
}

// CreateViewNode materializes the payload as a view subtree
func (d *TreeData) CreateViewNode(doc *Document, context *Node) (*ViewNode, error) {
	n, err := d.CreateNode(doc, context)
	if err != nil {
		return nil, err
	}
	return NewViewNodeFor(n), nil
}

// ParseMarkup parses markup and returns the node it stands for, preferring the first element
func ParseMarkup(doc *Document, markup string, context *Node) (*Node, error) {
	nodes, err := doc.ParseFragment(markup, context)
	if err != nil {
		return nil, err
	}
	n := pickNode(nodes)
	if n != nil && n.typ == NodeElement {
		stripRedundantNamespaces(n, context)
		BindUndeclaredPrefixes(n, context)
	}
	return n, nil
}

func pickNode(nodes []*Node) *Node {
	for _, n := range nodes {
		if n.typ == NodeElement {
			return n
		}
	}
	for _, n := range nodes {
		if n.typ != NodeWhitespace && n.typ != NodeSignificantWhitespace {
			return n
		}
	}
	if len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func stripRedundantNamespaces(el *Node, context *Node) {
	if context == nil {
		return
	}
	scope := context.InScopeNamespaces()
	for _, a := range el.Attributes() {
		if !a.IsNamespaceDeclaration() {
			continue
		}
		p := declaredPrefix(a)
		ns, ok := scope[p]
		if !ok && p == "" {
			ns, ok = "", true
		}
		if ok && ns == a.value {
			_ = el.RemoveAttribute(a)
		}
	}
}

// BindUndeclaredPrefixes gives every prefix used in the detached subtree of el that is
// bound neither inside the subtree nor at context a generated namespace, declared on el.
func BindUndeclaredPrefixes(el, context *Node) {
	if el.typ != NodeElement {
		return
	}
	var unbound []*Node
	el.walk(func(x *Node) {
		if x.typ != NodeElement && x.typ != NodeAttribute {
			return
		}
		if x.prefix == "" || x.IsNamespaceDeclaration() {
			return
		}
		if _, ok := x.LookupNamespace(x.prefix); ok {
			return
		}
		if context != nil {
			if _, ok := context.LookupNamespace(x.prefix); ok {
				return
			}
		}
		unbound = append(unbound, x)
	})
	declared := map[string]bool{}
	for _, x := range unbound {
		x.namespace = GeneratedNamespace(x.prefix)
		if declared[x.prefix] {
			continue
		}
		declared[x.prefix] = true
		decl := el.doc.CreateAttribute(XMLNSPrefix, x.prefix, XMLNSNamespace)
		decl.value = x.namespace
		_ = el.AppendAttribute(decl)
	}
}

// NeedsDeclaration reports whether the prefix of n has no matching binding at context,
// so placing n there needs an xmlns declaration on the owner
func NeedsDeclaration(n, context *Node) bool {
	switch n.prefix {
	case "", XMLPrefix, XMLNSPrefix:
		return false
	}
	if n.IsNamespaceDeclaration() {
		return false
	}
	if context == nil {
		return true
	}
	ns, ok := context.LookupNamespace(n.prefix)
	return !ok || ns != n.namespace
}

// createAttribute reads `name="value"` plus any xmlns declarations carried with it.
// A prefix bound at context takes that binding, otherwise the carried declaration,
// otherwise a generated namespace.
func (d *TreeData) createAttribute(doc *Document, context *Node) (*Node, error) {
	name, value, rest, err := cutAssignment(d.XML)
	if err != nil {
		return nil, err
	}
	var scope *Node
	if context != nil && context.typ == NodeElement {
		scope = context
	}
	qn, bound, err := ParseName(name, scope, true)
	if err != nil {
		return nil, err
	}
	if !bound {
		qn.Namespace = GeneratedNamespace(qn.Prefix)
		for rest != "" {
			var declName, ns string
			declName, ns, rest, err = cutAssignment(rest)
			if err != nil {
				break
			}
			if declName == XMLNSPrefix+":"+qn.Prefix && ns != "" {
				qn.Namespace = ns
			}
		}
	}
	a := doc.CreateAttribute(qn.Prefix, qn.LocalName, qn.Namespace)
	a.value = value
	return a, nil
}

// cutAssignment reads the first `name="value"` of s and returns what follows it
func cutAssignment(s string) (name, value, rest string, err error) {
	s = strings.TrimSpace(s)
	eq := strings.IndexByte(s, '=')
	if eq <= 0 {
		return "", "", "", fmt.Errorf("%w: %q is not an attribute", ErrMalformed, s)
	}
	name = strings.TrimSpace(s[:eq])
	tail := strings.TrimSpace(s[eq+1:])
	if len(tail) < 2 {
		return "", "", "", fmt.Errorf("%w: attribute %s has no quoted value", ErrMalformed, name)
	}
	quote := tail[0]
	if quote != '"' && quote != '\'' {
		return "", "", "", fmt.Errorf("%w: attribute %s has no quoted value", ErrMalformed, name)
	}
	end := strings.IndexByte(tail[1:], quote)
	if end < 0 {
		return "", "", "", fmt.Errorf("%w: attribute %s value is not terminated", ErrMalformed, name)
	}
	return name, UnescapeEntities(tail[1 : end+1]), strings.TrimSpace(tail[end+2:]), nil
}

// UnescapeEntities replaces the predefined and numeric character references in s.
// Unknown references are left as they are.
func UnescapeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			b.WriteString(s[i:])
			break
		}
		ref := s[i+1 : i+semi]
		if r, ok := resolveReference(ref); ok {
			b.WriteString(r)
		} else {
			b.WriteString(s[i : i+semi+1])
		}
		i += semi + 1
	}
	return b.String()
}

func resolveReference(ref string) (string, bool) {
	switch ref {
	case "amp":
		return "&", true
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "quot":
		return `"`, true
	case "apos":
		return "'", true
	}
	if num, ok := strings.CutPrefix(ref, "#"); ok {
		base := 10
		if hex, ok := strings.CutPrefix(num, "x"); ok {
			num, base = hex, 16
		}
		v, err := strconv.ParseUint(num, base, 32)
		if err != nil {
			return "", false
		}
		return string(rune(v)), true
	}
	return "", false
}

func imageForType(t NodeType) int {
	v := &ViewNode{kind: t}
	v.updateImage()
	return v.image
}
