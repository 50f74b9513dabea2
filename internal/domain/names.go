package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
	XMLPrefix      = "xml"
	XMLNSPrefix    = "xmlns"
)

// XmlName is a parsed qualified name
type XmlName struct {
	Prefix    string
	LocalName string
	Namespace string
}

// String returns prefix:local, or local when there is no prefix
func (n XmlName) String() string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.LocalName
	}
	return n.LocalName
}

// SplitQName splits "p:l" into prefix and local name
func SplitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// ValidateQName checks that s is a well-formed qualified name
func ValidateQName(s string) error {
	prefix, local := SplitQName(s)
	if strings.Contains(local, ":") {
		return fmt.Errorf("%w: %q has more than one colon", ErrInvalidName, s)
	}
	if prefix != "" || strings.HasPrefix(s, ":") {
		if !isNCName(prefix) {
			return fmt.Errorf("%w: %q", ErrInvalidName, s)
		}
	}
	if !isNCName(local) {
		return fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return nil
}

func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || r == 0xB7
}

// IsNameStartRune reports whether r can begin a name
func IsNameStartRune(r rune) bool { return isNameStart(r) }

// LookupNamespace resolves prefix against the xmlns declarations in scope at n.
// The empty prefix resolves the default namespace.
func (n *Node) LookupNamespace(prefix string) (string, bool) {
	switch prefix {
	case XMLPrefix:
		return XMLNamespace, true
	case XMLNSPrefix:
		return XMLNSNamespace, true
	}
	for e := n.scopeElement(); e != nil; e = e.parent {
		if e.typ != NodeElement {
			break
		}
		for _, a := range e.attrs {
			if !a.IsNamespaceDeclaration() {
				continue
			}
			if declaredPrefix(a) == prefix {
				return a.value, true
			}
		}
	}
	if prefix == "" {
		return "", true
	}
	return "", false
}

// LookupPrefix finds a prefix bound to namespace in scope at n
func (n *Node) LookupPrefix(namespace string) (string, bool) {
	switch namespace {
	case XMLNamespace:
		return XMLPrefix, true
	case XMLNSNamespace:
		return XMLNSPrefix, true
	}
	for e := n.scopeElement(); e != nil && e.typ == NodeElement; e = e.parent {
		for _, a := range e.attrs {
			if a.IsNamespaceDeclaration() && a.value == namespace {
				p := declaredPrefix(a)
				if ns, _ := n.LookupNamespace(p); ns == namespace {
					return p, true
				}
			}
		}
	}
	return "", false
}

// InScopeNamespaces returns every prefix binding visible at n, innermost wins
func (n *Node) InScopeNamespaces() map[string]string {
	scope := map[string]string{}
	var chain []*Node
	for e := n.scopeElement(); e != nil && e.typ == NodeElement; e = e.parent {
		chain = append(chain, e)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, a := range chain[i].attrs {
			if a.IsNamespaceDeclaration() {
				scope[declaredPrefix(a)] = a.value
			}
		}
	}
	return scope
}

func (n *Node) scopeElement() *Node {
	switch n.typ {
	case NodeElement:
		return n
	case NodeAttribute:
		return n.parent
	default:
		if n.parent != nil && n.parent.typ == NodeElement {
			return n.parent
		}
		return nil
	}
}

// declaredPrefix returns the prefix an xmlns attribute declares ("" for xmlns="...")
func declaredPrefix(a *Node) string {
	if a.prefix == XMLNSPrefix {
		return a.local
	}
	return ""
}

// DeclaredPrefix returns the prefix an xmlns attribute binds
func (n *Node) DeclaredPrefix() string { return declaredPrefix(n) }

// ParseName parses qname in the scope of context. Attributes never pick up the default
// namespace. The returned bool is false when the prefix has no binding in scope.
func ParseName(qname string, context *Node, forAttribute bool) (XmlName, bool, error) {
	if err := ValidateQName(qname); err != nil {
		return XmlName{}, false, err
	}
	prefix, local := SplitQName(qname)
	name := XmlName{Prefix: prefix, LocalName: local}
	if forAttribute && prefix == "" {
		if local == XMLNSPrefix {
			name.Namespace = XMLNSNamespace
		}
		return name, true, nil
	}
	if context == nil {
		switch prefix {
		case XMLPrefix:
			name.Namespace = XMLNamespace
			return name, true, nil
		case XMLNSPrefix:
			name.Namespace = XMLNSNamespace
			return name, true, nil
		}
		return name, prefix == "", nil
	}
	ns, ok := context.LookupNamespace(prefix)
	name.Namespace = ns
	return name, ok, nil
}

// GeneratedNamespace returns the namespace used when a prefix is introduced without a binding
func GeneratedNamespace(prefix string) string {
	return "urn:" + prefix
}
