package commands

import (
	"fmt"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// resolveName parses qname in the scope of context. When the prefix has no binding a
// generated namespace is used and needsDecl is true.
func resolveName(qname string, context *domain.Node, forAttribute bool) (name domain.XmlName, needsDecl bool, err error) {
	name, bound, err := domain.ParseName(qname, context, forAttribute)
	if err != nil {
		return domain.XmlName{}, false, err
	}
	if !bound {
		name.Namespace = domain.GeneratedNamespace(name.Prefix)
		return name, true, nil
	}
	return name, false, nil
}

// newDeclaration creates xmlns:prefix="namespace"
func newDeclaration(doc *domain.Document, prefix, namespace string) *domain.Node {
	a := doc.CreateAttribute(domain.XMLNSPrefix, prefix, domain.XMLNSNamespace)
	a.SetValue(namespace)
	return a
}

// createNamed builds a detached named node of kind. For elements an xmlns declaration
// for an unbound prefix is attached to the element itself; for attributes it is
// returned so the caller can place it on the owner.
func createNamed(doc *domain.Document, kind domain.NodeType, qname string, context *domain.Node) (n, decl *domain.Node, err error) {
	switch kind {
	case domain.NodeElement:
		name, needsDecl, err := resolveName(qname, context, false)
		if err != nil {
			return nil, nil, err
		}
		n = doc.CreateElement(name.Prefix, name.LocalName, name.Namespace)
		if needsDecl {
			if err := n.AppendAttribute(newDeclaration(doc, name.Prefix, name.Namespace)); err != nil {
				return nil, nil, err
			}
		}
		return n, nil, nil
	case domain.NodeAttribute:
		name, needsDecl, err := resolveName(qname, context, true)
		if err != nil {
			return nil, nil, err
		}
		n = doc.CreateAttribute(name.Prefix, name.LocalName, name.Namespace)
		if needsDecl {
			decl = newDeclaration(doc, name.Prefix, name.Namespace)
		}
		return n, decl, nil
	case domain.NodeProcessingInstruction:
		if err := domain.ValidateQName(qname); err != nil {
			return nil, nil, err
		}
		return doc.CreateProcessingInstruction(qname, ""), nil, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", application.ErrNodeNameNotEditable, kind)
}
