package commands

import (
	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// insertMap answers "can a node of kind [child] be a child of a node of kind [parent]".
// Columns follow the same order as the rows.
var insertMap = [domain.NodeTypeCount][domain.NodeTypeCount]bool{
	//                                 None   Elem   Attr   Text   CDATA  ERef   Ent    PI     Comm   Doc    DTyp   DFrag  Nota   WS     SigWS  EndEl  EndEn  XDecl
	domain.NodeNone:                  {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeElement:               {false, true, false, false, false, false, false, false, false, true, false, true, false, false, false, false, false, false},
	domain.NodeAttribute:             {false, true, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeText:                  {false, true, false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false},
	domain.NodeCDATA:                 {false, true, false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false},
	domain.NodeEntityReference:       {false, true, false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false},
	domain.NodeEntity:                {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeProcessingInstruction: {false, true, false, false, false, false, false, false, false, true, false, true, false, false, false, false, false, false},
	domain.NodeComment:               {false, true, false, false, false, false, false, false, false, true, false, true, false, false, false, false, false, false},
	domain.NodeDocument:              {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeDocumentType:          {false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false, false, false},
	domain.NodeDocumentFragment:      {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeNotation:              {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeWhitespace:            {false, true, false, false, false, false, false, false, false, true, false, true, false, false, false, false, false, false},
	domain.NodeSignificantWhitespace: {false, true, false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false},
	domain.NodeEndElement:            {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeEndEntity:             {false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false, false},
	domain.NodeXmlDeclaration:        {false, false, false, false, false, false, false, false, false, true, false, false, false, false, false, false, false, false},
}

// CanInsertNodeType consults the compatibility matrix only
func CanInsertNodeType(child, parent domain.NodeType) bool {
	if child < 0 || int(child) >= domain.NodeTypeCount || parent < 0 || int(parent) >= domain.NodeTypeCount {
		return false
	}
	return insertMap[child][parent]
}

// CanInsertNode reports whether a node of kind can be inserted at pos relative to target.
// A nil target means the document root.
func CanInsertNode(view *domain.TreeView, pos Position, kind domain.NodeType, target *domain.ViewNode) bool {
	return checkPlacement(view, pos, kind, target, nil) == nil
}

// RequiresName reports whether nodes of kind must be named before they are finalized
func RequiresName(kind domain.NodeType) bool {
	return kind.RequiresName()
}

// resolveParent returns the document node that would parent a node placed at pos
// relative to target. It returns nil when the parent has no document node yet.
func resolveParent(view *domain.TreeView, pos Position, target *domain.ViewNode) *domain.Node {
	root := view.Document().Node()
	if target == nil {
		return root
	}
	if pos == PositionChild {
		return target.Node()
	}
	if target.Kind() == domain.NodeAttribute {
		if n := target.Node(); n != nil && n.OwnerElement() != nil {
			return n.OwnerElement()
		}
	}
	p := target.Parent()
	if p == nil {
		return root
	}
	return p.Node()
}

// checkPlacement validates placing a node of kind at pos relative to target.
// moving is the document node being moved, if any, so moving the document element
// among its own siblings is not mistaken for adding a second one.
func checkPlacement(view *domain.TreeView, pos Position, kind domain.NodeType, target *domain.ViewNode, moving *domain.Node) error {
	parent := resolveParent(view, pos, target)
	parentKind := domain.NodeNone
	if parent != nil {
		parentKind = parent.Type()
	}
	if !CanInsertNodeType(kind, parentKind) {
		if parentKind == domain.NodeDocument {
			switch kind {
			case domain.NodeAttribute:
				return application.ErrRootLevelAttributes
			case domain.NodeText, domain.NodeCDATA, domain.NodeSignificantWhitespace, domain.NodeEntityReference:
				return application.ErrRootLevelText
			}
		}
		return application.ErrInvalidChild
	}
	if pos == PositionBefore && target != nil && target.Kind() == domain.NodeXmlDeclaration {
		return application.ErrRootLevelBeforeXmlDecl
	}
	if kind == domain.NodeElement && parentKind == domain.NodeDocument {
		if root := view.Document().DocumentElement(); root != nil && root != moving {
			return application.ErrRootLevelElements
		}
	}
	return nil
}
