package application

import "xmlpad/internal/domain"

// Re-export node kinds for use by adapters
type NodeType = domain.NodeType

const (
	NodeElement               = domain.NodeElement
	NodeAttribute             = domain.NodeAttribute
	NodeText                  = domain.NodeText
	NodeCDATA                 = domain.NodeCDATA
	NodeComment               = domain.NodeComment
	NodeProcessingInstruction = domain.NodeProcessingInstruction
	NodeXmlDeclaration        = domain.NodeXmlDeclaration
	NodeDocumentType          = domain.NodeDocumentType
)

// Re-export domain types for use by adapters
type (
	Document = domain.Document
	TreeView = domain.TreeView
	ViewNode = domain.ViewNode
	NodePath = domain.NodePath
	TreeData = domain.TreeData
)

// ParseNodePath parses a slash or dot separated list of child indexes
func ParseNodePath(s string) (NodePath, error) {
	return domain.ParseNodePath(s)
}

// EditableKinds lists the node kinds a user can insert or convert to
func EditableKinds() []NodeType {
	return []NodeType{
		NodeElement,
		NodeAttribute,
		NodeText,
		NodeCDATA,
		NodeComment,
		NodeProcessingInstruction,
	}
}
