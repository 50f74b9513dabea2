package ports

import "xmlpad/internal/domain"

// DocumentStore loads and saves XML documents
type DocumentStore interface {
	// Load reads the document at path
	Load(path string) (*domain.Document, error)

	// Save writes doc to path, indenting nested elements with indent
	Save(path string, doc *domain.Document, indent string) error

	// Exists reports whether a document exists at path
	Exists(path string) bool
}
