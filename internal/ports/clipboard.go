package ports

import (
	"time"

	"xmlpad/internal/domain"
)

// Clipboard holds the payload exchanged by cut, copy and paste
type Clipboard interface {
	// SetTreeData stores a copied node
	SetTreeData(data *domain.TreeData) error

	// TreeData returns the current payload, nil when the clipboard is empty
	TreeData() (*domain.TreeData, error)
}

// ClipboardEntry is a payload recorded in the clipboard history
type ClipboardEntry struct {
	ID        string
	NodeType  domain.NodeType
	Image     int
	XML       string
	CreatedAt time.Time
}

// TreeData rebuilds the typed payload of the entry
func (e ClipboardEntry) TreeData() *domain.TreeData {
	return domain.NewTypedTreeData(e.NodeType, e.Image, e.XML)
}

// ClipboardHistory keeps every payload placed on the clipboard
type ClipboardHistory interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Record stores data and returns the new entry
	Record(data *domain.TreeData) (*ClipboardEntry, error)

	// List returns the most recent entries first, at most limit (0 means all)
	List(limit int) ([]ClipboardEntry, error)

	// Get returns the entry with the given id, or an id prefix of at least 4 characters
	Get(id string) (*ClipboardEntry, error)

	// Prune keeps only the newest keep entries
	Prune(keep int) (int, error)
}
