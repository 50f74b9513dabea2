package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"xmlpad/internal/domain"
)

// System implements ports.Clipboard on the desktop clipboard. Other applications see
// the markup as plain text; a payload this process wrote keeps its node type as long
// as the clipboard text is unchanged.
type System struct {
	read  func() (string, error)
	write func(string) error
	last  *domain.TreeData
}

// NewSystem creates a clipboard backed by the desktop clipboard
func NewSystem() *System {
	return &System{read: clipboard.ReadAll, write: clipboard.WriteAll}
}

// Supported reports whether a desktop clipboard utility is available
func Supported() bool {
	return !clipboard.Unsupported
}

func (s *System) SetTreeData(data *domain.TreeData) error {
	if err := s.write(data.Text()); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	s.last = data
	return nil
}

func (s *System) TreeData() (*domain.TreeData, error) {
	text, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("failed to read system clipboard: %w", err)
	}
	if text == "" {
		return nil, nil
	}
	if s.last != nil && s.last.Text() == text {
		return s.last, nil
	}
	return domain.NewTreeDataFromText(text), nil
}
