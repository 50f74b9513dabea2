package clipboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"xmlpad/internal/domain"
)

// File keeps the clipboard in a file so separate CLI invocations share it on machines
// without a desktop clipboard. The payload is stored in the structured tree data format.
type File struct {
	path string
}

// NewFile creates a clipboard stored at path
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) SetTreeData(data *domain.TreeData) error {
	payload, err := data.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode clipboard: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create clipboard directory: %w", err)
	}
	if err := os.WriteFile(f.path, payload, 0600); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (f *File) TreeData() (*domain.TreeData, error) {
	payload, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	return domain.DecodeTreeData(domain.FormatTreeData, payload)
}
