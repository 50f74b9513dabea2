package filesystem

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xmlpad/internal/domain"
)

// Store implements ports.DocumentStore using the filesystem
type Store struct {
	root               string
	preserveWhitespace bool
}

// NewStore creates a store resolving relative paths against root
func NewStore(root string, preserveWhitespace bool) *Store {
	return &Store{root: ExpandPath(root), preserveWhitespace: preserveWhitespace}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}

// Resolve returns the absolute location of path
func (s *Store) Resolve(path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) || s.root == "" {
		return path
	}
	return filepath.Join(s.root, path)
}

// Load reads and parses the document at path
func (s *Store) Load(path string) (*domain.Document, error) {
	f, err := os.Open(s.Resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	defer f.Close()

	doc := domain.NewDocument()
	doc.PreserveWhitespace = s.preserveWhitespace
	if err := doc.Load(f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Save writes doc to path through a temporary file in the same directory, so a failed
// write leaves the old file intact. The file always ends with a newline.
func (s *Store) Save(path string, doc *domain.Document, indent string) error {
	target := s.Resolve(path)
	var buf bytes.Buffer
	if err := doc.WriteTo(&buf, indent); err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// Exists reports whether a regular file exists at path
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(s.Resolve(path))
	return err == nil && info.Mode().IsRegular()
}

// List returns the XML files below dir, relative to it and sorted.
// Hidden directories are skipped.
func (s *Store) List(dir string) ([]string, error) {
	base := s.Resolve(dir)
	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".xml") {
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
