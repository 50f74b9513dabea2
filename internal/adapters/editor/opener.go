package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Opener implements ports.EditorOpener
type Opener struct{}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	// $EDITOR may carry flags, e.g. "code --wait"
	fields := strings.Fields(editor)
	args := append(fields[1:], path)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// EditValue lets the user edit value in the editor and returns the result.
// A single trailing newline added by the editor is dropped.
func (o *Opener) EditValue(value string) (string, error) {
	path, err := WriteTemp(value)
	if err != nil {
		return "", err
	}
	if err := o.OpenFile(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("editor failed: %w", err)
	}
	return ReadTemp(path)
}

// WriteTemp stores value in a temporary file for editing
func WriteTemp(value string) (string, error) {
	f, err := os.CreateTemp("", "xmlpad-value-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(value); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

// ReadTemp reads an edited temporary file and removes it
func ReadTemp(path string) (string, error) {
	defer os.Remove(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited value: %w", err)
	}
	value := string(data)
	if strings.HasSuffix(value, "\r\n") {
		return strings.TrimSuffix(value, "\r\n"), nil
	}
	return strings.TrimSuffix(value, "\n"), nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	// Check $EDITOR first
	if editor := os.Getenv("EDITOR"); strings.TrimSpace(editor) != "" {
		return editor
	}

	// Check $VISUAL
	if visual := os.Getenv("VISUAL"); strings.TrimSpace(visual) != "" {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
