package ports

import "os/exec"

// EditorOpener opens text in the user's external editor
type EditorOpener interface {
	// OpenFile edits path and waits for the editor to exit
	OpenFile(path string) error

	// Command returns an exec.Cmd editing path, for bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)

	// EditValue edits value in a temporary file and returns the result
	EditValue(value string) (string, error)
}
