package mcp

import (
	"fmt"
	"log/slog"
	"sync"

	"xmlpad/internal/application/session"
	"xmlpad/internal/ports"
)

// Opener opens a document in a new session
type Opener func(path string) (*session.Session, error)

// Workspace keeps one editing session per document so undo history survives between
// tool calls. Calls are serialized.
type Workspace struct {
	mu       sync.Mutex
	open     Opener
	list     func(dir string) ([]string, error)
	history  ports.ClipboardHistory
	sessions map[string]*session.Session
	autosave bool
	logger   *slog.Logger
}

// WorkspaceOptions configures a Workspace
type WorkspaceOptions struct {
	// List returns the documents below a directory
	List func(dir string) ([]string, error)

	// History is shared by every session; optional
	History ports.ClipboardHistory

	// Autosave writes a document after every successful edit
	Autosave bool

	Logger *slog.Logger
}

// NewWorkspace creates a workspace opening documents with open
func NewWorkspace(open Opener, opts WorkspaceOptions) *Workspace {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		open:     open,
		list:     opts.List,
		history:  opts.History,
		sessions: map[string]*session.Session{},
		autosave: opts.Autosave,
		logger:   logger,
	}
}

func (w *Workspace) session(file string) (*session.Session, error) {
	if file == "" {
		return nil, fmt.Errorf("file is required")
	}
	if s, ok := w.sessions[file]; ok {
		return s, nil
	}
	s, err := w.open(file)
	if err != nil {
		return nil, err
	}
	w.sessions[file] = s
	w.logger.Debug("session opened", slog.String("file", file))
	return s, nil
}

// Read runs fn against the session of file
func (w *Workspace) Read(file string, fn func(*session.Session) (string, error)) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.session(file)
	if err != nil {
		return "", err
	}
	return fn(s)
}

// Edit runs fn against the session of file and saves the document when autosave is on
func (w *Workspace) Edit(file string, fn func(*session.Session) (string, error)) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.session(file)
	if err != nil {
		return "", err
	}
	msg, err := fn(s)
	if err != nil {
		return "", err
	}
	if w.autosave && s.Dirty() {
		if err := s.Save(); err != nil {
			return "", err
		}
		msg += " (saved)"
	}
	return msg, nil
}

// Close forgets the session of file, dropping unsaved changes
func (w *Workspace) Close(file string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.sessions[file]
	delete(w.sessions, file)
	return ok
}
