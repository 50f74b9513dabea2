package session

import (
	"fmt"
	"io"
	"log/slog"

	"xmlpad/internal/application"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// Options configures a Session
type Options struct {
	UndoLimit int
	Indent    string
	Logger    *slog.Logger

	// History records every payload placed on the clipboard; optional
	History ports.ClipboardHistory
}

// Session is one open document together with its view, undo stack and clipboard.
// Every editing operation addresses nodes by NodePath and goes through the undo manager.
type Session struct {
	store     ports.DocumentStore
	clipboard ports.Clipboard
	history   ports.ClipboardHistory
	logger    *slog.Logger

	doc    *domain.Document
	view   *domain.TreeView
	undo   *commands.UndoManager
	path   string
	indent string
	dirty  bool
}

// New creates a session holding an empty document
func New(store ports.DocumentStore, clipboard ports.Clipboard, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:   store,
		history: opts.History,
		logger:  logger,
		doc:     domain.NewDocument(),
		indent:  opts.Indent,
	}
	s.clipboard = &recordingClipboard{Clipboard: clipboard, history: opts.History, logger: logger}
	s.view = domain.NewTreeView(s.doc)
	s.undo = commands.NewUndoManager(opts.UndoLimit, logger)
	s.undo.OnChange = func() { s.dirty = true }
	return s
}

// Open loads the document at path, replacing the current one and its history
func (s *Session) Open(path string) error {
	doc, err := s.store.Load(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	s.bind(doc, path)
	s.logger.Info("document opened", slog.String("path", path), slog.Int("nodes", s.view.Count()))
	return nil
}

// LoadString replaces the document with markup. The file path is kept.
func (s *Session) LoadString(markup string) error {
	doc := domain.NewDocument()
	if err := doc.LoadString(markup); err != nil {
		return err
	}
	s.bind(doc, s.path)
	return nil
}

// Reload reads the current file again, dropping unsaved changes
func (s *Session) Reload() error {
	if s.path == "" {
		return &application.ValidationError{Field: "path", Message: "document has no file"}
	}
	return s.Open(s.path)
}

func (s *Session) bind(doc *domain.Document, path string) {
	s.doc = doc
	s.path = path
	s.view.Bind(doc)
	s.undo.Clear()
	s.dirty = false
}

// Save writes the document back to the file it was opened from
func (s *Session) Save() error {
	if s.path == "" {
		return &application.ValidationError{Field: "path", Message: "document has no file"}
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the document to path and makes it the session's file
func (s *Session) SaveAs(path string) error {
	if err := application.ValidateRequired("path", path); err != nil {
		return err
	}
	if err := s.store.Save(path, s.doc, s.indent); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	s.path = path
	s.dirty = false
	s.logger.Info("document saved", slog.String("path", path))
	return nil
}

// Path returns the file backing the document, empty for a new document
func (s *Session) Path() string { return s.path }

// Dirty reports whether the document changed since it was opened or saved
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) Document() *domain.Document { return s.doc }

func (s *Session) View() *domain.TreeView { return s.view }

func (s *Session) Clipboard() ports.Clipboard { return s.clipboard }

func (s *Session) CanUndo() bool { return s.undo.CanUndo() }

func (s *Session) CanRedo() bool { return s.undo.CanRedo() }

// UndoHistory returns the names of the done commands, oldest first
func (s *Session) UndoHistory() []string { return s.undo.History() }

// Render writes the document, indented with the session's indent
func (s *Session) Render(w io.Writer) error {
	return s.doc.WriteTo(w, s.indent)
}

// String returns the compact serialization of the document
func (s *Session) String() string { return s.doc.String() }

// Resolve returns the view node at path. An empty path resolves to nil, the document root.
func (s *Session) Resolve(path string) (*domain.ViewNode, error) {
	p, err := application.ValidateNodePath("nodePath", path)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, nil
	}
	return s.view.NodeAt(p)
}

func (s *Session) mustResolve(path string) (*domain.ViewNode, error) {
	v, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, application.ErrNoSelection
	}
	return v, nil
}

// Select selects the node at path
func (s *Session) Select(path string) (*domain.ViewNode, error) {
	v, err := s.mustResolve(path)
	if err != nil {
		return nil, err
	}
	s.view.SetSelectedNode(v)
	return v, nil
}

// Selected returns the selected node and its path
func (s *Session) Selected() (*domain.ViewNode, domain.NodePath) {
	v := s.view.SelectedNode()
	if v == nil {
		return nil, nil
	}
	return v, s.view.PathOf(v)
}

// PathOf returns the path of v as a string
func (s *Session) PathOf(v *domain.ViewNode) string {
	return s.view.PathOf(v).String()
}

func (s *Session) push(op string, v *domain.ViewNode, cmd commands.Command) error {
	if err := s.undo.Push(cmd); err != nil {
		return application.NewNodeError(op, v, err)
	}
	return nil
}

// Insert adds a node of kind relative to the node at target. Kinds that need a name are
// committed with name at once; if the name is refused the insertion is rolled back.
func (s *Session) Insert(target string, pos commands.Position, kind domain.NodeType, name string) (*domain.ViewNode, error) {
	t, err := s.Resolve(target)
	if err != nil {
		return nil, err
	}
	if kind.RequiresName() {
		if err := application.ValidateQName("qname", name); err != nil {
			return nil, err
		}
	}
	cmd := commands.NewInsertNode(s.view, pos, kind, t)
	if err := cmd.Do(); err != nil {
		return nil, application.NewNodeError("insert", t, err)
	}
	if kind.RequiresName() {
		if err := cmd.Commit(name); err != nil {
			if uerr := cmd.Undo(); uerr != nil {
				s.logger.Error("failed to roll back insert", slog.Any("error", uerr))
			}
			return nil, application.NewNodeError("insert", t, err)
		}
	}
	s.undo.Record(cmd)
	return cmd.NewNode(), nil
}

// Delete removes the node at path
func (s *Session) Delete(path string) error {
	v, err := s.mustResolve(path)
	if err != nil {
		return err
	}
	return s.push("delete", v, commands.NewDeleteNode(s.view, v))
}

// Move moves the node at source, or a copy of it, relative to the node at target
func (s *Session) Move(source, target string, pos commands.Position, asCopy bool) (*domain.ViewNode, error) {
	src, err := s.mustResolve(source)
	if err != nil {
		return nil, err
	}
	dst, err := s.Resolve(target)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewMoveNode(s.view, src, dst, pos, asCopy)
	if err != nil {
		return nil, application.NewNodeError("move", src, err)
	}
	if err := s.push("move", src, cmd); err != nil {
		return nil, err
	}
	return cmd.Source(), nil
}

// Duplicate inserts a copy of the node at path right after it
func (s *Session) Duplicate(path string) (*domain.ViewNode, error) {
	v, err := s.mustResolve(path)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewDuplicate(s.view, v)
	if err != nil {
		return nil, application.NewNodeError("duplicate", v, err)
	}
	if err := s.push("duplicate", v, cmd); err != nil {
		return nil, err
	}
	return cmd.Source(), nil
}

// Nudge moves the node at path one step in dir
func (s *Session) Nudge(path string, dir commands.NudgeDirection) error {
	v, err := s.mustResolve(path)
	if err != nil {
		return err
	}
	cmd, err := commands.NewNudge(s.view, v, dir)
	if err != nil {
		return application.NewNodeError("nudge "+dir.String(), v, err)
	}
	return s.push("nudge "+dir.String(), v, cmd)
}

// Rename gives the node at path a new qualified name
func (s *Session) Rename(path, name string) error {
	v, err := s.mustResolve(path)
	if err != nil {
		return err
	}
	cmd, err := commands.NewEditNodeName(s.view, v, name)
	if err != nil {
		return application.NewNodeError("rename", v, err)
	}
	return s.push("rename", v, cmd)
}

// Retype converts the node at path to another kind
func (s *Session) Retype(path string, kind domain.NodeType) (*domain.ViewNode, error) {
	v, err := s.mustResolve(path)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewChangeNode(s.view, v, kind)
	if err != nil {
		return nil, application.NewNodeError("change", v, err)
	}
	if err := s.push("change", v, cmd); err != nil {
		return nil, err
	}
	if cmd.IsNoop() {
		return v, nil
	}
	return cmd.NewNode(), nil
}

// SetValue changes the value of the node at path
func (s *Session) SetValue(path, value string) error {
	v, err := s.mustResolve(path)
	if err != nil {
		return err
	}
	cmd, err := commands.NewEditNodeValue(s.view, v, value)
	if err != nil {
		return application.NewNodeError("edit", v, err)
	}
	return s.push("edit", v, cmd)
}

// Cut moves the node at path to the clipboard
func (s *Session) Cut(path string) (*domain.TreeData, error) {
	v, err := s.mustResolve(path)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewCutCommand(s.view, s.clipboard, v)
	if err != nil {
		return nil, application.NewNodeError("cut", v, err)
	}
	if err := s.push("cut", v, cmd); err != nil {
		return nil, err
	}
	return cmd.Data(), nil
}

// Copy places the node at path on the clipboard
func (s *Session) Copy(path string) (*domain.TreeData, error) {
	v, err := s.mustResolve(path)
	if err != nil {
		return nil, err
	}
	data, err := commands.Copy(s.clipboard, v)
	if err != nil {
		return nil, application.NewNodeError("copy", v, err)
	}
	return data, nil
}

// Paste inserts the clipboard payload relative to the node at target
func (s *Session) Paste(target string, pos commands.Position) (*domain.ViewNode, error) {
	t, err := s.Resolve(target)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewPasteCommand(s.view, s.clipboard, pos, t)
	if err != nil {
		return nil, application.NewNodeError("paste", t, err)
	}
	if err := s.push("paste", t, cmd); err != nil {
		return nil, err
	}
	return cmd.NewNode(), nil
}

// PasteEntry inserts a clipboard history entry relative to the node at target
func (s *Session) PasteEntry(id, target string, pos commands.Position) (*domain.ViewNode, error) {
	if err := application.ValidateRequired("entryID", id); err != nil {
		return nil, err
	}
	if s.history == nil {
		return nil, application.ErrNoHistory
	}
	entry, err := s.history.Get(id)
	if err != nil {
		return nil, err
	}
	t, err := s.Resolve(target)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewPasteTreeData(s.view, entry.TreeData(), pos, t)
	if err != nil {
		return nil, application.NewNodeError("paste", t, err)
	}
	if err := s.push("paste", t, cmd); err != nil {
		return nil, err
	}
	return cmd.NewNode(), nil
}

// ClipboardHistory returns the most recent clipboard entries
func (s *Session) ClipboardHistory(limit int) ([]ports.ClipboardEntry, error) {
	if s.history == nil {
		return nil, application.ErrNoHistory
	}
	return s.history.List(limit)
}

// Undo reverses the last command and returns its name
func (s *Session) Undo() (string, error) {
	cmd, err := s.undo.Undo()
	if err != nil {
		return "", err
	}
	return cmd.Name(), nil
}

// Redo re-applies the last undone command and returns its name
func (s *Session) Redo() (string, error) {
	cmd, err := s.undo.Redo()
	if err != nil {
		return "", err
	}
	return cmd.Name(), nil
}
