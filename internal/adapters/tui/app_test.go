package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"xmlpad/internal/adapters/clipboard"
	"xmlpad/internal/adapters/filesystem"
	"xmlpad/internal/adapters/tui/views"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
	"xmlpad/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newApp(t *testing.T, markup string) (*App, *session.Session, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(path, []byte(markup), 0644); err != nil {
		t.Fatal(err)
	}
	s := session.New(filesystem.NewStore(dir, false), clipboard.NewMemory(), session.Options{UndoLimit: 10, Logger: discard})
	if err := s.Open(path); err != nil {
		t.Fatal(err)
	}
	return NewApp(s, Options{Logger: discard}), s, path
}

func TestApp_PromptFlow(t *testing.T) {
	app, s, _ := newApp(t, `<r />`)

	app.Update(views.SwitchToPromptMsg{Action: views.ActionInsert, Path: "/0"})
	if app.state != ViewPrompt {
		t.Fatalf("state = %v, want prompt", app.state)
	}

	app.Update(views.PromptSubmitMsg{Action: views.ActionInsert, Path: "/0", Values: []string{"element", "child", "1bad"}})
	if app.state != ViewPrompt {
		t.Error("a refused edit keeps the prompt open")
	}
	if app.prompt.Message == "" {
		t.Error("the prompt should show the error")
	}

	app.Update(views.PromptSubmitMsg{Action: views.ActionInsert, Path: "/0", Values: []string{"element", "child", "a"}})
	if app.state != ViewBrowser {
		t.Error("an applied edit returns to the browser")
	}
	if got := s.String(); got != `<r><a /></r>` {
		t.Errorf("got %s", got)
	}
}

func TestApp_ViewSwitching(t *testing.T) {
	app, _, _ := newApp(t, `<r />`)

	tests := []struct {
		msg  any
		want ViewState
	}{
		{views.SwitchToHelpMsg{}, ViewHelp},
		{views.SwitchToBrowserMsg{}, ViewBrowser},
		{views.SwitchToHistoryMsg{}, ViewHistory},
		{views.SwitchToConfirmMsg{Title: "Quit"}, ViewConfirm},
		{views.SwitchToBrowserMsg{}, ViewBrowser},
	}
	for _, tt := range tests {
		app.Update(tt.msg)
		if app.state != tt.want {
			t.Errorf("after %T state = %v, want %v", tt.msg, app.state, tt.want)
		}
		if app.View() == "" {
			t.Errorf("empty view in state %v", app.state)
		}
	}
}

func TestApp_ValueEditedExternally(t *testing.T) {
	app, s, _ := newApp(t, `<r a="1" />`)

	_, cmd := app.Update(valueEditedMsg{path: "/0/0", value: "two words"})
	if cmd == nil {
		t.Fatal("expected the value to be applied")
	}
	app.Update(cmd())
	if got := s.String(); got != `<r a="two words" />` {
		t.Errorf("got %s", got)
	}
}

func TestApp_FileChanged(t *testing.T) {
	app, s, path := newApp(t, `<r />`)

	if err := os.WriteFile(path, []byte(`<changed />`), 0644); err != nil {
		t.Fatal(err)
	}
	_, cmd := app.Update(FileChangedMsg{})
	if cmd == nil {
		t.Fatal("a clean document should be reloaded")
	}
	app.Update(app.fileChanged()())
	if got := s.String(); got != `<changed />` {
		t.Errorf("got %s", got)
	}

	if _, err := s.Insert("/0", commands.PositionChild, domain.NodeElement, "x"); err != nil {
		t.Fatal(err)
	}
	if cmd := app.fileChanged(); cmd != nil {
		t.Error("a modified document must not be reloaded behind the user's back")
	}
}

func TestWatcher_ReportsOutsideChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(path, []byte(`<r />`), 0644); err != nil {
		t.Fatal(err)
	}

	// the write below must not share the mtime of the original file
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, discard)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.xml"), []byte(`<o />`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`<r><a /></r>`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-w.Changes():
		if !ok {
			t.Fatal("channel closed early")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	for range w.Changes() {
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "doc.xml"), discard); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
