// Package bootstrap builds the adapters every xmlpad host needs from a Config.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"xmlpad/internal/adapters/clipboard"
	"xmlpad/internal/adapters/filesystem"
	"xmlpad/internal/adapters/sqlite"
	"xmlpad/internal/application/session"
	"xmlpad/internal/config"
	"xmlpad/internal/ports"
)

// Option is a functional option for configuring the environment.
type Option func(*Env)

// WithLogger sets the logger instead of building one from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) {
		e.Logger = logger
	}
}

// WithLogOutput sends the configured logger to w.
func WithLogOutput(w io.Writer) Option {
	return func(e *Env) {
		e.logOut = w
	}
}

// WithoutHistory skips opening the clipboard history database.
func WithoutHistory() Option {
	return func(e *Env) {
		e.noHistory = true
	}
}

// Env holds the adapters shared by the sessions of one process
type Env struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *filesystem.Store
	Clipboard ports.Clipboard
	History   ports.ClipboardHistory

	logOut    io.Writer
	noHistory bool
}

// New creates the store, clipboard and history described by cfg
func New(cfg *config.Config, opts ...Option) (*Env, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	e := &Env{Config: cfg, logOut: os.Stderr}
	for _, opt := range opts {
		opt(e)
	}
	if e.Logger == nil {
		e.Logger = cfg.App.Logger(e.logOut)
	}

	e.Store = filesystem.NewStore(cfg.Editor.Root, cfg.Editor.PreserveWhitespace)
	e.Clipboard = newClipboard(cfg.Clipboard, e.Logger)

	if cfg.History.Enabled && !e.noHistory {
		history, err := openHistory(cfg.History, e.Logger)
		if err != nil {
			return nil, err
		}
		e.History = history
	}

	e.Logger.Debug("environment ready",
		slog.String("root", cfg.Editor.Root),
		slog.String("clipboard", cfg.Clipboard.Mode),
		slog.Bool("history", e.History != nil))
	return e, nil
}

func newClipboard(cfg config.ClipboardConfig, logger *slog.Logger) ports.Clipboard {
	switch cfg.Mode {
	case config.ClipboardSystem:
		return clipboard.NewSystem()
	case config.ClipboardMemory:
		return clipboard.NewMemory()
	case config.ClipboardFile:
		return clipboard.NewFile(filesystem.ExpandPath(cfg.File))
	}
	if clipboard.Supported() {
		return clipboard.NewSystem()
	}
	logger.Debug("system clipboard unavailable, using file", slog.String("path", cfg.File))
	return clipboard.NewFile(filesystem.ExpandPath(cfg.File))
}

func openHistory(cfg config.HistoryConfig, logger *slog.Logger) (*sqlite.History, error) {
	history := sqlite.NewHistory()
	if err := history.Open(cfg.Path); err != nil {
		return nil, err
	}
	if cfg.Keep > 0 {
		pruned, err := history.Prune(cfg.Keep)
		if err != nil {
			logger.Warn("failed to prune clipboard history", slog.Any("error", err))
		} else if pruned > 0 {
			logger.Debug("clipboard history pruned", slog.Int("removed", pruned))
		}
	}
	return history, nil
}

// NewSession creates an empty session wired to the shared adapters
func (e *Env) NewSession() *session.Session {
	return session.New(e.Store, e.Clipboard, session.Options{
		UndoLimit: e.Config.Editor.UndoLimit,
		Indent:    e.Config.Editor.Indent,
		Logger:    e.Logger,
		History:   e.History,
	})
}

// OpenSession creates a session holding the document at path
func (e *Env) OpenSession(path string) (*session.Session, error) {
	s := e.NewSession()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the history database
func (e *Env) Close() error {
	if e.History != nil {
		return e.History.Close()
	}
	return nil
}
