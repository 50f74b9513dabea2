package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes made to the open document by other programs.
// The parent directory is watched so editors that save by rename are seen too.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger
	changes chan struct{}

	mu   sync.Mutex
	mark time.Time
}

// NewWatcher starts watching path
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		watcher: fw,
		path:    abs,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}
	w.Mark()
	go w.watchLoop()
	return w, nil
}

// Changes delivers one value per burst of changes; it is closed by Close
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Mark records the current state of the file as our own, so the events of a save are ignored
func (w *Watcher) Mark() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mark = modTime(w.path)
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	mtime := modTime(w.path)
	own := !mtime.IsZero() && mtime.Equal(w.mark)
	w.mu.Unlock()
	if own {
		return
	}

	w.logger.Debug("document changed on disk", slog.String("path", w.path), slog.String("op", event.Op.String()))
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
