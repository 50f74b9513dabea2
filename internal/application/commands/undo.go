package commands

import (
	"log/slog"

	"xmlpad/internal/application"
)

// DefaultUndoLimit bounds the history when no limit is configured
const DefaultUndoLimit = 1000

// UndoManager executes commands and keeps them for undo and redo.
// Commands before pos are done; commands from pos on were undone.
type UndoManager struct {
	stack  []Command
	pos    int
	limit  int
	logger *slog.Logger

	// OnChange is called after every push, undo, redo or clear
	OnChange func()
}

// NewUndoManager creates an undo manager keeping at most limit commands
func NewUndoManager(limit int, logger *slog.Logger) *UndoManager {
	if limit <= 0 {
		limit = DefaultUndoLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UndoManager{limit: limit, logger: logger}
}

// Push runs cmd and records it. No-op commands are not run and leave the history alone.
// Recording a command discards everything that was undone.
func (m *UndoManager) Push(cmd Command) error {
	if cmd.IsNoop() {
		m.logger.Debug("skipping no-op command", slog.String("command", cmd.Name()))
		return nil
	}
	if err := cmd.Do(); err != nil {
		m.logger.Warn("command failed", slog.String("command", cmd.Name()), slog.Any("error", err))
		return err
	}
	m.Record(cmd)
	return nil
}

// Record adds a command that has already been executed, for commands finished in
// several steps such as an insert followed by its name commit
func (m *UndoManager) Record(cmd Command) {
	m.stack = append(m.stack[:m.pos], cmd)
	if len(m.stack) > m.limit {
		m.stack = m.stack[len(m.stack)-m.limit:]
	}
	m.pos = len(m.stack)
	m.logger.Debug("command recorded", slog.String("command", cmd.Name()), slog.Int("depth", m.pos))
	m.changed()
}

// Undo reverses the most recent done command
func (m *UndoManager) Undo() (Command, error) {
	if !m.CanUndo() {
		return nil, application.ErrNothingToUndo
	}
	cmd := m.stack[m.pos-1]
	if err := cmd.Undo(); err != nil {
		m.logger.Warn("undo failed", slog.String("command", cmd.Name()), slog.Any("error", err))
		return cmd, err
	}
	m.pos--
	m.logger.Debug("command undone", slog.String("command", cmd.Name()), slog.Int("depth", m.pos))
	m.changed()
	return cmd, nil
}

// Redo re-applies the most recently undone command
func (m *UndoManager) Redo() (Command, error) {
	if !m.CanRedo() {
		return nil, application.ErrNothingToRedo
	}
	cmd := m.stack[m.pos]
	if err := cmd.Redo(); err != nil {
		m.logger.Warn("redo failed", slog.String("command", cmd.Name()), slog.Any("error", err))
		return cmd, err
	}
	m.pos++
	m.logger.Debug("command redone", slog.String("command", cmd.Name()), slog.Int("depth", m.pos))
	m.changed()
	return cmd, nil
}

// Peek returns the command Redo would apply, nil when there is none
func (m *UndoManager) Peek() Command {
	if !m.CanRedo() {
		return nil
	}
	return m.stack[m.pos]
}

// Current returns the command Undo would reverse, nil when there is none
func (m *UndoManager) Current() Command {
	if !m.CanUndo() {
		return nil
	}
	return m.stack[m.pos-1]
}

func (m *UndoManager) CanUndo() bool { return m.pos > 0 }

func (m *UndoManager) CanRedo() bool { return m.pos < len(m.stack) }

// Len returns the number of recorded commands, done or undone
func (m *UndoManager) Len() int { return len(m.stack) }

// History returns the names of the done commands, oldest first
func (m *UndoManager) History() []string {
	names := make([]string, 0, m.pos)
	for _, cmd := range m.stack[:m.pos] {
		names = append(names, cmd.Name())
	}
	return names
}

// Clear forgets every command
func (m *UndoManager) Clear() {
	m.stack = nil
	m.pos = 0
	m.changed()
}

func (m *UndoManager) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
