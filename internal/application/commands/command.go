package commands

import (
	"fmt"
	"strings"
)

// Command is a reversible mutation of the document and its view.
// After Do, Undo followed by Redo must reproduce the same document and view.
type Command interface {
	Name() string
	IsNoop() bool
	Do() error
	Undo() error
	Redo() error
}

// Position says where a node goes relative to the target node
type Position int

const (
	PositionChild Position = iota
	PositionBefore
	PositionAfter
)

func (p Position) String() string {
	switch p {
	case PositionBefore:
		return "before"
	case PositionAfter:
		return "after"
	default:
		return "child"
	}
}

// ParsePosition parses "child", "before" or "after"
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "child":
		return PositionChild, nil
	case "before":
		return PositionBefore, nil
	case "after":
		return PositionAfter, nil
	}
	return PositionChild, fmt.Errorf("unknown position %q (expected child, before or after)", s)
}

// CompoundCommand applies an ordered list of commands as one undo unit
type CompoundCommand struct {
	name     string
	commands []Command
}

// NewCompoundCommand creates a compound command
func NewCompoundCommand(name string, cmds ...Command) *CompoundCommand {
	return &CompoundCommand{name: name, commands: cmds}
}

// Add appends a command to the group
func (c *CompoundCommand) Add(cmd Command) {
	c.commands = append(c.commands, cmd)
}

// Commands returns the grouped commands in execution order
func (c *CompoundCommand) Commands() []Command {
	return c.commands
}

func (c *CompoundCommand) Name() string { return c.name }

// IsNoop is true when every grouped command is a no-op
func (c *CompoundCommand) IsNoop() bool {
	for _, cmd := range c.commands {
		if !cmd.IsNoop() {
			return false
		}
	}
	return true
}

// Do runs the commands in order. When one fails, the ones already done are undone.
func (c *CompoundCommand) Do() error {
	return c.forward(Command.Do)
}

// Redo re-applies the commands in order
func (c *CompoundCommand) Redo() error {
	return c.forward(Command.Redo)
}

// Undo reverses the commands in reverse order
func (c *CompoundCommand) Undo() error {
	for i := len(c.commands) - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(); err != nil {
			for j := i + 1; j < len(c.commands); j++ {
				_ = c.commands[j].Redo()
			}
			return err
		}
	}
	return nil
}

func (c *CompoundCommand) forward(apply func(Command) error) error {
	for i, cmd := range c.commands {
		if err := apply(cmd); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.commands[j].Undo()
			}
			return err
		}
	}
	return nil
}
