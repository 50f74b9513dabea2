package session

import (
	"log/slog"

	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// recordingClipboard adds every payload it stores to the clipboard history.
// A history failure is logged and does not fail the cut or copy.
type recordingClipboard struct {
	ports.Clipboard
	history ports.ClipboardHistory
	logger  *slog.Logger
}

func (c *recordingClipboard) SetTreeData(data *domain.TreeData) error {
	if err := c.Clipboard.SetTreeData(data); err != nil {
		return err
	}
	if c.history == nil {
		return nil
	}
	entry, err := c.history.Record(data)
	if err != nil {
		c.logger.Warn("failed to record clipboard history", slog.Any("error", err))
		return nil
	}
	c.logger.Debug("clipboard recorded", slog.String("id", entry.ID), slog.String("type", data.NodeType.String()))
	return nil
}
