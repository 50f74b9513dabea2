package views

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"xmlpad/internal/application"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/ports"
)

// HistoryKeyMap defines key bindings for the clipboard history view
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Paste      key.Binding
	PasteAfter key.Binding
	Close      key.Binding
}

var HistoryKeys = HistoryKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Paste: key.NewBinding(
		key.WithKeys("enter", "p"),
		key.WithHelp("enter", "paste inside"),
	),
	PasteAfter: key.NewBinding(
		key.WithKeys("P", "a"),
		key.WithHelp("P", "paste after"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "c"),
		key.WithHelp("esc", "back"),
	),
}

// historyLimit bounds the entries the view lists
const historyLimit = 100

// PasteEntryMsg asks for a history entry to be pasted at the browser selection
type PasteEntryMsg struct {
	ID       string
	Position commands.Position
}

// EntryLister returns the most recent clipboard entries
type EntryLister interface {
	ClipboardHistory(limit int) ([]ports.ClipboardEntry, error)
}

// HistoryModel lists recent clipboard payloads
type HistoryModel struct {
	ViewState
	source  EntryLister
	entries []ports.ClipboardEntry
	pager   *Paginator
}

// NewHistoryModel creates a history view over source
func NewHistoryModel(source EntryLister) *HistoryModel {
	return &HistoryModel{source: source, pager: NewPaginator(15)}
}

// Load reads the entries again
func (m *HistoryModel) Load() {
	m.ClearMessage()
	entries, err := m.source.ClipboardHistory(historyLimit)
	switch {
	case errors.Is(err, application.ErrNoHistory):
		m.SetMessage("Clipboard history is disabled", true)
	case err != nil:
		m.SetError(err)
	}
	m.entries = entries
	m.pager.SetTotal(len(entries))
	m.pager.SetCursor(0)
}

// Init initializes the history view
func (m *HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view
func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.HandleSize(msg) {
		m.pager.SetPageSize(m.Height - chromeLines)
		return m, nil
	}
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msgKey, HistoryKeys.Close):
		return m, func() tea.Msg { return SwitchToBrowserMsg{} }
	case key.Matches(msgKey, HistoryKeys.Up):
		m.pager.CursorUp()
	case key.Matches(msgKey, HistoryKeys.Down):
		m.pager.CursorDown()
	case key.Matches(msgKey, HistoryKeys.Paste):
		return m, m.paste(commands.PositionChild)
	case key.Matches(msgKey, HistoryKeys.PasteAfter):
		return m, m.paste(commands.PositionAfter)
	}
	return m, nil
}

func (m *HistoryModel) paste(pos commands.Position) tea.Cmd {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.entries) {
		return nil
	}
	id := m.entries[i].ID
	return tea.Sequence(
		func() tea.Msg { return SwitchToBrowserMsg{} },
		func() tea.Msg { return PasteEntryMsg{ID: id, Position: pos} },
	)
}

// View renders the history view
func (m *HistoryModel) View() string {
	v := NewViewBuilder().Title("Clipboard History")
	if len(m.entries) == 0 && m.Message == "" {
		v.Muted("Nothing has been cut or copied yet.")
	}
	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(RenderEntryLine(m.entries[i], m.Width, i == m.pager.Cursor()))
	}
	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(HistoryKeys.Paste, HistoryKeys.PasteAfter, HistoryKeys.Close).
		String()
}
