package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"xmlpad/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// SwitchToConfirmMsg asks the user before running OnConfirm
type SwitchToConfirmMsg struct {
	Title     string
	Question  string
	OnConfirm tea.Cmd
}

// ConfirmationModel guards actions that throw away unsaved edits
type ConfirmationModel struct {
	ViewState
	Keys    ConfirmKeyMap
	request SwitchToConfirmMsg
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() *ConfirmationModel {
	return &ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// SetRequest sets what the confirmation is about
func (m *ConfirmationModel) SetRequest(req SwitchToConfirmMsg) {
	m.request = req
}

// Init initializes the confirmation view
func (m *ConfirmationModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.HandleSize(msg) {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.Keys.Confirm):
			return m, tea.Sequence(func() tea.Msg { return SwitchToBrowserMsg{} }, m.request.OnConfirm)
		}
	}
	return m, nil
}

// View renders the confirmation view
func (m *ConfirmationModel) View() string {
	return NewViewBuilder().
		Title(m.request.Title).
		Line(styles.ErrorMsg.Render("The document has unsaved changes.")).
		BlankLine().
		Raw(RenderConfirmPrompt(m.request.Question)).
		String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
