package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"xmlpad/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.HandleSize(msg) {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, HelpKeys.Close) {
		return m, func() tea.Msg {
			return SwitchToBrowserMsg{}
		}
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	k := BrowserKeys
	v := NewViewBuilder().
		Title("xmlpad Help").
		Subtitle("Edits are undoable until the document is reloaded")

	v.Keys("Navigation", k.Up, k.Down, k.PageUp, k.PageDown, k.Left, k.Right, k.Enter).
		BlankLine().
		Keys("Editing", k.Insert, k.Rename, k.Value, k.ValueExt, k.Retype, k.Delete, k.Duplicate).
		BlankLine().
		Keys("Moving", k.NudgeUp, k.NudgeDown, k.NudgeLeft, k.NudgeRight).
		BlankLine().
		Keys("Clipboard", k.Cut, k.Copy, k.Paste, k.PasteAfter, k.History).
		BlankLine().
		Keys("General", k.Undo, k.Redo, k.Save, k.Reload, k.Help, k.Quit)

	return v.BlankLine().
		Raw(styles.HelpDesc.Render("Press ")).
		Raw(styles.HelpKey.Render("esc")).
		Raw(styles.HelpDesc.Render(" or ")).
		Raw(styles.HelpKey.Render("?")).
		Raw(styles.HelpDesc.Render(" to close")).
		String()
}
