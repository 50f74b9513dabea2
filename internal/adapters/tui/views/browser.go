package views

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"xmlpad/internal/adapters/tui/styles"
	"xmlpad/internal/application"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
	"xmlpad/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Left       key.Binding
	Right      key.Binding
	Enter      key.Binding
	Insert     key.Binding
	Rename     key.Binding
	Value      key.Binding
	ValueExt   key.Binding
	Retype     key.Binding
	Delete     key.Binding
	Duplicate  key.Binding
	Cut        key.Binding
	Copy       key.Binding
	Paste      key.Binding
	PasteAfter key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Save       key.Binding
	Reload     key.Binding
	History    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "toggle"),
	),
	Insert: key.NewBinding(
		key.WithKeys("n", "i"),
		key.WithHelp("n", "insert"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Value: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit value"),
	),
	ValueExt: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "value in $EDITOR"),
	),
	Retype: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "change type"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	Cut: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cut"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste inside"),
	),
	PasteAfter: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "paste after"),
	),
	NudgeUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	NudgeDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	NudgeLeft: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "outdent"),
	),
	NudgeRight: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "indent"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "ctrl+z"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r", "U"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	History: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clipboard history"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// browser chrome: title, blank, status, message, help
const chromeLines = 8

// BrowserModel shows the document tree of a session and applies editing keys to it
type BrowserModel struct {
	ViewState
	session *session.Session
	lines   []session.OutlineLine
	pager   *Paginator
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(s *session.Session) *BrowserModel {
	m := &BrowserModel{
		session: s,
		pager:   NewPaginator(20),
	}
	m.Refresh()
	return m
}

// SavedMsg reports that the document was written to disk
type SavedMsg struct {
	Path string
}

// ReloadMsg asks for the document to be read again from disk
type ReloadMsg struct{}

// EditExternallyMsg asks for a value to be edited in $EDITOR
type EditExternallyMsg struct {
	Path  string
	Value string
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToHistoryMsg struct{}

type SwitchToBrowserMsg struct{}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ReloadMsg:
		if err := m.session.Reload(); err != nil {
			m.SetError(err)
			return m, nil
		}
		m.Refresh()
		m.SetMessage("Reloaded "+filepath.Base(m.session.Path()), false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	sel := m.Selected()
	path := m.SelectedPath()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		if m.session.Dirty() {
			return confirm("Quit", "Discard unsaved changes and quit?", tea.Quit)
		}
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.pager.CursorUp()
		m.syncSelection()

	case key.Matches(msg, BrowserKeys.Down):
		m.pager.CursorDown()
		m.syncSelection()

	case key.Matches(msg, BrowserKeys.PageUp):
		m.pager.PageUp()
		m.syncSelection()

	case key.Matches(msg, BrowserKeys.PageDown):
		m.pager.PageDown()
		m.syncSelection()

	case key.Matches(msg, BrowserKeys.Left):
		if sel == nil {
			return nil
		}
		if sel.Expanded && sel.ChildCount() > 0 {
			sel.SetExpanded(false)
			m.Refresh()
		} else if sel.Parent() != nil {
			m.Focus(sel.Parent())
		}

	case key.Matches(msg, BrowserKeys.Right):
		if sel != nil && !sel.Expanded && sel.ChildCount() > 0 {
			sel.SetExpanded(true)
			m.Refresh()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if sel != nil && sel.ChildCount() > 0 {
			sel.SetExpanded(!sel.Expanded)
			m.Refresh()
		}

	case key.Matches(msg, BrowserKeys.Insert):
		return m.prompt(ActionInsert, sel, path)

	case key.Matches(msg, BrowserKeys.Rename):
		if sel == nil || !sel.Kind().RequiresName() || sel.Node() == nil {
			m.SetMessage("Only elements, attributes and processing instructions have names", true)
			return nil
		}
		return m.prompt(ActionRename, sel, path, sel.Node().Name())

	case key.Matches(msg, BrowserKeys.Value):
		if v, ok := m.editableValue(sel); ok {
			return m.prompt(ActionSetValue, sel, path, v)
		}

	case key.Matches(msg, BrowserKeys.ValueExt):
		if v, ok := m.editableValue(sel); ok {
			return func() tea.Msg { return EditExternallyMsg{Path: path, Value: v} }
		}

	case key.Matches(msg, BrowserKeys.Retype):
		if sel != nil {
			return m.prompt(ActionRetype, sel, path, sel.Kind().String())
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if sel != nil {
			text := sel.Text()
			m.report(m.session.Delete(path), "Deleted "+text)
		}

	case key.Matches(msg, BrowserKeys.Duplicate):
		if sel != nil {
			v, err := m.session.Duplicate(path)
			m.reportNode(v, err, "Duplicated")
		}

	case key.Matches(msg, BrowserKeys.Cut):
		if sel != nil {
			text := sel.Text()
			_, err := m.session.Cut(path)
			m.report(err, "Cut "+text)
		}

	case key.Matches(msg, BrowserKeys.Copy):
		if sel != nil {
			_, err := m.session.Copy(path)
			m.report(err, "Copied "+sel.Text())
		}

	case key.Matches(msg, BrowserKeys.Paste):
		v, err := m.session.Paste(path, commands.PositionChild)
		m.reportNode(v, err, "Pasted")

	case key.Matches(msg, BrowserKeys.PasteAfter):
		v, err := m.session.Paste(path, commands.PositionAfter)
		m.reportNode(v, err, "Pasted")

	case key.Matches(msg, BrowserKeys.NudgeUp):
		m.nudge(sel, path, commands.NudgeUp)
	case key.Matches(msg, BrowserKeys.NudgeDown):
		m.nudge(sel, path, commands.NudgeDown)
	case key.Matches(msg, BrowserKeys.NudgeLeft):
		m.nudge(sel, path, commands.NudgeLeft)
	case key.Matches(msg, BrowserKeys.NudgeRight):
		m.nudge(sel, path, commands.NudgeRight)

	case key.Matches(msg, BrowserKeys.Undo):
		name, err := m.session.Undo()
		m.report(err, "Undid "+name)

	case key.Matches(msg, BrowserKeys.Redo):
		name, err := m.session.Redo()
		m.report(err, "Redid "+name)

	case key.Matches(msg, BrowserKeys.Save):
		if err := m.session.Save(); err != nil {
			m.SetError(err)
			return nil
		}
		saved := m.session.Path()
		m.SetMessage("Saved "+filepath.Base(saved), false)
		return func() tea.Msg { return SavedMsg{Path: saved} }

	case key.Matches(msg, BrowserKeys.Reload):
		if m.session.Path() == "" {
			m.SetMessage("Nothing to reload", true)
			return nil
		}
		reload := func() tea.Msg { return ReloadMsg{} }
		if m.session.Dirty() {
			return confirm("Reload", "Discard unsaved changes and reload?", reload)
		}
		return reload

	case key.Matches(msg, BrowserKeys.History):
		return func() tea.Msg { return SwitchToHistoryMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func confirm(title, question string, onConfirm tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return SwitchToConfirmMsg{Title: title, Question: question, OnConfirm: onConfirm}
	}
}

func (m *BrowserModel) prompt(action PromptAction, sel *domain.ViewNode, path string, initial ...string) tea.Cmd {
	node := ""
	if sel != nil {
		node = path + "  " + sel.Text()
	}
	return func() tea.Msg {
		return SwitchToPromptMsg{Action: action, Path: path, Node: node, Initial: initial}
	}
}

func (m *BrowserModel) editableValue(sel *domain.ViewNode) (string, bool) {
	if sel == nil || sel.Node() == nil {
		return "", false
	}
	if sel.Kind() == domain.NodeElement {
		m.SetMessage("Elements have no value; insert a text node instead", true)
		return "", false
	}
	return sel.Node().Value(), true
}

func (m *BrowserModel) nudge(sel *domain.ViewNode, path string, dir commands.NudgeDirection) {
	if sel == nil {
		return
	}
	if err := m.session.Nudge(path, dir); err != nil {
		m.SetError(err)
		return
	}
	m.Refresh()
	m.Focus(sel)
}

// Apply runs the edit a prompt collected
func (m *BrowserModel) Apply(msg PromptSubmitMsg) error {
	switch msg.Action {
	case ActionInsert:
		kind, err := application.ValidateNodeType("nodeType", msg.Values[0])
		if err != nil {
			return err
		}
		pos, err := commands.ParsePosition(msg.Values[1])
		if err != nil {
			return err
		}
		name := ""
		if kind.RequiresName() {
			name = msg.Values[2]
		}
		v, err := m.session.Insert(msg.Path, pos, kind, name)
		if err != nil {
			return err
		}
		if !kind.RequiresName() && msg.Values[2] != "" {
			if err := m.session.SetValue(m.session.PathOf(v), msg.Values[2]); err != nil {
				return err
			}
		}
		m.reportNode(v, nil, "Inserted")

	case ActionRename:
		if err := m.session.Rename(msg.Path, msg.Values[0]); err != nil {
			return err
		}
		m.report(nil, "Renamed to "+msg.Values[0])

	case ActionSetValue:
		if err := m.session.SetValue(msg.Path, msg.Values[0]); err != nil {
			return err
		}
		m.report(nil, "Value updated")

	case ActionRetype:
		kind, err := application.ValidateNodeType("nodeType", msg.Values[0])
		if err != nil {
			return err
		}
		v, err := m.session.Retype(msg.Path, kind)
		if err != nil {
			return err
		}
		m.reportNode(v, nil, "Changed to "+kind.String())

	default:
		return fmt.Errorf("unknown action %d", msg.Action)
	}
	return nil
}

// PasteEntry pastes a clipboard history entry next to the selection
func (m *BrowserModel) PasteEntry(id string, pos commands.Position) {
	v, err := m.session.PasteEntry(id, m.SelectedPath(), pos)
	m.reportNode(v, err, "Pasted")
}

// report refreshes the tree after an edit and shows its outcome
func (m *BrowserModel) report(err error, success string) {
	m.Refresh()
	if err != nil {
		if errors.Is(err, application.ErrNothingToUndo) || errors.Is(err, application.ErrNothingToRedo) {
			m.SetMessage(err.Error(), false)
			return
		}
		m.SetError(err)
		return
	}
	m.SetMessage(success, false)
}

func (m *BrowserModel) reportNode(v *domain.ViewNode, err error, verb string) {
	if err != nil || v == nil {
		m.report(err, verb)
		return
	}
	m.Focus(v)
	m.SetMessage(verb+" "+v.Text(), false)
}

// Refresh rebuilds the visible lines from the session and keeps the selection in view
func (m *BrowserModel) Refresh() {
	m.lines = m.session.Outline(false)
	m.pager.SetTotal(len(m.lines))
	if sel := m.session.View().SelectedNode(); sel != nil {
		for i, line := range m.lines {
			if line.Node == sel {
				m.pager.SetCursor(i)
				return
			}
		}
	}
	m.syncSelection()
}

// Focus expands the ancestors of v and moves the cursor onto it
func (m *BrowserModel) Focus(v *domain.ViewNode) {
	for p := v.Parent(); p != nil; p = p.Parent() {
		if !p.Expanded {
			p.SetExpanded(true)
		}
	}
	m.session.View().SetSelectedNode(v)
	m.Refresh()
}

func (m *BrowserModel) syncSelection() {
	m.session.View().SetSelectedNode(m.Selected())
}

// Selected returns the node under the cursor
func (m *BrowserModel) Selected() *domain.ViewNode {
	i := m.pager.Cursor()
	if i >= 0 && i < len(m.lines) {
		return m.lines[i].Node
	}
	return nil
}

// SelectedPath returns the path of the node under the cursor, empty when there is none
func (m *BrowserModel) SelectedPath() string {
	i := m.pager.Cursor()
	if i >= 0 && i < len(m.lines) {
		return m.lines[i].Path
	}
	return ""
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("xmlpad"))
	b.WriteString("\n")

	if len(m.lines) == 0 {
		b.WriteString(styles.MutedText.Render("Empty document. Press n to insert the root element."))
		b.WriteString("\n")
	}
	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(RenderOutlineLine(m.lines[i], i == m.pager.Cursor()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}

	b.WriteString(RenderHelpLine(
		BrowserKeys.Insert, BrowserKeys.Rename, BrowserKeys.Value, BrowserKeys.Delete,
		BrowserKeys.Undo, BrowserKeys.Save, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderStatus() string {
	var kind domain.NodeType
	if sel := m.Selected(); sel != nil {
		kind = sel.Kind()
	}
	return RenderStatus(m.session.Path(), m.SelectedPath(), kind, m.pager.Cursor()+1, len(m.lines), m.session.Dirty())
}

// SetSize updates the view dimensions and the visible window
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - chromeLines)
}
