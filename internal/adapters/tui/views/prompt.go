package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptAction names the edit a prompt collects input for
type PromptAction int

const (
	ActionInsert PromptAction = iota
	ActionRename
	ActionSetValue
	ActionRetype
)

func (a PromptAction) String() string {
	switch a {
	case ActionInsert:
		return "Insert Node"
	case ActionRename:
		return "Rename"
	case ActionSetValue:
		return "Edit Value"
	case ActionRetype:
		return "Change Node Type"
	}
	return "Edit"
}

// SwitchToPromptMsg opens a prompt for the node at Path
type SwitchToPromptMsg struct {
	Action PromptAction
	Path   string
	Node   string

	// Initial prefills the prompt fields in order
	Initial []string
}

// PromptSubmitMsg carries the values entered in a prompt
type PromptSubmitMsg struct {
	Action PromptAction
	Path   string
	Values []string
}

// PromptModel asks for the input of one editing action
type PromptModel struct {
	ViewState
	action PromptAction
	path   string
	node   string
	form   *InputForm
}

// NewPromptModel creates an empty prompt
func NewPromptModel() *PromptModel {
	return &PromptModel{form: NewInputForm()}
}

// SetPrompt prepares the fields for msg
func (m *PromptModel) SetPrompt(msg SwitchToPromptMsg) {
	m.action = msg.Action
	m.path = msg.Path
	m.node = msg.Node
	m.ClearMessage()

	switch msg.Action {
	case ActionInsert:
		m.form = NewInputForm(
			NewInputField("Kind:", "element", 20),
			NewInputField("Position (child, before, after):", "child", 10),
			NewInputField("Name:", "", 200),
		)
	case ActionRename:
		m.form = NewInputForm(NewInputField("Name:", "", 200))
	case ActionSetValue:
		m.form = NewInputForm(NewInputField("Value:", "", 0))
	case ActionRetype:
		m.form = NewInputForm(NewInputField("Kind (element, attribute, text, cdata, comment, pi):", "", 20))
	}
	for i, v := range msg.Initial {
		m.form.SetValue(i, v)
	}
	if msg.Action == ActionInsert {
		m.form.SetFocus(2)
	}
}

// Action returns the action being prompted for
func (m *PromptModel) Action() PromptAction {
	return m.action
}

// Init initializes the prompt view
func (m *PromptModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the prompt view
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.HandleSize(msg) {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			submit := m.submit()
			return m, func() tea.Msg { return submit }
		}
	}
	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *PromptModel) submit() PromptSubmitMsg {
	values := make([]string, len(m.form.Fields))
	for i := range values {
		values[i] = m.form.Value(i)
	}
	// values keep their blanks
	if m.action == ActionSetValue {
		values[0] = m.form.RawValue(0)
	}
	return PromptSubmitMsg{Action: m.action, Path: m.path, Values: values}
}

// View renders the prompt view
func (m *PromptModel) View() string {
	v := NewViewBuilder().Title(m.action.String())
	if m.node != "" {
		v.Subtitle(m.node)
	} else {
		v.Subtitle("empty document")
	}
	for i := range m.form.Fields {
		v.Line(m.form.RenderField(i)).BlankLine()
	}
	return v.Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("apply")).
		String()
}
