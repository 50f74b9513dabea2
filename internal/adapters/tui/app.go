package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"xmlpad/internal/adapters/editor"
	"xmlpad/internal/adapters/tui/views"
	"xmlpad/internal/application/session"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewPrompt
	ViewConfirm
	ViewHistory
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *session.Session
	editor  *editor.Opener
	watcher *Watcher
	logger  *slog.Logger

	state   ViewState
	browser *views.BrowserModel
	prompt  *views.PromptModel
	confirm *views.ConfirmationModel
	history *views.HistoryModel
	help    *views.HelpModel

	width  int
	height int
}

// Options holds the optional collaborators of the app
type Options struct {
	// Editor edits long values; nil disables it
	Editor *editor.Opener

	// Watcher reports outside changes to the document; nil disables it
	Watcher *Watcher

	Logger *slog.Logger
}

// NewApp creates a new TUI application over an open session
func NewApp(s *session.Session, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		session: s,
		editor:  opts.Editor,
		watcher: opts.Watcher,
		logger:  logger,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(s),
		prompt:  views.NewPromptModel(),
		confirm: views.NewConfirmationModel(),
		history: views.NewHistoryModel(s),
		help:    views.NewHelpModel(),
	}
}

// FileChangedMsg reports that another program changed the open document
type FileChangedMsg struct{}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	changes := a.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.history.Update(msg)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToPromptMsg:
		a.state = ViewPrompt
		a.prompt.SetPrompt(msg)
		return a, a.prompt.Init()

	case views.SwitchToConfirmMsg:
		a.state = ViewConfirm
		a.confirm.SetRequest(msg)
		return a, nil

	case views.SwitchToHistoryMsg:
		a.state = ViewHistory
		a.history.Load()
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.browser.Refresh()
		return a, nil

	case views.PromptSubmitMsg:
		if err := a.browser.Apply(msg); err != nil {
			if a.state == ViewPrompt {
				a.prompt.SetError(err)
			} else {
				a.browser.SetError(err)
			}
			return a, nil
		}
		a.state = ViewBrowser
		return a, nil

	case views.ReloadMsg:
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.PasteEntryMsg:
		a.browser.PasteEntry(msg.ID, msg.Position)
		return a, nil

	case views.EditExternallyMsg:
		return a, a.editExternally(msg)

	case valueEditedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
			return a, nil
		}
		return a, func() tea.Msg {
			return views.PromptSubmitMsg{Action: views.ActionSetValue, Path: msg.path, Values: []string{msg.value}}
		}

	case views.SavedMsg:
		if a.watcher != nil {
			a.watcher.Mark()
		}
		a.logger.Info("document saved", slog.String("path", msg.Path))
		return a, nil

	case FileChangedMsg:
		return a, tea.Batch(a.fileChanged(), a.waitForChange())
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewPrompt:
		_, cmd = a.prompt.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHistory:
		_, cmd = a.history.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// fileChanged reloads a clean document and warns about a modified one
func (a *App) fileChanged() tea.Cmd {
	if a.session.Dirty() {
		a.browser.SetMessage("The file changed on disk; press R to reload and drop your edits", true)
		return nil
	}
	return func() tea.Msg { return views.ReloadMsg{} }
}

type valueEditedMsg struct {
	path  string
	value string
	err   error
}

func (a *App) editExternally(msg views.EditExternallyMsg) tea.Cmd {
	if a.editor == nil {
		a.browser.SetMessage("No editor configured", true)
		return nil
	}
	tmp, err := editor.WriteTemp(msg.Value)
	if err != nil {
		a.browser.SetError(err)
		return nil
	}
	cmd, err := a.editor.Command(tmp)
	if err != nil {
		editor.ReadTemp(tmp)
		a.browser.SetError(err)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			editor.ReadTemp(tmp)
			return valueEditedMsg{err: err}
		}
		value, err := editor.ReadTemp(tmp)
		return valueEditedMsg{path: msg.Path, value: value, err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewPrompt:
		return a.prompt.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHistory:
		return a.history.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
