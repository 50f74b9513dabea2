package views

import tea "github.com/charmbracelet/bubbletea"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// HandleSize records a window resize; it reports whether msg was one
func (s *ViewState) HandleSize(msg tea.Msg) bool {
	size, ok := msg.(tea.WindowSizeMsg)
	if ok {
		s.SetSize(size.Width, size.Height)
	}
	return ok
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err as the view message
func (s *ViewState) SetError(err error) {
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}
