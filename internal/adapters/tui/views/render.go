package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"xmlpad/internal/adapters/tui/styles"
	"xmlpad/internal/application/session"
	"xmlpad/internal/domain"
	"xmlpad/internal/ports"
)

// kindWidth fits the longest label RenderKind draws
const kindWidth = 9

// kindLabels shorten the kind names wider than the kind column
var kindLabels = map[domain.NodeType]string{
	domain.NodeWhitespace:            "space",
	domain.NodeSignificantWhitespace: "sig-space",
	domain.NodeEndElement:            "end-elem",
	domain.NodeEndEntity:             "end-ent",
}

// KindLabel returns the short name of a node kind
func KindLabel(kind domain.NodeType) string {
	if l, ok := kindLabels[kind]; ok {
		return l
	}
	return kind.String()
}

// RenderKind draws the kind label padded to a fixed width, in the kind's color
func RenderKind(kind domain.NodeType) string {
	return styles.NodeStyle(kind).Render(padRight(KindLabel(kind), kindWidth))
}

// RenderOutlineLine draws one node of the tree with its indent and expand marker
func RenderOutlineLine(line session.OutlineLine, selected bool) string {
	marker := styles.TreeLeaf
	if line.Node != nil && line.Node.ChildCount() > 0 {
		marker = styles.TreeCollapsed
		if line.Node.Expanded {
			marker = styles.TreeExpanded
		}
	}
	text := styles.NodeStyle(line.Kind).Render(line.Text)
	if selected {
		text = styles.NodeSelected.Render(line.Text)
	}
	return strings.Repeat("  ", line.Depth) + styles.TreeBranch.Render(marker) + text
}

// RenderEntryLine draws a clipboard history entry: short id, kind and markup on one line
func RenderEntryLine(e ports.ClipboardEntry, width int, selected bool) string {
	id := e.ID
	if len(id) > 8 {
		id = id[:8]
	}
	markup := oneLine(e.XML, max(width-30, 20))
	if selected {
		return styles.NodeSelected.Render(fmt.Sprintf("%s  %s %s", id, padRight(KindLabel(e.NodeType), kindWidth), markup))
	}
	return styles.MutedText.Render(id+"  ") + RenderKind(e.NodeType) + " " + styles.NodeStyle(e.NodeType).Render(markup)
}

// RenderStatus draws the file name, the selected node and the position in the outline
func RenderStatus(file, path string, kind domain.NodeType, cursor, total int, dirty bool) string {
	if file == "" {
		file = "[no file]"
	}
	status := styles.StatusBar.Render(fmt.Sprintf("%s  %s  %d/%d", file, path, cursor, total))
	if total > 0 {
		status += " " + RenderKind(kind)
	}
	if dirty {
		status += styles.StatusDirty.Render("modified")
	}
	return status
}

// RenderKeyHelp formats a binding as "key description"
func RenderKeyHelp(b key.Binding) string {
	h := b.Help()
	return styles.HelpKey.Render(h.Key) + " " + styles.HelpDesc.Render(h.Desc)
}

// RenderHelpLine joins bindings with the help separator
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status message; empty stays empty
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// ViewBuilder assembles a dialog body line by line
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates an empty builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) styled(s string, style func(...string) string, newlines int) *ViewBuilder {
	v.b.WriteString(style(s))
	v.b.WriteString(strings.Repeat("\n", newlines))
	return v
}

func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.styled(title, styles.Title.Render, 1)
}

func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.styled(subtitle, styles.Subtitle.Render, 2)
}

// Section adds a labelled heading
func (v *ViewBuilder) Section(label string) *ViewBuilder {
	return v.styled(label, styles.InputLabel.Render, 1)
}

// Keys adds a section listing each binding on its own row
func (v *ViewBuilder) Keys(label string, bindings ...key.Binding) *ViewBuilder {
	v.Section(label)
	for _, b := range bindings {
		h := b.Help()
		v.b.WriteString("  " + styles.HelpKey.Render(padRight(h.Key, 12)) + styles.HelpDesc.Render(h.Desc) + "\n")
	}
	return v
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text + "\n")
	return v
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.styled(text, styles.MutedText.Render, 1)
}

// Message adds a message followed by a blank line, nothing when message is empty
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message != "" {
		v.b.WriteString(RenderMessage(message, isError) + "\n\n")
	}
	return v
}

func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the body wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}

// oneLine collapses whitespace and truncates s to width runes
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
