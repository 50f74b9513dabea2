package styles

import (
	"github.com/charmbracelet/lipgloss"

	"xmlpad/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Node kind colors
	KindElement   = lipgloss.Color("#60A5FA") // Blue
	KindAttribute = lipgloss.Color("#F97316") // Orange
	KindText      = lipgloss.Color("#E5E7EB")
	KindMarkup    = lipgloss.Color("#EC4899") // Pink, for PIs and declarations

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeElement = lipgloss.NewStyle().
			Foreground(KindElement).
			Bold(true)

	NodeAttribute = lipgloss.NewStyle().
			Foreground(KindAttribute)

	NodeText = lipgloss.NewStyle().
			Foreground(KindText)

	NodeComment = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	NodeMarkup = lipgloss.NewStyle().
			Foreground(KindMarkup)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusDirty = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black).
			Padding(0, 1)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// NodeStyle returns the style a tree line of the given kind is drawn with
func NodeStyle(kind domain.NodeType) lipgloss.Style {
	switch kind {
	case domain.NodeElement:
		return NodeElement
	case domain.NodeAttribute:
		return NodeAttribute
	case domain.NodeText, domain.NodeCDATA, domain.NodeWhitespace, domain.NodeSignificantWhitespace:
		return NodeText
	case domain.NodeComment:
		return NodeComment
	default:
		return NodeMarkup
	}
}
