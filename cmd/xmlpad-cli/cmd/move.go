package cmd

import (
	"github.com/spf13/cobra"

	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
)

var (
	movePosition string
	moveCopy     bool
)

var moveCmd = &cobra.Command{
	Use:   "move <source-path> <target-path>",
	Short: "Move a node, or a copy of it, next to or into another node",
	Long: `Move the node at source-path relative to the node at target-path.

Rules:
- Attributes only go into elements, and stay in front of child nodes
- A node cannot move into its own subtree
- A copied attribute gets a new name when the target already has one

Examples:
  xmlpad-cli move -f doc.xml /0/3 /0/1             # make /0/3 the last child of /0/1
  xmlpad-cli move -f doc.xml /0/3 /0/1 -p before   # place it in front of /0/1
  xmlpad-cli move -f doc.xml /0/3 /0/1 --copy`,
	Args: cobra.ExactArgs(2),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		pos, err := commands.ParsePosition(movePosition)
		if err != nil {
			return "", err
		}
		v, err := s.Move(args[0], args[1], pos, moveCopy)
		if err != nil {
			return "", err
		}
		verb := "Moved "
		if moveCopy {
			verb = "Copied "
		}
		return verb + nodeLine(s, s.PathOf(v)), nil
	}),
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <path>",
	Short: "Place a copy of a node right after it",
	Args:  cobra.ExactArgs(1),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		v, err := s.Duplicate(args[0])
		if err != nil {
			return "", err
		}
		return "Duplicated as " + nodeLine(s, s.PathOf(v)), nil
	}),
}

var nudgeCmd = &cobra.Command{
	Use:   "nudge <path> <up|down|left|right>",
	Short: "Move a node one step",
	Long: `Move a node one step: up and down swap it with its neighbour, left makes it
a sibling of its parent, right makes it the last child of the element before it.`,
	Args: cobra.ExactArgs(2),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		dir, err := commands.ParseNudgeDirection(args[1])
		if err != nil {
			return "", err
		}
		v, err := s.Resolve(args[0])
		if err != nil {
			return "", err
		}
		if err := s.Nudge(args[0], dir); err != nil {
			return "", err
		}
		return "Moved " + dir.String() + " to " + nodeLine(s, s.PathOf(v)), nil
	}),
}

func init() {
	moveCmd.Flags().StringVarP(&movePosition, "position", "p", "child", "where to place the node: child, before or after")
	moveCmd.Flags().BoolVar(&moveCopy, "copy", false, "move a copy and leave the source in place")
	rootCmd.AddCommand(moveCmd, duplicateCmd, nudgeCmd)
}
