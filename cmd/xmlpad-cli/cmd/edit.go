package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"xmlpad/internal/adapters/editor"
	"xmlpad/internal/application"
	"xmlpad/internal/application/session"
)

var (
	setInEditor  bool
	setFromStdin bool
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <name>",
	Short: "Rename an element, attribute or processing instruction",
	Long: `Rename a node. A prefix must be bound in scope, except on elements, which
get a declaration of their own when it is not.

Examples:
  xmlpad-cli rename -f doc.xml /0/1 entry
  xmlpad-cli rename -f doc.xml /0/1/0 xml:lang`,
	Args: cobra.ExactArgs(2),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		if err := s.Rename(args[0], args[1]); err != nil {
			return "", err
		}
		return "Renamed " + nodeLine(s, args[0]), nil
	}),
}

var retypeCmd = &cobra.Command{
	Use:   "retype <path> <kind>",
	Short: "Change the kind of a node, keeping what can be kept",
	Long: `Change a node into another kind. Markup turned into text is escaped and
parsed back when it is turned into markup again.

Kinds: element, attribute, text, cdata, comment, pi`,
	Args: cobra.ExactArgs(2),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		kind, err := application.ValidateNodeType("nodeType", args[1])
		if err != nil {
			return "", err
		}
		v, err := s.Retype(args[0], kind)
		if err != nil {
			return "", err
		}
		return "Changed to " + nodeLine(s, s.PathOf(v)), nil
	}),
}

var setCmd = &cobra.Command{
	Use:   "set <path> [value]",
	Short: "Set the value of an attribute, text, comment, CDATA or processing instruction",
	Long: `Set the value of a node. The value comes from the argument, from standard
input with --stdin, or from $EDITOR with --edit.

Examples:
  xmlpad-cli set -f doc.xml /0/0 42
  xmlpad-cli set -f doc.xml /0/2/0 --edit
  echo "long text" | xmlpad-cli set -f doc.xml /0/2/0 --stdin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRun(func(s *session.Session, args []string) (string, error) {
			value, err := readValue(cmd, s, args)
			if err != nil {
				return "", err
			}
			if err := s.SetValue(args[0], value); err != nil {
				return "", err
			}
			return "Set " + nodeLine(s, args[0]), nil
		})(cmd, args)
	},
}

func readValue(cmd *cobra.Command, s *session.Session, args []string) (string, error) {
	switch {
	case len(args) == 2:
		return args[1], nil
	case setFromStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		return string(data), nil
	case setInEditor:
		v, err := s.Resolve(args[0])
		if err != nil {
			return "", err
		}
		current := ""
		if v != nil && v.Node() != nil {
			current = v.Node().Value()
		}
		return editor.NewOpener().EditValue(current)
	}
	return "", fmt.Errorf("no value given: pass it as an argument, or use --stdin or --edit")
}

func init() {
	setCmd.Flags().BoolVarP(&setInEditor, "edit", "e", false, "edit the current value in $EDITOR")
	setCmd.Flags().BoolVar(&setFromStdin, "stdin", false, "read the value from standard input")
	rootCmd.AddCommand(renameCmd, retypeCmd, setCmd)
}
