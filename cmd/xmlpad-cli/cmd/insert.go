package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmlpad/internal/application"
	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
)

var (
	insertPosition string
	insertValue    string
)

var insertCmd = &cobra.Command{
	Use:   "insert <target-path> <kind> [name]",
	Short: "Insert a new node",
	Long: `Insert a node of the given kind relative to the node at target-path.
Elements, attributes and processing instructions need a name.
Use "/" as the target to insert at the top of the document.

Kinds: element, attribute, text, cdata, comment, pi

Examples:
  xmlpad-cli insert -f doc.xml /0 element item
  xmlpad-cli insert -f doc.xml /0/1 attribute id --value 42
  xmlpad-cli insert -f doc.xml /0/1 comment --position before --value "todo"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		kind, err := application.ValidateNodeType("nodeType", args[1])
		if err != nil {
			return "", err
		}
		pos, err := commands.ParsePosition(insertPosition)
		if err != nil {
			return "", err
		}
		name := ""
		if len(args) == 3 {
			name = args[2]
		}
		v, err := s.Insert(args[0], pos, kind, name)
		if err != nil {
			return "", err
		}
		path := s.PathOf(v)
		if insertValue != "" {
			if err := s.SetValue(path, insertValue); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Inserted %s", nodeLine(s, path)), nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a node and its subtree",
	Args:  cobra.ExactArgs(1),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		line := nodeLine(s, args[0])
		if err := s.Delete(args[0]); err != nil {
			return "", err
		}
		return "Deleted " + line, nil
	}),
}

func init() {
	insertCmd.Flags().StringVarP(&insertPosition, "position", "p", "child", "where to insert: child, before or after")
	insertCmd.Flags().StringVar(&insertValue, "value", "", "value for the new node")
	rootCmd.AddCommand(insertCmd, deleteCmd)
}
