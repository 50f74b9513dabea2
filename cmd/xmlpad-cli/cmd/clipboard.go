package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmlpad/internal/application/commands"
	"xmlpad/internal/application/session"
)

var (
	pastePosition string
	pasteEntry    string
)

var cutCmd = &cobra.Command{
	Use:   "cut <path>",
	Short: "Move a node to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		line := nodeLine(s, args[0])
		if _, err := s.Cut(args[0]); err != nil {
			return "", err
		}
		return "Cut " + line, nil
	}),
}

var copyCmd = &cobra.Command{
	Use:   "copy <path>",
	Short: "Copy a node to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDocument()
		if err != nil {
			return err
		}
		data, err := s.Copy(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %s\n", data.NodeType)
		return nil
	},
}

var pasteCmd = &cobra.Command{
	Use:   "paste <target-path>",
	Short: "Insert the clipboard, or a clipboard history entry, relative to a node",
	Long: `Insert the clipboard contents relative to the node at target-path. Plain text
on the system clipboard is pasted as an attribute, comment, processing
instruction, CDATA section, element or text, whichever it looks like.

Examples:
  xmlpad-cli paste -f doc.xml /0
  xmlpad-cli paste -f doc.xml /0/2 -p after
  xmlpad-cli paste -f doc.xml /0 --entry 3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: editRun(func(s *session.Session, args []string) (string, error) {
		pos, err := commands.ParsePosition(pastePosition)
		if err != nil {
			return "", err
		}
		var pasted string
		if pasteEntry != "" {
			v, err := s.PasteEntry(pasteEntry, args[0], pos)
			if err != nil {
				return "", err
			}
			pasted = s.PathOf(v)
		} else {
			v, err := s.Paste(args[0], pos)
			if err != nil {
				return "", err
			}
			pasted = s.PathOf(v)
		}
		return "Pasted " + nodeLine(s, pasted), nil
	}),
}

func init() {
	pasteCmd.Flags().StringVarP(&pastePosition, "position", "p", "child", "where to paste: child, before or after")
	pasteCmd.Flags().StringVar(&pasteEntry, "entry", "", "paste a clipboard history entry (id or id prefix) instead")
	rootCmd.AddCommand(cutCmd, copyCmd, pasteCmd)
}
