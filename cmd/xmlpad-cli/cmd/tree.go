package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the node tree with the path of every node",
	Long: `Display every node of the document, one per line, prefixed by its path.

Example:
  xmlpad-cli tree -f catalog.xml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDocument()
		if err != nil {
			return err
		}
		return s.WriteOutline(cmd.OutOrStdout())
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the document as it would be saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDocument()
		if err != nil {
			return err
		}
		return s.Render(cmd.OutOrStdout())
	},
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print one node with the namespace declarations it needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openDocument()
		if err != nil {
			return err
		}
		v, err := s.Resolve(args[0])
		if err != nil {
			return err
		}
		if v == nil || v.Node() == nil {
			return fmt.Errorf("no node at %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", v.Kind(), s.PathOf(v), v.Node().OuterXMLStandalone())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd, renderCmd, getCmd)
}
