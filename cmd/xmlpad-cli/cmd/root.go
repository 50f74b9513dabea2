package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xmlpad/internal/application/session"
	"xmlpad/internal/bootstrap"
	"xmlpad/internal/config"
)

var (
	configPath string
	filePath   string
	dryRun     bool
	env        *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "xmlpad-cli",
	Short: "Edit XML documents one command at a time",
	Long: `xmlpad-cli applies a single editing command to an XML document and saves it.

Nodes are addressed by path: the child indexes from the top of the document,
with attributes counted before child nodes. Run "xmlpad-cli tree -f doc.xml"
to see the path of every node.

Cut and copied nodes go to the system clipboard, or to a file shared by every
invocation when no system clipboard is available, and are kept in the
clipboard history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		// a failed command skips the post run
		if env != nil {
			env.Close()
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		env, err = bootstrap.New(cfg, bootstrap.WithLogOutput(cmd.ErrOrStderr()))
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		err := env.Close()
		env = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "XML document to edit")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "print the edited document instead of saving it")
}

// openDocument opens the document named by --file
func openDocument() (*session.Session, error) {
	if filePath == "" {
		return nil, fmt.Errorf("no document given: use --file")
	}
	return env.OpenSession(filePath)
}

// editRun builds a RunE that opens the document, applies edit and saves the result.
// edit returns the line reported on success.
func editRun(edit func(s *session.Session, args []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openDocument()
		if err != nil {
			return err
		}
		message, err := edit(s, args)
		if err != nil {
			return err
		}
		if dryRun {
			return s.Render(cmd.OutOrStdout())
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	}
}

// nodeLine describes a node as "path  text"
func nodeLine(s *session.Session, path string) string {
	v, err := s.Resolve(path)
	if err != nil || v == nil {
		return path
	}
	return s.PathOf(v) + "  " + v.Text()
}
