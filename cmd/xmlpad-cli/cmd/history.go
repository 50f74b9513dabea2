package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xmlpad/internal/application"
)

var (
	historyLimit int
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the clipboard history",
	Long: `Every node cut or copied is kept in the clipboard history. Entries can be
pasted again with "paste --entry <id>", where a unique id prefix of at least
four characters is enough.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.History == nil {
			return application.ErrNoHistory
		}
		entries, err := env.History.List(historyLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-9s %s\n",
				shortID(e.ID), e.CreatedAt.Format("2006-01-02 15:04"), e.NodeType, oneLine(e.XML, 60))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.History == nil {
			return application.ErrNoHistory
		}
		e, err := env.History.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n", e.ID, e.NodeType, e.XML)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Keep only the newest entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.History == nil {
			return application.ErrNoHistory
		}
		removed, err := env.History.Prune(historyKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "number of entries to show (0 for all)")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "number of entries to keep")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
