// ABOUTME: Session management subcommands: list, fork, delete and export saved conversations
// ABOUTME: Sessions live as JSONL files under the global sessions directory

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-offline-go/internal/export"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Manage saved conversations",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		sessions, err := a.store.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			_, err := fmt.Fprintln(out, "No sessions found.")
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTURNS\tMODE\tMODIFIED")
		for _, s := range sessions {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.ID, s.Turns, s.Mode, s.Modified.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var sessionsForkCmd = &cobra.Command{
	Use:   "fork <id>",
	Short: "Copy a session under a new ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		id, err := a.store.Fork(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Forked %s -> %s\n", args[0], id)
		return err
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete saved sessions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		for _, id := range args {
			if err := a.store.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		}
		return nil
	},
}

var exportTitle string

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a session as Markdown, HTML or JSON (chosen by extension)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		h, err := a.store.LoadHistory(args[0])
		if err != nil {
			return err
		}
		meta := export.Meta{Title: exportTitle, SessionID: args[0], Exported: time.Now()}
		if err := export.Write(args[1], h, meta); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d turns to %s\n", len(h), args[1])
		return err
	},
}

func init() {
	sessionsExportCmd.Flags().StringVar(&exportTitle, "title", "", "Document title")
}
