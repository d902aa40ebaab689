package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newJournalCommand(a *app) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect journaled sessions",
	}
	journalCmd.AddCommand(
		&cobra.Command{
			Use:   "sessions",
			Short: "List journaled sessions, most recent first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				j, err := a.requireJournal(ctx)
				if err != nil {
					return err
				}
				defer j.Close()
				sessions, err := j.Sessions(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SESSION\tENTRIES\tSTARTED\tUPDATED")
				for _, s := range sessions {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Session, s.Entries,
						s.Started.Format(time.RFC3339), s.Updated.Format(time.RFC3339))
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "show SESSION",
			Short: "Print the inputs and results of a session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				j, err := a.requireJournal(ctx)
				if err != nil {
					return err
				}
				defer j.Close()
				entries, err := j.Entries(ctx, args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return fmt.Errorf("no journaled session %s", args[0])
				}
				out := cmd.OutOrStdout()
				for _, e := range entries {
					fmt.Fprintf(out, "[%d] %s\n", e.Seq, e.Input)
					if e.Output != "" {
						for _, line := range strings.Split(e.Output, "\n") {
							fmt.Fprintf(out, "    %s\n", line)
						}
					}
					if e.Failed() {
						fmt.Fprintf(out, "    Error: %s\n", e.Error)
					}
				}
				return nil
			},
		},
	)
	return journalCmd
}
