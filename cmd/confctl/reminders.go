package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/di"
)

func newRemindersCmd(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Preview and send reminders",
	}

	due := &cobra.Command{
		Use:   "due <email>",
		Short: "Show reminders due today for a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a app) error {
				due := a.Reminders.ComputeDueReminders(args[0])
				if len(due) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing due")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CONFERENCE\tTYPE\tDEADLINE\tLEFT")
				for _, r := range due {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						r.ConferenceAcronym, r.Type.Title(), r.Deadline.Format(displayLayout), core.TimeLeftText(r.DaysRemaining))
				}
				return w.Flush()
			})
		},
	}

	send := &cobra.Command{
		Use:   "send",
		Short: "Run one reminder pass now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a app) error {
				summary, err := a.Reminders.RunPass(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if summary.Skipped {
					fmt.Fprintln(out, "skipped: no conferences or users")
					return nil
				}
				fmt.Fprintf(out, "run:    %s\n", summary.RunID)
				fmt.Fprintf(out, "users:  %d\n", summary.Users)
				fmt.Fprintf(out, "due:    %d\n", summary.Due)
				fmt.Fprintf(out, "sent:   %d\n", summary.Sent)
				fmt.Fprintf(out, "failed: %d\n", summary.Failed)
				fmt.Fprintf(out, "pruned: %d\n", summary.Pruned)
				if summary.Failed > 0 {
					return fmt.Errorf("%d reminders failed", summary.Failed)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(due, send)
	return cmd
}
