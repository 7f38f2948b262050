package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/di"
)

func newUserCmd(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage subscribers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <email>",
			Short: "Register a subscriber",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					created, err := a.Preferences.AddUser(ctx, args[0])
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "subscribe <email> <acronym>",
			Short: "Follow a conference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					if err := a.Preferences.Subscribe(ctx, args[0], args[1]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s now follows %s\n", args[0], args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "unsubscribe <email> <acronym>",
			Short: "Stop following a conference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					if err := a.Preferences.Unsubscribe(ctx, args[0], args[1]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s no longer follows %s\n", args[0], args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set-days <email> <deadline-type> <days>",
			Short: "Set how many days ahead a deadline type is reminded",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				days, err := strconv.Atoi(strings.TrimSpace(args[2]))
				if err != nil {
					return fmt.Errorf("days must be a whole number: %q", args[2])
				}
				kind, err := deadline.ParseType(args[1])
				if err != nil {
					return err
				}
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					if err := a.Preferences.SetReminderDays(ctx, args[0], kind, days); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s reminders %d days ahead\n", args[0], kind, days)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <email>",
			Short: "Show a subscriber's settings",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					p, err := a.Preferences.Get(args[0])
					if err != nil {
						return err
					}

					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "email:         %s\n", p.Email)
					fmt.Fprintf(out, "subscriptions: %s\n", strings.Join(p.Subscribed, ", "))
					fmt.Fprintf(out, "custom days:   %t\n", p.CustomReminderDays)

					w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "TYPE\tDAYS")
					for _, t := range deadline.AllTypes() {
						fmt.Fprintf(w, "%s\t%d\n", t, p.EffectiveDays(t))
					}
					return w.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List subscribers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, flags, func(ctx context.Context, a app) error {
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "EMAIL\tSUBSCRIPTIONS")
					for _, p := range a.Preferences.List() {
						fmt.Fprintf(w, "%s\t%s\n", p.Email, strings.Join(p.Subscribed, ","))
					}
					return w.Flush()
				})
			},
		},
	)

	return cmd
}
