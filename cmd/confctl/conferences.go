package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/di"
)

// displayLayout is how reference-zone instants are printed
const displayLayout = "2006-01-02 15:04:05 MST"

func newConferencesCmd(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conferences",
		Aliases: []string{"conf"},
		Short:   "Inspect and refresh the conference catalog",
	}

	var withDeadlines bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a app) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ACRONYM\tRANK\tNAME\tDEADLINES")
				for _, rec := range a.Conferences.Conferences() {
					if withDeadlines && len(rec.ParsedDeadlines) == 0 {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", rec.Acronym, rec.Rank, rec.DisplayName(), len(rec.ParsedDeadlines))
					for _, t := range deadline.AllTypes() {
						if at, ok := rec.Deadline(t); ok {
							fmt.Fprintf(w, "\t\t  %s\t%s\n", t.Title(), at.Format(displayLayout))
						}
					}
				}
				return w.Flush()
			})
		},
	}
	list.Flags().BoolVar(&withDeadlines, "with-deadlines", false, "Only show conferences with at least one parsed deadline")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch every source and rebuild the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a app) error {
				summary, err := a.Conferences.Refresh(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "fetched:             %d\n", summary.Fetched)
				fmt.Fprintf(out, "kept:                %d\n", summary.Kept)
				fmt.Fprintf(out, "with deadlines:      %d\n", summary.WithDeadlines)
				fmt.Fprintf(out, "assistant used:      %d\n", summary.AssistantUsed)
				fmt.Fprintf(out, "conversion failures: %d\n", summary.ConversionFailures)
				if !summary.Replaced {
					fmt.Fprintln(out, "catalog unchanged")
				}
				return nil
			})
		},
	}

	cmd.AddCommand(list, refresh)
	return cmd
}
