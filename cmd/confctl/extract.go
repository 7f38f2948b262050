package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/di"
)

// withPipeline runs fn with the stateless deadline pipeline. No storage is opened.
func withPipeline(flags *di.CLIFlags, fn func(ex *deadline.Extractor, conv *deadline.Converter) error) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}
	return container.Invoke(fn)
}

func newExtractCmd(flags *di.CLIFlags) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract and convert deadlines from text",
		Long:  "Reads a deadline block from --file or stdin and prints every deadline found, converted to UTC+8.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if inputFile != "" {
				f, err := os.Open(inputFile)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer f.Close()
				r = f
			}

			text, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			return withPipeline(flags, func(ex *deadline.Extractor, conv *deadline.Converter) error {
				found := ex.Extract(string(text))
				if len(found) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no deadlines found")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tDATE\tTZ\tUTC+8")
				for _, t := range deadline.AllTypes() {
					e, ok := found[t]
					if !ok {
						continue
					}
					converted := "unparseable"
					if at, ok := conv.Convert(e.DateStr, e.TZStr); ok {
						converted = at.Format(displayLayout)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t, e.DateStr, e.TZStr, converted)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input file (stdin if not specified)")

	return cmd
}

func newConvertCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <date> [timezone]",
		Short: "Convert one date to UTC+8",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz := ""
			if len(args) == 2 {
				tz = args[1]
			}
			return withPipeline(flags, func(_ *deadline.Extractor, conv *deadline.Converter) error {
				at, ok := conv.Convert(args[0], tz)
				if !ok {
					return fmt.Errorf("could not parse %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), at.Format(displayLayout))
				return nil
			})
		},
	}
}
