package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/di"
)

// app bundles the services the stateful commands need
type app struct {
	dig.In

	Logger      *zap.Logger
	State       *core.State
	Storage     core.Storage
	Conferences *core.ConferenceService
	Preferences *core.PreferenceService
	Reminders   *core.ReminderService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &di.CLIFlags{}

	root := &cobra.Command{
		Use:          "confctl",
		Short:        "Manage conference deadline reminders",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Log reminders instead of sending them")
	pf.StringVar(&flags.StorageType, "storage", "", "Override storage.type (memory, json, sqlite, mysql)")

	root.AddCommand(
		newUserCmd(flags),
		newConferencesCmd(flags),
		newRemindersCmd(flags),
		newExtractCmd(flags),
		newConvertCmd(flags),
	)

	return root
}

// withApp builds the container, loads the saved state and runs fn. The
// storage is closed afterwards.
func withApp(cmd *cobra.Command, flags *di.CLIFlags, fn func(ctx context.Context, a app) error) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(a app) error {
		defer a.Logger.Sync()
		defer func() {
			if err := a.Storage.Close(); err != nil {
				a.Logger.Error("Failed to close storage", zap.Error(err))
			}
		}()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.State.Load(ctx); err != nil {
			return err
		}
		return fn(ctx, a)
	})
}
