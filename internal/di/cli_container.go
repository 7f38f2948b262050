package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/logging"
)

// CLIFlags contains the global flags of the admin CLI
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool

	// DryRun swaps the mail transport for the log transport
	DryRun bool

	// StorageType overrides storage.type when set
	StorageType string
}

// BuildCLIContainer creates and configures a dependency injection container
// for the admin CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadCLIConfig(flags)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlagOverrides(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	return container, nil
}

func loadCLIConfig(flags *CLIFlags) (*config.Config, error) {
	if flags.ConfigFile != "" {
		return config.NewFromFile(flags.ConfigFile)
	}
	return config.New()
}

// applyFlagOverrides writes flag values over the loaded configuration
func applyFlagOverrides(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	if flags.DryRun {
		v.Set("mail.transport", "log")
	}
	if flags.StorageType != "" {
		v.Set("storage.type", flags.StorageType)
	}
}
