package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/conf-reminder/internal/config"
	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/factory"
	"github.com/mikey/conf-reminder/internal/logging"
	"github.com/mikey/conf-reminder/internal/ports"
	"github.com/mikey/conf-reminder/internal/scheduler"
	"github.com/mikey/conf-reminder/internal/timezone"
	"github.com/mikey/conf-reminder/internal/utils"
	"github.com/mikey/conf-reminder/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
// for the daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register scheduler
	if err := container.Provide(func(
		cfg *config.Config,
		conferences *core.ConferenceService,
		reminders *core.ReminderService,
		state *core.State,
		logger *zap.Logger,
	) (ports.Runner, error) {
		sched := cfg.GetSchedule()
		return scheduler.New(scheduler.Settings{
			Timezone:      sched.Timezone,
			FetchSpec:     sched.Fetch,
			ReminderSpecs: sched.Reminders,
			FetchOnStart:  sched.FetchOnStart,
		}, conferences, reminders, state.Conferences, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers everything below config and logger. The daemon
// and the admin CLI share this graph.
func provideServices(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewStorageFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFetcherFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register adapters
	if err := container.Provide(func(f *factory.StorageFactory) (core.Storage, error) {
		return f.CreateStorage()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.DeadlineAssistant, error) {
		return f.CreateAssistant(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.MailerFactory) (core.Mailer, error) {
		return f.CreateMailer()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.FetcherFactory) (core.ConferenceFetcher, error) {
		return f.CreateFetcher()
	}); err != nil {
		return err
	}

	// Register subscriber domain policy
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.RecipientPolicy {
		return whitelist.NewChecker(cfg.GetUsers().AllowedDomains, logger)
	}); err != nil {
		return err
	}

	// Register deadline pipeline
	if err := container.Provide(timezone.NewResolver); err != nil {
		return err
	}
	if err := container.Provide(deadline.NewExtractor); err != nil {
		return err
	}
	if err := container.Provide(deadline.NewNormalizer); err != nil {
		return err
	}
	if err := container.Provide(deadline.NewConverter); err != nil {
		return err
	}

	// Register state and services
	if err := container.Provide(core.NewState); err != nil {
		return err
	}
	if err := container.Provide(core.NewReminderEngine); err != nil {
		return err
	}
	if err := container.Provide(core.NewPreferenceService); err != nil {
		return err
	}
	if err := container.Provide(core.NewConferenceService); err != nil {
		return err
	}
	if err := container.Provide(func(
		cfg *config.Config,
		engine *core.ReminderEngine,
		mailer core.Mailer,
		state *core.State,
		logger *zap.Logger,
	) *core.ReminderService {
		return core.NewReminderService(engine, mailer, state, cfg.GetReminders().LedgerRetention, logger)
	}); err != nil {
		return err
	}

	return nil
}
