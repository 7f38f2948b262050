package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/timezone"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher rebuilds the conference catalog
type Refresher interface {
	Refresh(ctx context.Context) (*core.RefreshSummary, error)
}

// ReminderSender runs one reminder pass
type ReminderSender interface {
	RunPass(ctx context.Context) (*core.PassSummary, error)
}

// Settings holds the job specs in standard five-field cron syntax or
// descriptors such as "@every 24h"
type Settings struct {
	Timezone      string
	FetchSpec     string
	ReminderSpecs []string
	FetchOnStart  bool
}

// Scheduler runs catalog refreshes and reminder passes on cron schedules.
// Jobs never overlap: a job that fires while another runs waits for it.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	sender    ReminderSender
	catalog   *core.ConferenceCatalog
	settings  Settings
	logger    *zap.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler. An unknown timezone falls back to UTC+8.
func New(
	settings Settings,
	refresher Refresher,
	sender ReminderSender,
	catalog *core.ConferenceCatalog,
	logger *zap.Logger,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil || settings.Timezone == "" {
		logger.Warn("Unknown schedule timezone, using UTC+8",
			zap.String("timezone", settings.Timezone))
		loc = timezone.Reference
	}

	cl := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      c,
		refresher: refresher,
		sender:    sender,
		catalog:   catalog,
		settings:  settings,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	if settings.FetchSpec != "" {
		if _, err := c.AddFunc(settings.FetchSpec, s.runRefresh); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid fetch schedule %q: %w", settings.FetchSpec, err)
		}
	}
	for _, spec := range settings.ReminderSpecs {
		if _, err := c.AddFunc(spec, s.runReminders); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
		}
	}

	return s, nil
}

// Start starts the cron loop. When the catalog is empty, or fetch-on-start
// is set, a refresh runs immediately in the background.
func (s *Scheduler) Start() error {
	s.cron.Start()

	entries := s.cron.Entries()
	s.logger.Info("Scheduler started",
		zap.Int("jobs", len(entries)),
		zap.String("timezone", s.cron.Location().String()))

	if s.settings.FetchOnStart || s.catalog.Len() == 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runRefresh()
		}()
	}

	return nil
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() error {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
	return nil
}

// RunRefresh runs a catalog refresh now, serialised with the scheduled jobs
func (s *Scheduler) RunRefresh() {
	s.runRefresh()
}

// RunReminders runs a reminder pass now, serialised with the scheduled jobs
func (s *Scheduler) RunReminders() {
	s.runReminders()
}

func (s *Scheduler) runRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	summary, err := s.refresher.Refresh(s.ctx)
	if err != nil {
		s.logger.Error("Conference refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("Conference refresh finished",
		zap.Int("fetched", summary.Fetched),
		zap.Bool("replaced", summary.Replaced))
}

func (s *Scheduler) runReminders() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	summary, err := s.sender.RunPass(s.ctx)
	if err != nil {
		s.logger.Error("Reminder pass failed", zap.Error(err))
		return
	}
	s.logger.Debug("Reminder pass finished",
		zap.String("run_id", summary.RunID),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed))
}

// cronLogger adapts zap to the cron.Logger interface
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
