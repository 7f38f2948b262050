package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/conf-reminder/internal/deadline"
	"go.uber.org/zap"
)

// PassSummary reports the outcome of one reminder pass
type PassSummary struct {
	RunID   string
	Users   int
	Due     int
	Sent    int
	Failed  int
	Pruned  int
	Skipped bool
}

// ReminderService delivers due reminders and maintains the ledger
type ReminderService struct {
	engine    *ReminderEngine
	mailer    Mailer
	state     *State
	retention time.Duration
	logger    *zap.Logger
}

// NewReminderService creates a new reminder service. Ledger entries for
// deadlines older than retention are pruned after each pass.
func NewReminderService(
	engine *ReminderEngine,
	mailer Mailer,
	state *State,
	retention time.Duration,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		engine:    engine,
		mailer:    mailer,
		state:     state,
		retention: retention,
		logger:    logger,
	}
}

// ComputeDueReminders lists the reminders due for email today
func (s *ReminderService) ComputeDueReminders(email string) []DueReminder {
	return s.engine.ComputeDue(strings.ToLower(strings.TrimSpace(email)))
}

// MarkReminderSent records a delivered reminder and saves the ledger
func (s *ReminderService) MarkReminderSent(ctx context.Context, email, acronym string, kind deadline.Type, date string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.engine.MarkSent(email, acronym, kind, date); err != nil {
		return err
	}
	return s.state.FlushLedger(ctx)
}

// RunPass sends every due reminder to every user. A reminder is marked as
// sent only after the mailer accepted it, so failures are retried on the
// next pass.
func (s *ReminderService) RunPass(ctx context.Context) (*PassSummary, error) {
	summary := &PassSummary{RunID: uuid.NewString()}
	logger := s.logger.With(zap.String("run_id", summary.RunID))

	if s.state.Conferences.Len() == 0 || s.state.Preferences.Len() == 0 {
		logger.Info("Skipping reminder pass, no conferences or users loaded")
		summary.Skipped = true
		return summary, nil
	}

	emails := s.state.Preferences.Emails()
	summary.Users = len(emails)

	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		for _, r := range s.engine.ComputeDue(email) {
			summary.Due++

			msg, err := FormatReminder(r)
			if err != nil {
				summary.Failed++
				logger.Error("Failed to format reminder", zap.String("email", email), zap.Error(err))
				continue
			}

			if err := s.mailer.Send(ctx, msg); err != nil {
				summary.Failed++
				logger.Error("Failed to send reminder",
					zap.String("email", email),
					zap.String("acronym", r.ConferenceAcronym),
					zap.String("type", string(r.Type)),
					zap.Error(err))
				continue
			}

			if err := s.engine.MarkSent(r.Email, r.ConferenceAcronym, r.Type, r.DeadlineDate); err != nil {
				logger.Error("Failed to mark reminder sent", zap.Error(err))
				continue
			}
			summary.Sent++

			logger.Info("Sent reminder",
				zap.String("email", email),
				zap.String("acronym", r.ConferenceAcronym),
				zap.String("type", string(r.Type)),
				zap.String("deadline", r.DeadlineDate),
				zap.Int("days_remaining", r.DaysRemaining))
		}
	}

	if s.retention > 0 {
		cutoff := s.engine.Today().Add(-s.retention).Format(LedgerDateLayout)
		summary.Pruned = s.state.Ledger.Prune(cutoff)
	}

	if err := s.state.FlushLedger(ctx); err != nil {
		return summary, err
	}

	logger.Info("Reminder pass complete",
		zap.Int("users", summary.Users),
		zap.Int("due", summary.Due),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("pruned", summary.Pruned))

	return summary, nil
}
