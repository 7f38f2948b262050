package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/timezone"
	"go.uber.org/zap"
)

// ReminderEngine decides which reminders are due. Computing the due list
// never changes state; delivery is recorded separately with MarkSent once
// the caller knows the message went out.
type ReminderEngine struct {
	state  *State
	logger *zap.Logger
	now    func() time.Time
}

// NewReminderEngine creates a new reminder engine
func NewReminderEngine(state *State, logger *zap.Logger) *ReminderEngine {
	return &ReminderEngine{
		state:  state,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the clock used to determine today's date
func (e *ReminderEngine) SetClock(now func() time.Time) {
	e.now = now
}

// Today returns the current civil date in the reference zone
func (e *ReminderEngine) Today() time.Time {
	return civilDate(e.now())
}

// ComputeDue lists the unsent reminders for email whose window contains
// today. A reminder for a deadline D with lead time N is due on every day
// from D-N through D inclusive. The list is ordered by deadline, then
// acronym, then deadline type. Unknown users get an empty list.
func (e *ReminderEngine) ComputeDue(email string) []DueReminder {
	due := []DueReminder{}

	pref, ok := e.state.Preferences.Get(email)
	if !ok {
		return due
	}

	today := e.Today()
	seen := make(map[string]bool, len(pref.Subscribed))

	for _, acronym := range pref.Subscribed {
		if seen[acronym] {
			continue
		}
		seen[acronym] = true

		conf, ok := e.state.Conferences.Get(acronym)
		if !ok {
			e.logger.Debug("Skipping subscription to conference not in catalog",
				zap.String("email", email),
				zap.String("acronym", acronym))
			continue
		}

		for kind, at := range conf.ParsedDeadlines {
			date := civilDate(at)
			remaining := daysBetween(today, date)
			if remaining < 0 || remaining > pref.EffectiveDays(kind) {
				continue
			}

			r := DueReminder{
				Email:             email,
				ConferenceAcronym: acronym,
				ConferenceName:    conf.DisplayName(),
				Type:              kind,
				Deadline:          at.In(timezone.Reference),
				DeadlineDate:      date.Format(LedgerDateLayout),
				DaysRemaining:     remaining,
			}
			if e.state.Ledger.Contains(r.Key()) {
				continue
			}
			due = append(due, r)
		}
	}

	slices.SortFunc(due, func(a, b DueReminder) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		if c := strings.Compare(a.ConferenceAcronym, b.ConferenceAcronym); c != 0 {
			return c
		}
		return a.Type.Rank() - b.Type.Rank()
	})

	return due
}

// MarkSent records that the reminder identified by the arguments was
// delivered. date uses LedgerDateLayout.
func (e *ReminderEngine) MarkSent(email, acronym string, kind deadline.Type, date string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDeadlineType, kind)
	}
	if _, err := time.Parse(LedgerDateLayout, date); err != nil {
		return fmt.Errorf("invalid deadline date %q: %w", date, err)
	}

	e.state.Ledger.Mark(LedgerKey{
		Email:   email,
		Acronym: acronym,
		Type:    kind,
		Date:    date,
	}, e.now())
	return nil
}

// civilDate is midnight UTC of t's calendar date in the reference zone, so
// differences between two such values are whole days.
func civilDate(t time.Time) time.Time {
	y, m, d := t.In(timezone.Reference).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
