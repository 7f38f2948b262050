package core

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/mikey/conf-reminder/internal/deadline"
	"go.uber.org/zap"
)

// PreferenceService manages subscribers. Every change is saved right away.
type PreferenceService struct {
	state  *State
	policy RecipientPolicy
	logger *zap.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(state *State, policy RecipientPolicy, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		state:  state,
		policy: policy,
		logger: logger,
	}
}

// normalizeEmail validates an address and returns its bare, lower-cased form
func (s *PreferenceService) normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	email := strings.ToLower(addr.Address)
	if s.policy != nil && !s.policy.IsAllowed(email) {
		return "", fmt.Errorf("%w: %q", ErrDomainNotAllowed, email)
	}
	return email, nil
}

func (s *PreferenceService) save(ctx context.Context) error {
	return s.state.FlushPreferences(ctx)
}

// AddUser registers email with default settings. It reports false when the
// user already existed.
func (s *PreferenceService) AddUser(ctx context.Context, email string) (bool, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return false, err
	}

	if _, ok := s.state.Preferences.Get(email); ok {
		return false, nil
	}

	created, err := s.state.Preferences.Update(email, true, func(p *UserPreference) (bool, error) {
		return false, nil
	})
	if err != nil || !created {
		return false, err
	}

	s.logger.Info("Added user", zap.String("email", email))
	return true, s.save(ctx)
}

// Subscribe adds acronym to the user's list, creating the user if needed.
// Only conferences in the current catalog can be subscribed to.
func (s *PreferenceService) Subscribe(ctx context.Context, email, acronym string) error {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}
	acronym = strings.TrimSpace(acronym)
	if _, ok := s.state.Conferences.Get(acronym); !ok {
		return fmt.Errorf("%w: %q", ErrConferenceNotFound, acronym)
	}

	changed, err := s.state.Preferences.Update(email, true, func(p *UserPreference) (bool, error) {
		if p.IsSubscribed(acronym) {
			return false, nil
		}
		p.Subscribed = append(p.Subscribed, acronym)
		return true, nil
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.logger.Info("Subscribed user to conference",
		zap.String("email", email),
		zap.String("acronym", acronym))
	return s.save(ctx)
}

// Unsubscribe removes acronym from the user's list
func (s *PreferenceService) Unsubscribe(ctx context.Context, email, acronym string) error {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}
	acronym = strings.TrimSpace(acronym)

	changed, err := s.state.Preferences.Update(email, false, func(p *UserPreference) (bool, error) {
		i := slices.Index(p.Subscribed, acronym)
		if i < 0 {
			return false, nil
		}
		p.Subscribed = slices.Delete(p.Subscribed, i, i+1)
		return true, nil
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.logger.Info("Unsubscribed user from conference",
		zap.String("email", email),
		zap.String("acronym", acronym))
	return s.save(ctx)
}

// SetReminderDays sets how many days ahead of a deadline type the user is
// reminded, creating the user if needed.
func (s *PreferenceService) SetReminderDays(ctx context.Context, email string, kind deadline.Type, days int) error {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDeadlineType, kind)
	}
	if days < 0 || days > MaxReminderDays {
		return fmt.Errorf("%w: got %d", ErrInvalidReminderDays, days)
	}

	if _, err := s.state.Preferences.Update(email, true, func(p *UserPreference) (bool, error) {
		p.CustomReminderDays = true
		p.ReminderDays[kind] = days
		return true, nil
	}); err != nil {
		return err
	}

	s.logger.Info("Updated reminder days",
		zap.String("email", email),
		zap.String("type", string(kind)),
		zap.Int("days", days))
	return s.save(ctx)
}

// Get returns the preferences for email
func (s *PreferenceService) Get(email string) (*UserPreference, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	p, ok := s.state.Preferences.Get(email)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, email)
	}
	return p, nil
}

// List returns every user ordered by email
func (s *PreferenceService) List() []*UserPreference {
	emails := s.state.Preferences.Emails()
	out := make([]*UserPreference, 0, len(emails))
	for _, email := range emails {
		if p, ok := s.state.Preferences.Get(email); ok {
			out = append(out, p)
		}
	}
	return out
}
