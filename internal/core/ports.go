package core

import (
	"context"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
)

// ConferenceStore persists the conference catalog as a full snapshot
type ConferenceStore interface {
	// LoadConferences returns the saved catalog, or an empty list on first run
	LoadConferences(ctx context.Context) ([]ConferenceRecord, error)

	// SaveConferences replaces the saved catalog
	SaveConferences(ctx context.Context, records []ConferenceRecord) error
}

// PreferenceStore persists user preferences keyed by email
type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (map[string]*UserPreference, error)
	SavePreferences(ctx context.Context, prefs map[string]*UserPreference) error
}

// LedgerStore persists the sent-reminder ledger
type LedgerStore interface {
	LoadLedger(ctx context.Context) (map[LedgerKey]time.Time, error)
	SaveLedger(ctx context.Context, entries map[LedgerKey]time.Time) error
}

// Storage bundles the three snapshot stores behind one backend
type Storage interface {
	ConferenceStore
	PreferenceStore
	LedgerStore

	// Close releases the backend
	Close() error
}

// ConferenceFetcher retrieves raw conference listings
type ConferenceFetcher interface {
	Fetch(ctx context.Context) ([]RawConference, error)
}

// DeadlineAssistant extracts deadlines from text the keyword table could not
// classify, typically by asking a language model
type DeadlineAssistant interface {
	ExtractDeadlines(ctx context.Context, text string) (map[deadline.Type]deadline.Extracted, error)
}

// Mailer delivers a rendered reminder
type Mailer interface {
	Send(ctx context.Context, mail *OutgoingMail) error
}

// RecipientPolicy decides which addresses may subscribe
type RecipientPolicy interface {
	IsAllowed(email string) bool
}
