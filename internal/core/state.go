package core

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
	"go.uber.org/zap"
)

// ConferenceCatalog holds the current conference list. Updates replace the
// whole list so readers see one scrape generation or the next, never a mix.
type ConferenceCatalog struct {
	mu      sync.RWMutex
	records []ConferenceRecord
	index   map[string]int
}

// NewConferenceCatalog creates an empty catalog
func NewConferenceCatalog() *ConferenceCatalog {
	return &ConferenceCatalog{index: make(map[string]int)}
}

// Replace swaps in a new list. Later duplicates of an acronym are ignored
// for lookups.
func (c *ConferenceCatalog) Replace(records []ConferenceRecord) {
	next := slices.Clone(records)
	index := make(map[string]int, len(next))
	for i, r := range next {
		if _, ok := index[r.Acronym]; !ok {
			index[r.Acronym] = i
		}
	}

	c.mu.Lock()
	c.records = next
	c.index = index
	c.mu.Unlock()
}

// All returns the current list
func (c *ConferenceCatalog) All() []ConferenceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Get looks a conference up by acronym
func (c *ConferenceCatalog) Get(acronym string) (ConferenceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[acronym]
	if !ok {
		return ConferenceRecord{}, false
	}
	return c.records[i], true
}

// Len returns the number of conferences
func (c *ConferenceCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// PreferenceRegistry holds user preferences keyed by email. Callers only
// ever see copies.
type PreferenceRegistry struct {
	mu    sync.RWMutex
	users map[string]*UserPreference
}

// NewPreferenceRegistry creates an empty registry
func NewPreferenceRegistry() *PreferenceRegistry {
	return &PreferenceRegistry{users: make(map[string]*UserPreference)}
}

// Get returns a copy of the preference for email
func (r *PreferenceRegistry) Get(email string) (*UserPreference, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.users[email]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Update runs fn on the stored preference under the write lock. With create
// set a missing user is added first; otherwise ErrUserNotFound is returned.
// fn reports whether it changed anything.
func (r *PreferenceRegistry) Update(email string, create bool, fn func(p *UserPreference) (bool, error)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.users[email]
	created := false
	if !ok {
		if !create {
			return false, ErrUserNotFound
		}
		p = NewUserPreference(email)
		created = true
	}

	work := p.Clone()
	changed, err := fn(work)
	if err != nil {
		return false, err
	}
	if changed || created {
		r.users[email] = work
	}
	return changed || created, nil
}

// Emails returns every registered address in sorted order
func (r *PreferenceRegistry) Emails() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.users))
}

// Snapshot returns a deep copy of all preferences
func (r *PreferenceRegistry) Snapshot() map[string]*UserPreference {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*UserPreference, len(r.users))
	for k, v := range r.users {
		out[k] = v.Clone()
	}
	return out
}

// Replace swaps in a loaded snapshot
func (r *PreferenceRegistry) Replace(prefs map[string]*UserPreference) {
	next := make(map[string]*UserPreference, len(prefs))
	for k, v := range prefs {
		if v == nil {
			continue
		}
		p := v.Clone()
		if p.Email == "" {
			p.Email = k
		}
		if p.ReminderDays == nil {
			p.ReminderDays = make(map[deadline.Type]int)
		}
		next[k] = p
	}

	r.mu.Lock()
	r.users = next
	r.mu.Unlock()
}

// Len returns the number of users
func (r *PreferenceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// SentLedger records which reminders have been delivered and when
type SentLedger struct {
	mu      sync.RWMutex
	entries map[LedgerKey]time.Time
}

// NewSentLedger creates an empty ledger
func NewSentLedger() *SentLedger {
	return &SentLedger{entries: make(map[LedgerKey]time.Time)}
}

// Contains reports whether key has been marked
func (l *SentLedger) Contains(key LedgerKey) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[key]
	return ok
}

// Mark records key as sent at the given instant
func (l *SentLedger) Mark(key LedgerKey, at time.Time) {
	l.mu.Lock()
	l.entries[key] = at
	l.mu.Unlock()
}

// Prune drops entries whose deadline date sorts before cutoff, a
// LedgerDateLayout date. It returns the number removed.
func (l *SentLedger) Prune(cutoff string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for k := range l.entries {
		if k.Date < cutoff {
			delete(l.entries, k)
			removed++
		}
	}
	return removed
}

// Snapshot returns a copy of every entry
func (l *SentLedger) Snapshot() map[LedgerKey]time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.entries)
}

// Replace swaps in a loaded snapshot
func (l *SentLedger) Replace(entries map[LedgerKey]time.Time) {
	next := maps.Clone(entries)
	if next == nil {
		next = make(map[LedgerKey]time.Time)
	}
	l.mu.Lock()
	l.entries = next
	l.mu.Unlock()
}

// Len returns the number of entries
func (l *SentLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// State is the in-memory working set backed by a Storage
type State struct {
	Conferences *ConferenceCatalog
	Preferences *PreferenceRegistry
	Ledger      *SentLedger

	storage Storage
	logger  *zap.Logger
}

// NewState creates an empty state on top of storage
func NewState(storage Storage, logger *zap.Logger) *State {
	return &State{
		Conferences: NewConferenceCatalog(),
		Preferences: NewPreferenceRegistry(),
		Ledger:      NewSentLedger(),
		storage:     storage,
		logger:      logger,
	}
}

// Load reads all three snapshots. Missing data loads as empty collections.
func (s *State) Load(ctx context.Context) error {
	records, err := s.storage.LoadConferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load conferences: %w", err)
	}
	prefs, err := s.storage.LoadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user preferences: %w", err)
	}
	ledger, err := s.storage.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sent reminders: %w", err)
	}

	s.Conferences.Replace(records)
	s.Preferences.Replace(prefs)
	s.Ledger.Replace(ledger)

	s.logger.Info("Loaded state",
		zap.Int("conferences", len(records)),
		zap.Int("users", len(prefs)),
		zap.Int("sent_reminders", len(ledger)))
	return nil
}

// FlushConferences saves the conference catalog
func (s *State) FlushConferences(ctx context.Context) error {
	if err := s.storage.SaveConferences(ctx, s.Conferences.All()); err != nil {
		return fmt.Errorf("failed to save conferences: %w", err)
	}
	return nil
}

// FlushPreferences saves user preferences
func (s *State) FlushPreferences(ctx context.Context) error {
	if err := s.storage.SavePreferences(ctx, s.Preferences.Snapshot()); err != nil {
		return fmt.Errorf("failed to save user preferences: %w", err)
	}
	return nil
}

// FlushLedger saves the sent-reminder ledger
func (s *State) FlushLedger(ctx context.Context) error {
	if err := s.storage.SaveLedger(ctx, s.Ledger.Snapshot()); err != nil {
		return fmt.Errorf("failed to save sent reminders: %w", err)
	}
	return nil
}

// Flush saves everything
func (s *State) Flush(ctx context.Context) error {
	if err := s.FlushConferences(ctx); err != nil {
		return err
	}
	if err := s.FlushPreferences(ctx); err != nil {
		return err
	}
	return s.FlushLedger(ctx)
}
