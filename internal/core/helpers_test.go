package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/conf-reminder/internal/deadline"
	"github.com/mikey/conf-reminder/internal/timezone"
	"go.uber.org/zap"
)

// fakeStorage keeps snapshots in memory and counts saves
type fakeStorage struct {
	mu          sync.Mutex
	conferences []ConferenceRecord
	prefs       map[string]*UserPreference
	ledger      map[LedgerKey]time.Time
	saves       map[string]int
	failSave    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saves: make(map[string]int)}
}

func (f *fakeStorage) LoadConferences(ctx context.Context) ([]ConferenceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conferences, nil
}

func (f *fakeStorage) SaveConferences(ctx context.Context, records []ConferenceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.conferences = records
	f.saves["conferences"]++
	return nil
}

func (f *fakeStorage) LoadPreferences(ctx context.Context) (map[string]*UserPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs, nil
}

func (f *fakeStorage) SavePreferences(ctx context.Context, prefs map[string]*UserPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.prefs = prefs
	f.saves["preferences"]++
	return nil
}

func (f *fakeStorage) LoadLedger(ctx context.Context) (map[LedgerKey]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger, nil
}

func (f *fakeStorage) SaveLedger(ctx context.Context, entries map[LedgerKey]time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.ledger = entries
	f.saves["ledger"]++
	return nil
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) saveCount(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[kind]
}

// fakeMailer records messages and fails for listed recipients
type fakeMailer struct {
	mu     sync.Mutex
	sent   []*OutgoingMail
	failTo map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, mail *OutgoingMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[mail.To] {
		return errors.New("connection refused")
	}
	m.sent = append(m.sent, mail)
	return nil
}

type fakeFetcher struct {
	records []RawConference
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]RawConference, error) {
	return f.records, f.err
}

type fakeAssistant struct {
	result map[deadline.Type]deadline.Extracted
	calls  int
}

func (a *fakeAssistant) ExtractDeadlines(ctx context.Context, text string) (map[deadline.Type]deadline.Extracted, error) {
	a.calls++
	return a.result, nil
}

type allowDomains []string

func (d allowDomains) IsAllowed(email string) bool {
	for _, domain := range d {
		if len(email) > len(domain) && email[len(email)-len(domain)-1:] == "@"+domain {
			return true
		}
	}
	return false
}

// fixedNow is 2024-03-10 10:00 in the reference zone.
var fixedNow = time.Date(2024, 3, 10, 10, 0, 0, 0, timezone.Reference)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, timezone.Reference)
}

func newTestState() (*State, *fakeStorage) {
	storage := newFakeStorage()
	return NewState(storage, zap.NewNop()), storage
}

func newTestEngine(state *State) *ReminderEngine {
	e := NewReminderEngine(state, zap.NewNop())
	e.SetClock(func() time.Time { return fixedNow })
	return e
}

func subscribe(state *State, email string, acronyms ...string) {
	_, _ = state.Preferences.Update(email, true, func(p *UserPreference) (bool, error) {
		p.Subscribed = append(p.Subscribed, acronyms...)
		return true, nil
	})
}
