package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

// MemoryStore keeps snapshots in process memory. Nothing survives a
// restart; it backs dry runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	conferences []core.ConferenceRecord
	prefs       map[string]*core.UserPreference
	ledger      map[core.LedgerKey]time.Time
	logger      *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		prefs:  make(map[string]*core.UserPreference),
		ledger: make(map[core.LedgerKey]time.Time),
		logger: logger,
	}
}

// LoadConferences returns the saved catalog
func (s *MemoryStore) LoadConferences(ctx context.Context) ([]core.ConferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conferences), nil
}

// SaveConferences replaces the saved catalog
func (s *MemoryStore) SaveConferences(ctx context.Context, records []core.ConferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conferences = slices.Clone(records)
	return nil
}

// LoadPreferences returns copies of the saved preferences
func (s *MemoryStore) LoadPreferences(ctx context.Context) (map[string]*core.UserPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePreferences(s.prefs), nil
}

// SavePreferences replaces the saved preferences
func (s *MemoryStore) SavePreferences(ctx context.Context, prefs map[string]*core.UserPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = clonePreferences(prefs)
	return nil
}

// LoadLedger returns the saved ledger
func (s *MemoryStore) LoadLedger(ctx context.Context) (map[core.LedgerKey]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.ledger), nil
}

// SaveLedger replaces the saved ledger
func (s *MemoryStore) SaveLedger(ctx context.Context, entries map[core.LedgerKey]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = maps.Clone(entries)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func clonePreferences(in map[string]*core.UserPreference) map[string]*core.UserPreference {
	out := make(map[string]*core.UserPreference, len(in))
	for k, v := range in {
		if v != nil {
			out[k] = v.Clone()
		}
	}
	return out
}
