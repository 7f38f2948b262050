package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
)

const (
	conferencesFile = "conferences.json"
	preferencesFile = "user_preferences.json"
	ledgerFile      = "sent_reminders.json"
)

// JSONStore keeps each snapshot in its own JSON file under one directory.
// Files are replaced atomically so a crash mid-write leaves the previous
// snapshot intact.
type JSONStore struct {
	dir    string
	logger *zap.Logger
}

// NewJSONStore creates the data directory if needed and returns a store on it
func NewJSONStore(dir string, logger *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dir: dir, logger: logger}, nil
}

// LoadConferences reads conferences.json
func (s *JSONStore) LoadConferences(ctx context.Context) ([]core.ConferenceRecord, error) {
	records := []core.ConferenceRecord{}
	if err := s.read(conferencesFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveConferences writes conferences.json
func (s *JSONStore) SaveConferences(ctx context.Context, records []core.ConferenceRecord) error {
	if records == nil {
		records = []core.ConferenceRecord{}
	}
	return s.write(conferencesFile, records)
}

// LoadPreferences reads user_preferences.json
func (s *JSONStore) LoadPreferences(ctx context.Context) (map[string]*core.UserPreference, error) {
	prefs := map[string]*core.UserPreference{}
	if err := s.read(preferencesFile, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SavePreferences writes user_preferences.json
func (s *JSONStore) SavePreferences(ctx context.Context, prefs map[string]*core.UserPreference) error {
	if prefs == nil {
		prefs = map[string]*core.UserPreference{}
	}
	return s.write(preferencesFile, prefs)
}

// LoadLedger reads sent_reminders.json
func (s *JSONStore) LoadLedger(ctx context.Context) (map[core.LedgerKey]time.Time, error) {
	entries := map[core.LedgerKey]time.Time{}
	if err := s.read(ledgerFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveLedger writes sent_reminders.json
func (s *JSONStore) SaveLedger(ctx context.Context, entries map[core.LedgerKey]time.Time) error {
	if entries == nil {
		entries = map[core.LedgerKey]time.Time{}
	}
	return s.write(ledgerFile, entries)
}

// Close is a no-op
func (s *JSONStore) Close() error {
	return nil
}

// read decodes name into v. A missing or empty file leaves v untouched.
func (s *JSONStore) read(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Snapshot file not found, starting empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (s *JSONStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.logger.Debug("Saved snapshot", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
