package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mikey/conf-reminder/internal/core"
	"github.com/mikey/conf-reminder/internal/deadline"
	"go.uber.org/zap"
)

// sqlStore implements the snapshot stores on a database/sql handle. Each
// save runs as one transaction that clears the table and inserts the new
// snapshot, so readers never observe a partial list.
type sqlStore struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
}

// migrate runs the dialect's CREATE TABLE statements
func (s *sqlStore) migrate(statements []string) error {
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// LoadConferences returns the catalog in its saved order
func (s *sqlStore) LoadConferences(ctx context.Context) ([]core.ConferenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM conferences ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conferences: %w", err)
	}
	defer rows.Close()

	records := []core.ConferenceRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan conference: %w", err)
		}
		var rec core.ConferenceRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			s.logger.Error("Skipping undecodable conference row", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conferences: %w", err)
	}
	return records, nil
}

// SaveConferences replaces the catalog
func (s *sqlStore) SaveConferences(ctx context.Context, records []core.ConferenceRecord) error {
	return s.replace(ctx, "conferences", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO conferences (seq, acronym, payload) VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, rec := range records {
			payload, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to encode conference %s: %w", rec.Acronym, err)
			}
			if _, err := stmt.ExecContext(ctx, i, rec.Acronym, string(payload)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadPreferences returns every saved user
func (s *sqlStore) LoadPreferences(ctx context.Context) (map[string]*core.UserPreference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, payload FROM user_preferences
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	defer rows.Close()

	prefs := map[string]*core.UserPreference{}
	for rows.Next() {
		var email, payload string
		if err := rows.Scan(&email, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan user preference: %w", err)
		}
		var p core.UserPreference
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			s.logger.Error("Skipping undecodable preference row", zap.String("email", email), zap.Error(err))
			continue
		}
		prefs[email] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences replaces every saved user
func (s *sqlStore) SavePreferences(ctx context.Context, prefs map[string]*core.UserPreference) error {
	return s.replace(ctx, "user_preferences", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO user_preferences (email, payload) VALUES (?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for email, p := range prefs {
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("failed to encode preference for %s: %w", email, err)
			}
			if _, err := stmt.ExecContext(ctx, email, string(payload)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadLedger returns every sent-reminder entry
func (s *sqlStore) LoadLedger(ctx context.Context) (map[core.LedgerKey]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, acronym, deadline_type, deadline_date, sent_at FROM sent_reminders
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sent reminders: %w", err)
	}
	defer rows.Close()

	entries := map[core.LedgerKey]time.Time{}
	for rows.Next() {
		var key core.LedgerKey
		var kind, sentAt string
		if err := rows.Scan(&key.Email, &key.Acronym, &kind, &key.Date, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan sent reminder: %w", err)
		}
		key.Type = deadline.Type(kind)

		at, err := time.Parse(time.RFC3339Nano, sentAt)
		if err != nil {
			s.logger.Warn("Failed to parse sent_at timestamp", zap.String("key", key.String()), zap.Error(err))
		}
		entries[key] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sent reminders: %w", err)
	}
	return entries, nil
}

// SaveLedger replaces the ledger
func (s *sqlStore) SaveLedger(ctx context.Context, entries map[core.LedgerKey]time.Time) error {
	keys := make([]core.LedgerKey, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, core.LedgerKey.Compare)

	return s.replace(ctx, "sent_reminders", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sent_reminders (email, acronym, deadline_type, deadline_date, sent_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, k := range keys {
			sentAt := entries[k].Format(time.RFC3339Nano)
			if _, err := stmt.ExecContext(ctx, k.Email, k.Acronym, string(k.Type), k.Date, sentAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace clears table and refills it through fill inside one transaction
func (s *sqlStore) replace(ctx context.Context, table string, fill func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if err := fill(tx); err != nil {
		return fmt.Errorf("failed to write %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}

	s.logger.Debug("Saved snapshot", zap.String("backend", s.name), zap.String("table", table))
	return nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", s.name, err)
	}
	return nil
}
