package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS conferences (
		seq INTEGER NOT NULL,
		acronym TEXT NOT NULL,
		payload TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		email TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sent_reminders (
		email TEXT NOT NULL,
		acronym TEXT NOT NULL,
		deadline_type TEXT NOT NULL,
		deadline_date TEXT NOT NULL,
		sent_at TEXT NOT NULL,
		PRIMARY KEY (email, acronym, deadline_type, deadline_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sent_reminders_date ON sent_reminders(deadline_date)`,
}

// SQLiteStore keeps snapshots in a SQLite database file
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens (or creates) the database at dbPath
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &sqlStore{db: db, name: "sqlite", logger: logger}
	if err := s.migrate(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Opened SQLite store", zap.String("path", dbPath))
	return &SQLiteStore{sqlStore: s}, nil
}
