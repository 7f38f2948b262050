package store

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS conferences (
		seq INT NOT NULL,
		acronym VARCHAR(255) NOT NULL,
		payload LONGTEXT NOT NULL,
		INDEX idx_conferences_seq (seq)
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		email VARCHAR(255) PRIMARY KEY,
		payload TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sent_reminders (
		email VARCHAR(255) NOT NULL,
		acronym VARCHAR(128) NOT NULL,
		deadline_type VARCHAR(64) NOT NULL,
		deadline_date VARCHAR(16) NOT NULL,
		sent_at VARCHAR(40) NOT NULL,
		PRIMARY KEY (email, acronym, deadline_type, deadline_date),
		INDEX idx_sent_reminders_date (deadline_date)
	)`,
}

// MySQLStore keeps snapshots in a MySQL database
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore connects to dsn and creates the tables if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	s := &sqlStore{db: db, name: "mysql", logger: logger}
	if err := s.migrate(mysqlSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Connected to MySQL store")
	return &MySQLStore{sqlStore: s}, nil
}
