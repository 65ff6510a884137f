// Package store persists alarm and auto-off settings across restarts.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wakelightd/internal/effect"
)

// Setting keys.
const (
	keyAlarmHour      = "alarm_hour"
	keyAlarmMinute    = "alarm_min"
	keyAlarmEnabled   = "alarm_set"
	keyAutoOffEnabled = "autooff_enabled"
	keyAutoOffMinutes = "autooff_mins"
)

// Store is a SQLite-backed key-value settings store.
type Store struct {
	db *sql.DB
}

// Open opens the database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the persisted snapshot, filling any missing key with its
// documented default.
func (s *Store) Load() (effect.Snapshot, error) {
	snap := effect.DefaultSnapshot()

	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return snap, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return snap, fmt.Errorf("failed to scan setting: %w", err)
		}

		switch key {
		case keyAlarmHour:
			snap.AlarmHour = parseInt(value, snap.AlarmHour)
		case keyAlarmMinute:
			snap.AlarmMinute = parseInt(value, snap.AlarmMinute)
		case keyAlarmEnabled:
			snap.AlarmEnabled = value == "1"
		case keyAutoOffEnabled:
			snap.AutoOffEnabled = value == "1"
		case keyAutoOffMinutes:
			snap.AutoOffMinutes = parseInt(value, snap.AutoOffMinutes)
		}
	}

	return snap, rows.Err()
}

// Save writes the snapshot in a single transaction.
func (s *Store) Save(snap effect.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	pairs := []struct {
		key   string
		value string
	}{
		{keyAlarmHour, strconv.Itoa(snap.AlarmHour)},
		{keyAlarmMinute, strconv.Itoa(snap.AlarmMinute)},
		{keyAlarmEnabled, formatBool(snap.AlarmEnabled)},
		{keyAutoOffEnabled, formatBool(snap.AutoOffEnabled)},
		{keyAutoOffMinutes, strconv.Itoa(snap.AutoOffMinutes)},
	}
	for _, p := range pairs {
		if _, err := stmt.Exec(p.key, p.value, now); err != nil {
			return fmt.Errorf("failed to save %s: %w", p.key, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func parseInt(value string, fallback int) int {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return v
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
