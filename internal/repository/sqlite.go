package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	_ "modernc.org/sqlite"
)

// sqliteFile is the database file name inside the data directory.
const sqliteFile = "inspections.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore keeps saved states and their event log in a single SQLite
// database. Payloads are stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) <dataDir>/inspections.db and
// runs migrations.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("sqlite store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, sqliteFile))
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite store: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: migration: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS states (
			storage_key TEXT PRIMARY KEY,
			payload     TEXT NOT NULL,
			saved_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			storage_key TEXT NOT NULL,
			event_id    TEXT NOT NULL UNIQUE,
			event_type  TEXT NOT NULL,
			payload     TEXT NOT NULL,
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_key ON events(storage_key, id);
	`)
	return err
}

// SaveState upserts the state row for state.StorageKey.
func (s *SQLiteStore) SaveState(state *schema.SavedState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.StorageKey == "" {
		return fmt.Errorf("state has no storage key")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO states (storage_key, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(storage_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		state.StorageKey, string(payload), state.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState reads the saved state and replays events recorded after it.
func (s *SQLiteStore) LoadState(key string) (*schema.SavedState, error) {
	var saved *schema.SavedState
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM states WHERE storage_key = ?`, key).Scan(&payload)
	switch {
	case err == nil:
		saved = &schema.SavedState{}
		if err := json.Unmarshal([]byte(payload), saved); err != nil {
			return nil, fmt.Errorf("parse state: %w", err)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("load state: %w", err)
	}

	rows, err := s.db.Query(`SELECT payload FROM events WHERE storage_key = ? ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var events []schema.InspectionEvent
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var rec eventRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("parse event: %w", err)
		}
		e, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return restore(key, saved, events)
}

// AppendEvents inserts events in a single transaction.
func (s *SQLiteStore) AppendEvents(key string, events []schema.InspectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range events {
		rec, err := toRecord(e)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO events (storage_key, event_id, event_type, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
			key, rec.EventID, rec.EventType, string(payload), rec.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert event %s: %w", rec.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Clear deletes the state and events stored under key.
func (s *SQLiteStore) Clear(key string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM events WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM states WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
