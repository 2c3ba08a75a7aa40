package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists race outcomes to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal.
// The path should be a file path (e.g., "./journal.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS races (
			run_id TEXT NOT NULL,
			cell TEXT NOT NULL,
			winner TEXT NOT NULL,
			contenders INTEGER NOT NULL,
			discarded INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			PRIMARY KEY (run_id, cell)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_races_run_id
		ON races(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record implements Store.
func (s *SQLiteStore) Record(runID, cell string, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// Sequence is max + 1 within the run; re-recording a cell keeps
	// moving it to the end, matching the memory store.
	_, err := s.db.Exec(`
		INSERT INTO races (run_id, cell, winner, contenders, discarded, sequence, timestamp)
		VALUES (
			?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(sequence) FROM races WHERE run_id = ?), 0) + 1,
			?
		)
		ON CONFLICT(run_id, cell) DO UPDATE SET
			winner = excluded.winner,
			contenders = excluded.contenders,
			discarded = excluded.discarded,
			sequence = (SELECT MAX(sequence) FROM races WHERE run_id = excluded.run_id) + 1,
			timestamp = excluded.timestamp
	`, runID, cell, outcome.Winner, outcome.Contenders, outcome.Discarded,
		runID, time.Now().UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(runID, cell string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	var e Entry
	var timestamp string
	err := s.db.QueryRow(`
		SELECT winner, contenders, discarded, sequence, timestamp
		FROM races
		WHERE run_id = ? AND cell = ?
	`, runID, cell).Scan(&e.Outcome.Winner, &e.Outcome.Contenders,
		&e.Outcome.Discarded, &e.Sequence, &timestamp)

	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load outcome: %w", err)
	}

	e.RunID = runID
	e.Cell = cell
	e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT cell, winner, contenders, discarded, sequence, timestamp
		FROM races
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestamp string
		if err := rows.Scan(&e.Cell, &e.Outcome.Winner, &e.Outcome.Contenders,
			&e.Outcome.Discarded, &e.Sequence, &timestamp); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		e.RunID = runID
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}

	return entries, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		DELETE FROM races WHERE run_id = ?
	`, runID)
	if err != nil {
		return fmt.Errorf("delete run outcomes: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
