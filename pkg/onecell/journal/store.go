// Package journal provides audit storage for initialization race outcomes.
//
// A Store records, per run and per cell, which payload won the
// first-writer-wins race and how many callers contended. The journal is
// an opt-in post-mortem surface for the stress harness; the core cell
// contract never depends on it.
package journal

import (
	"errors"
	"time"
)

// Store persists race outcomes.
// Implementations must be safe for concurrent use.
type Store interface {
	// Record stores the outcome for (runID, cell).
	// Overwrites if an outcome for the pair already exists.
	Record(runID, cell string, outcome Outcome) error

	// Load retrieves the outcome for (runID, cell).
	// Returns ErrNotFound if no outcome was recorded.
	Load(runID, cell string) (Entry, error)

	// List returns all outcomes for a run, ordered by sequence.
	// Returns empty slice (not error) if the run has no outcomes.
	List(runID string) ([]Entry, error)

	// DeleteRun removes all outcomes for a run.
	// Returns nil if the run has no outcomes.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Outcome describes how one cell's race was decided.
type Outcome struct {
	// Winner is the payload that populated the slot.
	Winner string
	// Contenders is the number of callers that raced for the slot.
	Contenders int
	// Discarded is the number of payloads dropped by first-writer-wins.
	Discarded int
}

// Entry is a recorded outcome with its journal metadata.
type Entry struct {
	RunID     string
	Cell      string
	Outcome   Outcome
	Sequence  int
	Timestamp time.Time
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates no outcome was recorded for the pair.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
