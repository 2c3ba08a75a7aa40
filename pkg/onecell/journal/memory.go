package journal

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory journal for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]storedEntry // runID -> cell -> entry
	closed bool
}

// storedEntry holds an outcome with metadata for List().
type storedEntry struct {
	outcome   Outcome
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]storedEntry),
	}
}

// Record implements Store.
func (m *MemoryStore) Record(runID, cell string, outcome Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[runID] == nil {
		m.data[runID] = make(map[string]storedEntry)
	}

	// Determine sequence number
	seq := 1
	for _, e := range m.data[runID] {
		if e.sequence >= seq {
			seq = e.sequence + 1
		}
	}

	m.data[runID][cell] = storedEntry{
		outcome:   outcome,
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}

	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID, cell string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	run, ok := m.data[runID]
	if !ok {
		return Entry{}, ErrNotFound
	}

	e, ok := run[cell]
	if !ok {
		return Entry{}, ErrNotFound
	}

	return Entry{
		RunID:     runID,
		Cell:      cell,
		Outcome:   e.outcome,
		Sequence:  e.sequence,
		Timestamp: e.timestamp,
	}, nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	run, ok := m.data[runID]
	if !ok {
		return nil, nil
	}

	entries := make([]Entry, 0, len(run))
	for cell, e := range run {
		entries = append(entries, Entry{
			RunID:     runID,
			Cell:      cell,
			Outcome:   e.outcome,
			Sequence:  e.sequence,
			Timestamp: e.timestamp,
		})
	}

	// Sort by sequence
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Sequence < entries[j].Sequence
	})

	return entries, nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of entries across all runs.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, run := range m.data {
		count += len(run)
	}
	return count
}
