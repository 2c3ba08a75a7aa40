package group

import (
	"sync"

	"github.com/onecell-go/onecell/pkg/onecell"
)

// Group is a thread-safe collection of named cells. Each key owns an
// independent Cell with the usual exactly-once, first-writer-wins
// contract; the Group only manages the key-to-cell table.
//
// The table uses sync.RWMutex for read-heavy workloads: looking up an
// existing cell takes a read lock, and only the first access to a key
// takes the write lock to install its cell.
type Group[K comparable, T any] struct {
	mu    sync.RWMutex
	cells map[K]*onecell.Cell[T]
}

// New creates an empty group.
func New[K comparable, T any]() *Group[K, T] {
	return &Group[K, T]{
		cells: make(map[K]*onecell.Cell[T]),
	}
}

// Cell returns the cell for key, installing an empty one on first
// access. The install is atomic: concurrent callers for the same key
// receive the same cell.
func (g *Group[K, T]) Cell(key K) *onecell.Cell[T] {
	// Fast path: cell already installed.
	g.mu.RLock()
	c, ok := g.cells[key]
	g.mu.RUnlock()
	if ok {
		return c
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Re-check after acquiring the write lock.
	if c, ok := g.cells[key]; ok {
		return c
	}

	c = &onecell.Cell[T]{}
	g.cells[key] = c
	return c
}

// GetOrInit returns key's value, initializing its cell with init if
// empty. The bool reports whether this call performed the construction.
func (g *Group[K, T]) GetOrInit(key K, init func() T) (T, bool) {
	return g.Cell(key).GetOrInit(init)
}

// Get returns key's value and whether its cell is populated. A key
// whose cell was never installed or never initialized reports false.
func (g *Group[K, T]) Get(key K) (T, bool) {
	g.mu.RLock()
	c, ok := g.cells[key]
	g.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get()
}

// Initialized reports whether key's cell holds a value.
func (g *Group[K, T]) Initialized(key K) bool {
	_, ok := g.Get(key)
	return ok
}

// Keys returns the keys of all installed cells, initialized or not.
// The order is not guaranteed.
func (g *Group[K, T]) Keys() []K {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]K, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of installed cells.
func (g *Group[K, T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Range calls fn for each initialized value. If fn returns false,
// iteration stops.
//
// Range iterates over a snapshot of the cell table, so installing or
// resetting cells during iteration does not affect the current pass.
func (g *Group[K, T]) Range(fn func(K, T) bool) {
	g.mu.RLock()
	snapshot := make(map[K]*onecell.Cell[T], len(g.cells))
	for k, c := range g.cells {
		snapshot[k] = c
	}
	g.mu.RUnlock()

	for k, c := range snapshot {
		v, ok := c.Get()
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Reset empties key's cell, if installed. Test support only; the same
// caveats as Cell.Reset apply.
func (g *Group[K, T]) Reset(key K) {
	g.mu.RLock()
	c, ok := g.cells[key]
	g.mu.RUnlock()
	if ok {
		c.Reset()
	}
}

// ResetAll drops every installed cell. Test support only.
func (g *Group[K, T]) ResetAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells = make(map[K]*onecell.Cell[T])
}
