package onecell

import (
	"sync"
	"sync/atomic"
)

// Cell is a set-if-absent slot holding at most one value of type T.
// The zero value is an empty, ready-to-use cell.
//
// A Cell guarantees that its init function runs at most once across the
// cell's lifetime, regardless of how many goroutines call GetOrInit
// concurrently. After the first successful initialization the stored
// value is immutable and reads are lock-free.
type Cell[T any] struct {
	// slot is the published value. A nil pointer means empty.
	// The atomic load/store pair provides the acquire/release ordering
	// that makes a populated cell safe to read without the mutex.
	slot atomic.Pointer[T]

	// mu serializes first initialization only. Steady-state reads
	// never touch it.
	mu sync.Mutex
}

// GetOrInit returns the cell's value, initializing it with init if the
// cell is empty. The returned bool reports whether this call performed
// the construction (the caller "won" the race), in the manner of
// sync.Map.LoadOrStore.
//
// init is called at most once per cell lifetime, while holding the
// cell's lock. Racing callers whose fast-path read missed block on the
// lock, re-check, and return the winner's value with their init
// discarded unexecuted.
func (c *Cell[T]) GetOrInit(init func() T) (T, bool) {
	// Fast path: lock-free read once the cell is populated.
	if p := c.slot.Load(); p != nil {
		return *p, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Authoritative re-check: another caller may have passed the
	// fast-path check and initialized while we waited for the lock.
	if p := c.slot.Load(); p != nil {
		return *p, false
	}

	v := init()
	c.slot.Store(&v)
	return v, true
}

// Get returns the cell's value and whether the cell is populated.
// It is a fast-path read only and never blocks.
func (c *Cell[T]) Get() (T, bool) {
	if p := c.slot.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Initialized reports whether the cell holds a value.
func (c *Cell[T]) Initialized() bool {
	return c.slot.Load() != nil
}

// Reset empties the cell so it can be initialized again.
//
// Reset exists for tests that reuse a cell between cases. It is not
// part of the steady-state contract: a reset that races GetOrInit can
// let a second construction happen, so callers must ensure no other
// goroutine is using the cell.
func (c *Cell[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot.Store(nil)
}
