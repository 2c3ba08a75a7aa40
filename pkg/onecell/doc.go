/*
Package onecell provides exactly-once lazy initialization cells.

# Overview

onecell is a small Go library for process-lifetime singletons that are
constructed lazily, on first use, by whichever caller gets there first.
The core primitive is Cell[T]: a set-if-absent slot that guarantees its
init function runs at most once, no matter how many goroutines race to
initialize it. Once a cell is populated it is immutable; later callers
get the published value without touching a lock.

Unlike sync.Once, a Cell carries its value, reports whether a given call
performed the construction, and can be reset between test cases.

# Basic Usage

Create a cell and initialize it from whichever goroutine arrives first:

	var cell onecell.Cell[Config]

	cfg, created := cell.GetOrInit(func() Config {
	    return loadConfig()
	})
	if created {
	    log.Println("this goroutine won the initialization race")
	}

All goroutines observe the same Config. loadConfig runs at most once.

# Registry

Registry is a cell specialized to the common "one shared record built
from a payload, first writer wins" shape:

	reg := onecell.NewRegistry()

	inst := reg.GetOrInitialize("Data-7") // populates the slot
	inst = reg.GetOrInitialize("Data-9")  // "Data-9" silently discarded

	got, err := reg.Get()
	if err != nil {
	    // only possible before any GetOrInitialize succeeded
	}
	fmt.Println(got.Data()) // "Data-7"

Get before any successful GetOrInitialize is a usage-order bug and fails
fast with *UninitializedAccessError; it is never retried internally.

A package-level default registry is available via Default(),
GetOrInitialize(), and Get() for process-wide use.

# First-Writer-Wins

When N goroutines race GetOrInitialize with distinct payloads, exactly
one construction happens; the constructing caller's payload becomes the
permanent data and every caller receives the identical (pointer-equal)
Instance. Which caller wins is nondeterministic across runs but
unanimous within one: there is no ordering among contending payloads and
losers are discarded silently. This is first-writer-wins, not
last-writer-wins.

# Concurrency

GetOrInit uses a check-lock-check sequence: a lock-free atomic fast-path
read, then an exclusive lock with an authoritative re-read before
construction. The fast path never blocks; only callers present during
first initialization contend on the lock. Publication uses an atomic
store, so a populated cell is safe to read from any goroutine without
further synchronization.

Reset is intended for tests and must not race live readers.

# Subpackages

  - group: keyed collections of cells sharing one Group lock table
  - stress: a concurrent race harness that verifies the exactly-once contract
  - journal: audit storage (memory, SQLite) for race outcomes
  - observability: slog helpers, OpenTelemetry metrics and tracing
  - config: typed configuration extraction with YAML/JSON loading
*/
package onecell
