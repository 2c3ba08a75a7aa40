// Package stress runs concurrent initialization races against a
// registry and verifies the exactly-once contract.
//
// A run spawns N goroutines with distinct payloads, releases them
// simultaneously, and checks that every caller observed the identical
// Instance. The winning payload is nondeterministic across runs but
// must be unanimous within one. Runs can emit structured logs, OTel
// metrics and spans, and record their outcome to a journal.
package stress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onecell-go/onecell/pkg/onecell"
	"github.com/onecell-go/onecell/pkg/onecell/journal"
	"github.com/onecell-go/onecell/pkg/onecell/observability"
)

// Sentinel errors for race runs.
var (
	// ErrNilContext indicates Run was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrDivergentInstances indicates two callers observed different
	// instances. It means the registry under test is broken: the
	// at-most-one-instance contract admitted a second construction.
	ErrDivergentInstances = errors.New("callers observed divergent instances")
)

// Result describes a completed race run.
type Result struct {
	// RunID identifies the run in logs, spans, and the journal.
	RunID string

	// Callers is the number of goroutines that contended.
	Callers int

	// Winner is the payload that populated the slot.
	Winner string

	// WinnerIndex is the index of the caller whose construction won,
	// or -1 if the registry was already populated before the run.
	WinnerIndex int

	// Instance is the singleton every caller observed.
	Instance *onecell.Instance

	// Observations holds the data each caller saw, by caller index.
	// All entries are equal when the run succeeds.
	Observations []string

	// Elapsed is the wall time from release to last caller finishing.
	Elapsed time.Duration
}

// Run races cfg.callers concurrent GetOrInitialize calls against reg
// and verifies that exactly one construction happened and every caller
// holds the identical reference.
//
// The registry need not be empty: against a populated registry all
// payloads are discarded and WinnerIndex is -1.
func Run(ctx context.Context, reg *onecell.Registry, opts ...Option) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := observability.EnrichLogger(cfg.logger, cfg.runID, cfg.cellName)
	observability.LogRunStart(logger, cfg.runID, cfg.callers)

	runCtx, runSpan := cfg.spans.StartRunSpan(ctx, cfg.cellName, cfg.runID)

	instances := make([]*onecell.Instance, cfg.callers)
	winners := make([]bool, cfg.callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	began := time.Now()

	for i := range cfg.callers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			payload := cfg.prefix + strconv.Itoa(idx)

			callerCtx, callerSpan := cfg.spans.StartCallerSpan(runCtx, idx)

			// Start gate: maximize contention by releasing all
			// callers at once.
			<-start

			callBegan := time.Now()
			inst, won := reg.Initialize(payload)
			cfg.metrics.RecordInitialization(callerCtx, cfg.cellName, won, time.Since(callBegan))

			instances[idx] = inst
			winners[idx] = won

			if won {
				observability.LogWinner(logger, cfg.cellName, payload, idx)
			} else {
				observability.LogDiscarded(logger, cfg.cellName, payload)
			}
			cfg.spans.EndSpanWithError(callerSpan, nil)
		}(i)
	}

	close(start)
	wg.Wait()
	elapsed := time.Since(began)

	result := &Result{
		RunID:        cfg.runID,
		Callers:      cfg.callers,
		WinnerIndex:  -1,
		Instance:     instances[0],
		Observations: make([]string, cfg.callers),
		Elapsed:      elapsed,
	}

	// Every caller must hold the identical reference.
	for i, inst := range instances {
		if inst != instances[0] {
			err := fmt.Errorf("caller %d: %w", i, ErrDivergentInstances)
			cfg.spans.EndSpanWithError(runSpan, err)
			return nil, err
		}
		result.Observations[i] = inst.Data()
	}
	result.Winner = instances[0].Data()

	for i, won := range winners {
		if won {
			result.WinnerIndex = i
			break
		}
	}

	// The steady-state read must agree with what the callers saw.
	final, err := reg.Get()
	if err != nil {
		cfg.metrics.RecordUninitializedAccess(runCtx, cfg.cellName)
		observability.LogUninitializedAccess(logger, cfg.cellName, err)
		cfg.spans.EndSpanWithError(runSpan, err)
		return nil, err
	}
	if final != result.Instance {
		err := fmt.Errorf("final get: %w", ErrDivergentInstances)
		cfg.spans.EndSpanWithError(runSpan, err)
		return nil, err
	}

	cfg.metrics.RecordRaceRun(runCtx, cfg.cellName, cfg.callers, elapsed)
	cfg.spans.AddSpanEvent(runCtx, "winner decided",
		attribute.String("payload", result.Winner),
		attribute.Int("caller", result.WinnerIndex),
	)

	if cfg.journal != nil {
		discarded := cfg.callers
		if result.WinnerIndex >= 0 {
			discarded--
		}
		outcome := journal.Outcome{
			Winner:     result.Winner,
			Contenders: cfg.callers,
			Discarded:  discarded,
		}
		if err := cfg.journal.Record(cfg.runID, cfg.cellName, outcome); err != nil {
			err = fmt.Errorf("record outcome: %w", err)
			cfg.spans.EndSpanWithError(runSpan, err)
			return nil, err
		}
	}

	observability.LogRunComplete(logger, cfg.runID, result.Winner, cfg.callers,
		float64(elapsed.Milliseconds()))
	cfg.spans.EndSpanWithError(runSpan, nil)

	return result, nil
}
