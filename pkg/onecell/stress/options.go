package stress

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/onecell-go/onecell/pkg/onecell/config"
	"github.com/onecell-go/onecell/pkg/onecell/journal"
	"github.com/onecell-go/onecell/pkg/onecell/observability"
)

// runConfig holds configuration for a race run.
type runConfig struct {
	callers  int
	prefix   string
	runID    string
	cellName string
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	journal  journal.Store
}

// defaultRunConfig returns the default race configuration:
// 30 contending callers offering payloads "Data-0" through "Data-29".
func defaultRunConfig() runConfig {
	return runConfig{
		callers:  30,
		prefix:   "Data-",
		runID:    uuid.New().String(),
		cellName: "default",
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
}

// Option configures a race run.
type Option func(*runConfig)

// WithCallers sets the number of contending callers.
// Default: 30. Values below 1 are ignored.
func WithCallers(n int) Option {
	return func(c *runConfig) {
		if n > 0 {
			c.callers = n
		}
	}
}

// WithPayloadPrefix sets the payload prefix; caller i offers prefix+i.
// Default: "Data-".
func WithPayloadPrefix(prefix string) Option {
	return func(c *runConfig) {
		c.prefix = prefix
	}
}

// WithRunID sets the run identifier used in logs, spans, and the
// journal. Default: a generated UUID.
func WithRunID(id string) Option {
	return func(c *runConfig) {
		if id != "" {
			c.runID = id
		}
	}
}

// WithCellName sets the label under which the registry appears in
// logs, metrics, and the journal. Default: "default".
func WithCellName(name string) Option {
	return func(c *runConfig) {
		if name != "" {
			c.cellName = name
		}
	}
}

// WithLogger enables structured logging for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
func WithMetrics(enabled bool) Option {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing for the run.
func WithTracing(enabled bool) Option {
	return func(c *runConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal records the run's outcome to store after the race
// resolves. A record failure fails the run.
func WithJournal(store journal.Store) Option {
	return func(c *runConfig) {
		c.journal = store
	}
}

// FromConfig derives run options from a loaded configuration.
//
// Recognized keys: callers (int), payload_prefix (string),
// run_id (string), cell (string), metrics (bool), tracing (bool).
// Missing keys keep their defaults.
func FromConfig(cfg config.Config) []Option {
	opts := []Option{
		WithCallers(cfg.Int("callers", 30)),
		WithPayloadPrefix(cfg.String("payload_prefix", "Data-")),
		WithCellName(cfg.String("cell", "default")),
	}
	if cfg.Has("run_id") {
		opts = append(opts, WithRunID(cfg.String("run_id", "")))
	}
	if cfg.Bool("metrics", false) {
		opts = append(opts, WithMetrics(true))
	}
	if cfg.Bool("tracing", false) {
		opts = append(opts, WithTracing(true))
	}
	return opts
}
