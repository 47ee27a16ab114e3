package workflow

import (
	"github.com/randalmurphal/tailorflow/pkg/workflow/checkpoint"
	"github.com/randalmurphal/tailorflow/pkg/workflow/observability"
)

// runConfig holds per-Run execution configuration.
type runConfig struct {
	maxIterations   int
	runID           string
	checkpointStore checkpoint.Store
	checkpointFatal bool
	sequence        int

	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	tracing bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		maxIterations: 1000,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures a single Run or Resume invocation.
type RunOption func(*runConfig)

// WithMaxIterations caps the number of node executions per run.
// Default: 1000. Guards against cyclic graphs looping forever.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithCheckpointing enables durable state snapshots to the given store.
// Requires WithRunID; Run fails with ErrRunIDRequired otherwise.
//
// A checkpoint is written when a node is entered and again when it
// completes, so a crashed run can be inspected or resumed from the
// node that was executing.
func WithCheckpointing(store checkpoint.Store) RunOption {
	return func(c *runConfig) {
		c.checkpointStore = store
	}
}

// WithRunID sets the identifier under which checkpoints are keyed.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithFatalCheckpoints makes checkpoint write failures abort the run.
// By default a failed checkpoint write is logged and execution continues.
func WithFatalCheckpoints() RunOption {
	return func(c *runConfig) {
		c.checkpointFatal = true
	}
}

// WithMetrics records node and run measurements through the given recorder.
func WithMetrics(rec observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// WithTracing starts an OpenTelemetry span per run and per node using
// the given span manager.
func WithTracing(spans observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if spans != nil {
			c.spans = spans
			c.tracing = true
		}
	}
}
