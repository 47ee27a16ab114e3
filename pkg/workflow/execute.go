package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/randalmurphal/tailorflow/pkg/workflow/checkpoint"
	"github.com/randalmurphal/tailorflow/pkg/workflow/observability"
	"go.opentelemetry.io/otel/attribute"
)

// Run executes the graph from its entry point until END.
//
// Nodes execute sequentially; the final state is returned when END is
// reached. On error the state at the point of failure is returned
// alongside the error, so callers can inspect partial progress.
//
// With WithCheckpointing, a checkpoint is saved before and after every
// node execution (see checkpoint.Phase). Checkpoint write failures are
// logged and ignored unless WithFatalCheckpoints is set.
func (cg *CompiledGraph[S]) Run(ctx Context, state S, opts ...RunOption) (S, error) {
	if ctx == nil {
		var zero S
		return zero, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.checkpointStore != nil && cfg.runID == "" {
		var zero S
		return zero, ErrRunIDRequired
	}

	return cg.runFrom(ctx, state, cg.entryPoint, &cfg)
}

// runFrom executes the graph starting at startNode. Shared by Run,
// Resume and ResumeFrom.
func (cg *CompiledGraph[S]) runFrom(ctx Context, state S, startNode string, cfg *runConfig) (S, error) {
	ec, ok := ctx.(*executionContext)
	if !ok {
		ec = &executionContext{
			Context: ctx,
			logger:  ctx.Logger(),
			runID:   ctx.RunID(),
			attempt: ctx.Attempt(),
		}
	}

	logger := ec.logger.With("run_id", ec.runID)
	elapsed := observability.TimedOperation()
	observability.LogRunStart(logger, ec.runID)

	runCtx := context.Context(ec)
	var endRunSpan func(error)
	if cfg.tracing {
		spanCtx, runSpan := cfg.spans.StartRunSpan(ec.Context, ec.runID)
		ec = &executionContext{
			Context: spanCtx,
			logger:  ec.logger,
			runID:   ec.runID,
			attempt: ec.attempt,
		}
		runCtx = spanCtx
		endRunSpan = func(err error) { cfg.spans.EndSpanWithError(runSpan, err) }
	}

	current := startNode
	prev := ""
	iterations := 0

	finish := func(st S, err error) (S, error) {
		d := elapsed()
		if err != nil {
			observability.LogRunError(logger, ec.runID, err, d, current)
		} else {
			observability.LogRunComplete(logger, ec.runID, d, iterations)
		}
		cfg.metrics.RecordGraphRun(runCtx, err == nil, durationFromMs(d))
		if endRunSpan != nil {
			endRunSpan(err)
		}
		return st, err
	}

	for current != END {
		if iterations >= cfg.maxIterations {
			return finish(state, &MaxIterationsError{
				Max:        cfg.maxIterations,
				LastNodeID: current,
				State:      state,
			})
		}
		iterations++

		select {
		case <-ec.Done():
			return finish(state, &CancellationError{
				NodeID: current,
				State:  state,
				Cause:  context.Cause(ec),
			})
		default:
		}

		if !cg.HasNode(current) {
			return finish(state, fmt.Errorf("%w: %s", ErrNodeNotFound, current))
		}

		nodeCtx := ec.withNodeID(current)

		if err := cg.saveCheckpoint(nodeCtx, cfg, state, current, checkpoint.PhaseEnter, current, prev); err != nil {
			return finish(state, err)
		}

		newState, err := cg.executeNode(nodeCtx, cfg, current, state)
		if err != nil {
			return finish(state, err)
		}
		state = newState

		next, err := cg.nextNode(nodeCtx, current, state)
		if err != nil {
			return finish(state, err)
		}

		if err := cg.saveCheckpoint(nodeCtx, cfg, state, current, checkpoint.PhaseExit, next, prev); err != nil {
			return finish(state, err)
		}

		prev = current
		current = next
	}

	return finish(state, nil)
}

// executeNode runs a single node with panic recovery, timing, logging
// and metrics.
func (cg *CompiledGraph[S]) executeNode(nodeCtx *executionContext, cfg *runConfig, nodeID string, state S) (result S, err error) {
	fn, _ := cg.getNode(nodeID)

	observability.LogNodeStart(nodeCtx.logger, nodeID)
	elapsed := observability.TimedOperation()

	var endNodeSpan func(error)
	execCtx := nodeCtx
	if cfg.tracing {
		spanCtx, span := cfg.spans.StartNodeSpan(nodeCtx.Context, nodeID, nodeCtx.attempt)
		execCtx = &executionContext{
			Context: spanCtx,
			logger:  nodeCtx.logger,
			runID:   nodeCtx.runID,
			nodeID:  nodeID,
			attempt: nodeCtx.attempt,
		}
		endNodeSpan = func(err error) { cfg.spans.EndSpanWithError(span, err) }
	}

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
			result = state
		}

		d := elapsed()
		cfg.metrics.RecordNodeExecution(execCtx, nodeID, durationFromMs(d), err)
		if endNodeSpan != nil {
			endNodeSpan(err)
		}
		if err != nil {
			observability.LogNodeError(nodeCtx.logger, nodeID, err)
		} else {
			observability.LogNodeComplete(nodeCtx.logger, nodeID, d)
		}
	}()

	result, err = fn(execCtx, state)
	if err != nil {
		err = &NodeError{NodeID: nodeID, Op: "execute", Err: err}
		result = state
	}
	return result, err
}

// nextNode determines the successor of nodeID, consulting the
// conditional router if one is registered.
func (cg *CompiledGraph[S]) nextNode(nodeCtx *executionContext, nodeID string, state S) (string, error) {
	if router, ok := cg.getRouter(nodeID); ok {
		target := router(nodeCtx, state)
		if strings.TrimSpace(target) == "" {
			return "", &RouterError{FromNode: nodeID, Returned: target, Err: ErrInvalidRouterResult}
		}
		if target != END && !cg.HasNode(target) {
			return "", &RouterError{FromNode: nodeID, Returned: target, Err: ErrRouterTargetNotFound}
		}
		nodeCtx.logger.Debug("router decision",
			"from", nodeID,
			"to", target,
		)
		return target, nil
	}

	edges := cg.getEdges(nodeID)
	if len(edges) == 0 {
		// Compile guarantees every node has an outgoing edge, so this
		// only happens with a corrupted graph.
		return "", fmt.Errorf("%w: no outgoing edge from %s", ErrNodeNotFound, nodeID)
	}
	return edges[0], nil
}

// saveCheckpoint serializes the state and writes a checkpoint. Honors
// cfg.checkpointFatal: by default failures are logged and swallowed.
func (cg *CompiledGraph[S]) saveCheckpoint(nodeCtx *executionContext, cfg *runConfig, state S, nodeID string, phase checkpoint.Phase, nextNode, prevNode string) error {
	if cfg.checkpointStore == nil {
		return nil
	}

	fail := func(op string, err error) error {
		cerr := &CheckpointError{NodeID: nodeID, Op: op, Err: err}
		if cfg.checkpointFatal {
			return cerr
		}
		observability.LogCheckpointError(nodeCtx.logger, nodeID, op, err)
		return nil
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fail("serialize", fmt.Errorf("%w: %v", ErrSerializeState, err))
	}

	cfg.sequence++
	cp := checkpoint.New(cfg.runID, nodeID, phase, cfg.sequence, stateJSON, nextNode).
		WithAttempt(nodeCtx.attempt).
		WithPrevNode(prevNode)

	data, err := cp.Marshal()
	if err != nil {
		return fail("marshal", err)
	}

	if err := cfg.checkpointStore.Save(cfg.runID, nodeID, data); err != nil {
		return fail("save", err)
	}

	observability.LogCheckpoint(nodeCtx.logger, nodeID, string(phase), len(data))
	cfg.metrics.RecordCheckpoint(nodeCtx, nodeID, int64(len(data)))
	if cfg.tracing {
		cfg.spans.AddSpanEvent(nodeCtx, "checkpoint.saved",
			attribute.String("node_id", nodeID),
			attribute.String("phase", string(phase)),
			attribute.Int("size_bytes", len(data)),
		)
	}
	return nil
}

func durationFromMs(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
