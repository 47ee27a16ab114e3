package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/tailorflow/pkg/workflow/checkpoint"
)

// Resume continues a run from its latest checkpoint.
//
// The checkpoint's NextNode determines where execution restarts: an
// entry-phase checkpoint re-executes the node that was interrupted, an
// exit-phase checkpoint continues with its successor. The persisted
// state replaces whatever the caller held.
//
// Checkpointing stays enabled for the resumed portion using the same
// store and run ID, and the attempt counter is incremented.
func (cg *CompiledGraph[S]) Resume(ctx Context, store checkpoint.Store, runID string, opts ...RunOption) (S, error) {
	var zero S
	if ctx == nil {
		return zero, ErrNilContext
	}
	if runID == "" {
		return zero, ErrRunIDRequired
	}

	cp, err := latestCheckpoint(store, runID)
	if err != nil {
		return zero, err
	}
	return cg.resumeFromCheckpoint(ctx, store, cp, opts)
}

// ResumeFrom continues a run from the checkpoint of a specific node
// rather than the latest one. Useful for re-running a pipeline from a
// known-good point after fixing an input.
func (cg *CompiledGraph[S]) ResumeFrom(ctx Context, store checkpoint.Store, runID, nodeID string, opts ...RunOption) (S, error) {
	var zero S
	if ctx == nil {
		return zero, ErrNilContext
	}
	if runID == "" {
		return zero, ErrRunIDRequired
	}

	data, err := store.Load(runID, nodeID)
	if err != nil {
		return zero, fmt.Errorf("load checkpoint for node %s: %w", nodeID, err)
	}
	cp, err := checkpoint.Unmarshal(data)
	if err != nil {
		return zero, fmt.Errorf("decode checkpoint for node %s: %w", nodeID, err)
	}
	return cg.resumeFromCheckpoint(ctx, store, cp, opts)
}

func (cg *CompiledGraph[S]) resumeFromCheckpoint(ctx Context, store checkpoint.Store, cp *checkpoint.Checkpoint, opts []RunOption) (S, error) {
	var zero S

	if cp.Version != checkpoint.Version {
		return zero, fmt.Errorf("%w: got %d, want %d", ErrCheckpointVersionMismatch, cp.Version, checkpoint.Version)
	}

	start := cp.NextNode
	if start != END && !cg.HasNode(start) {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResumeNode, start)
	}

	var state S
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDeserializeState, err)
	}

	cfg := defaultRunConfig()
	cfg.checkpointStore = store
	cfg.runID = cp.RunID
	cfg.sequence = cp.Sequence
	for _, opt := range opts {
		opt(&cfg)
	}

	rctx := NewContext(ctx,
		WithLogger(ctx.Logger()),
		WithContextRunID(cp.RunID),
		WithAttempt(cp.Attempt+1),
	)

	if start == END {
		return state, nil
	}
	return cg.runFrom(rctx, state, start, &cfg)
}

// latestCheckpoint loads the highest-sequence checkpoint for a run.
func latestCheckpoint(store checkpoint.Store, runID string) (*checkpoint.Checkpoint, error) {
	infos, err := store.List(runID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCheckpoints, runID)
	}

	latest := infos[0]
	for _, info := range infos[1:] {
		if info.Sequence > latest.Sequence {
			latest = info
		}
	}

	data, err := store.Load(runID, latest.NodeID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return checkpoint.Unmarshal(data)
}
