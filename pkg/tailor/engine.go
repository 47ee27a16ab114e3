package tailor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/randalmurphal/tailorflow/pkg/tailor/llm"
	"github.com/randalmurphal/tailorflow/pkg/workflow"
	"github.com/randalmurphal/tailorflow/pkg/workflow/checkpoint"
)

// checkpointDBName is the SQLite file created inside the checkpoint
// directory.
const checkpointDBName = "resume_generation.db"

// Engine owns the compiled generation graph and its checkpoint store.
// One Engine is safe for concurrent runs; checkpoint records are keyed
// and isolated per run ID.
type Engine struct {
	graph *workflow.CompiledGraph[RunState]
	store checkpoint.Store
}

// NewEngine builds an engine backed by a SQLite checkpoint store inside
// dir (created if absent). Callers own the engine and must Shutdown it
// when done; for a process-wide shared instance use SharedEngine.
func NewEngine(client llm.Client, cfg GenerationConfig, dir string) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint directory: %w", err)
	}

	store, err := checkpoint.NewSQLiteStore(filepath.Join(dir, checkpointDBName))
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}

	graph, err := buildGraph(client, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Engine{graph: graph, store: store}, nil
}

// Run executes the generation graph under the given run ID with
// checkpointing enabled.
func (e *Engine) Run(ctx workflow.Context, state RunState, runID string) (RunState, error) {
	return e.graph.Run(ctx, state,
		workflow.WithCheckpointing(e.store),
		workflow.WithRunID(runID),
	)
}

// Resume continues a previously checkpointed run.
func (e *Engine) Resume(ctx workflow.Context, runID string) (RunState, error) {
	return e.graph.Resume(ctx, e.store, runID)
}

// Shutdown releases the checkpoint store. The engine must not be used
// afterwards.
func (e *Engine) Shutdown() error {
	return e.store.Close()
}

// buildGraph wires the three-node generation pipeline.
func buildGraph(client llm.Client, cfg GenerationConfig) (*workflow.CompiledGraph[RunState], error) {
	s := newSteps(client, cfg)

	return workflow.NewGraph[RunState]().
		AddNode(nodeProcessInputs, s.processInputs).
		AddNode(nodeGenerateResume, s.generateResume).
		AddNode(nodeGenerateCoverLetter, s.generateCoverLetter).
		AddEdge(nodeProcessInputs, nodeGenerateResume).
		AddConditionalEdge(nodeGenerateResume, s.routeAfterResume).
		AddEdge(nodeGenerateCoverLetter, workflow.END).
		SetEntry(nodeProcessInputs).
		Compile()
}

// Shared engines, keyed by checkpoint directory. Construction is
// guarded so concurrent first use yields a single instance per
// location.
var (
	sharedMu      sync.Mutex
	sharedEngines = make(map[string]*Engine)
)

// SharedEngine returns the process-wide engine bound to dir, creating
// it on first use. Subsequent calls with the same directory reuse the
// instance regardless of client or config.
func SharedEngine(client llm.Client, cfg GenerationConfig, dir string) (*Engine, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if engine, ok := sharedEngines[dir]; ok {
		return engine, nil
	}

	engine, err := NewEngine(client, cfg, dir)
	if err != nil {
		return nil, err
	}
	sharedEngines[dir] = engine
	return engine, nil
}

// ShutdownShared closes and forgets every shared engine. Intended for
// process teardown and tests.
func ShutdownShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	var firstErr error
	for dir, engine := range sharedEngines {
		if err := engine.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(sharedEngines, dir)
	}
	return firstErr
}
