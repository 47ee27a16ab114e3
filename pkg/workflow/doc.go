// Package workflow provides a graph-based orchestration engine for
// sequential LLM pipelines with durable checkpointing.
//
// A workflow is built as a directed graph of typed nodes. Each node is
// a function that transforms a state value; edges define execution
// order, and conditional edges route based on the state at runtime.
// Graphs are validated at compile time, so structural mistakes (missing
// entry point, dangling edges, no path to END) surface before anything
// executes.
//
// Basic usage:
//
//	g := workflow.NewGraph[MyState]().
//		AddNode("fetch", fetchNode).
//		AddNode("process", processNode).
//		AddEdge("fetch", "process").
//		AddEdge("process", workflow.END).
//		SetEntry("fetch")
//
//	compiled, err := g.Compile()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := workflow.NewContext(context.Background())
//	final, err := compiled.Run(ctx, MyState{})
//
// Conditional routing:
//
//	g.AddConditionalEdge("process", func(ctx workflow.Context, s MyState) string {
//		if s.Err != "" {
//			return workflow.END
//		}
//		return "publish"
//	})
//
// Checkpointing persists state before and after every node so an
// interrupted run can be resumed:
//
//	store, _ := checkpoint.NewSQLiteStore("checkpoints.db")
//	final, err := compiled.Run(ctx, state,
//		workflow.WithCheckpointing(store),
//		workflow.WithRunID(runID),
//	)
//
//	// later, possibly in a new process
//	final, err = compiled.Resume(ctx, store, runID)
//
// Errors returned by nodes stop the run and come back wrapped in
// *NodeError; panics are recovered into *PanicError. Observability is
// opt-in through WithMetrics and WithTracing, backed by OpenTelemetry.
package workflow
