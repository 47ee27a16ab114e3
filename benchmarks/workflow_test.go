// Package benchmarks measures framework overhead: graph construction,
// compilation, execution, checkpointing, and document extraction.
package benchmarks

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/tailorflow/pkg/tailor"
	"github.com/randalmurphal/tailorflow/pkg/workflow"
	"github.com/randalmurphal/tailorflow/pkg/workflow/checkpoint"
)

// State for benchmarks.
type State struct {
	Value int
}

// noopNode does minimal work to measure framework overhead.
func noopNode(ctx workflow.Context, s State) (State, error) {
	return s, nil
}

func nodeID(n int) string {
	return fmt.Sprintf("n%d", n)
}

func buildLinearGraph(n int) *workflow.Graph[State] {
	graph := workflow.NewGraph[State]()
	for i := 0; i < n; i++ {
		graph.AddNode(nodeID(i), noopNode)
	}
	for i := 0; i < n-1; i++ {
		graph.AddEdge(nodeID(i), nodeID(i+1))
	}
	graph.AddEdge(nodeID(n-1), workflow.END)
	graph.SetEntry(nodeID(0))
	return graph
}

// BenchmarkCompile_Linear compiles linear graphs of increasing size.
func BenchmarkCompile_Linear(b *testing.B) {
	for _, n := range []int{5, 10, 50, 100} {
		b.Run(fmt.Sprintf("nodes_%d", n), func(b *testing.B) {
			graph := buildLinearGraph(n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = graph.Compile()
			}
		})
	}
}

// BenchmarkRun_Linear executes linear graphs end to end.
func BenchmarkRun_Linear(b *testing.B) {
	for _, n := range []int{3, 10, 50} {
		b.Run(fmt.Sprintf("nodes_%d", n), func(b *testing.B) {
			compiled, err := buildLinearGraph(n).Compile()
			if err != nil {
				b.Fatal(err)
			}
			ctx := workflow.NewContext(context.Background())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = compiled.Run(ctx, State{})
			}
		})
	}
}

// BenchmarkRun_Conditional executes a graph with a router decision.
func BenchmarkRun_Conditional(b *testing.B) {
	compiled, err := workflow.NewGraph[State]().
		AddNode("start", noopNode).
		AddNode("even", noopNode).
		AddNode("odd", noopNode).
		AddConditionalEdge("start", func(ctx workflow.Context, s State) string {
			if s.Value%2 == 0 {
				return "even"
			}
			return "odd"
		}).
		AddEdge("even", workflow.END).
		AddEdge("odd", workflow.END).
		SetEntry("start").
		Compile()
	if err != nil {
		b.Fatal(err)
	}

	ctx := workflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Run(ctx, State{Value: i})
	}
}

// BenchmarkRun_WithCheckpointing measures the per-node snapshot cost
// against both stores.
func BenchmarkRun_WithCheckpointing(b *testing.B) {
	compiled, err := buildLinearGraph(3).Compile()
	if err != nil {
		b.Fatal(err)
	}

	b.Run("memory", func(b *testing.B) {
		store := checkpoint.NewMemoryStore()
		defer store.Close()
		ctx := workflow.NewContext(context.Background())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = compiled.Run(ctx, State{},
				workflow.WithCheckpointing(store),
				workflow.WithRunID(fmt.Sprintf("run-%d", i)))
		}
	})

	b.Run("sqlite", func(b *testing.B) {
		store, err := checkpoint.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
		if err != nil {
			b.Fatal(err)
		}
		defer store.Close()
		ctx := workflow.NewContext(context.Background())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = compiled.Run(ctx, State{},
				workflow.WithCheckpointing(store),
				workflow.WithRunID(fmt.Sprintf("run-%d", i)))
		}
	})
}

// BenchmarkExtractDocument measures extraction across output shapes.
func BenchmarkExtractDocument(b *testing.B) {
	doc := `\documentclass{article}
\begin{document}
\section{Experience}
\textbf{Backend Engineer} built services.
\end{document}`

	inputs := map[string]string{
		"latex_fence":   "```latex\n" + doc + "\n```",
		"generic_fence": "```\n" + doc + "\n```",
		"bare":          doc,
	}

	for name, raw := range inputs {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = tailor.ExtractDocument(raw)
			}
		})
	}
}
