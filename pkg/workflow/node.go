package workflow

// END is the terminal node identifier.
// Use it as an edge target to mark where the graph finishes.
const END = "__end__"

// NodeFunc is the signature shared by all node functions.
// A node receives the execution context and the current state value,
// and returns the next state value and any error.
//
// State is passed by value: a node modifies its copy and returns it.
// Nodes must not rely on pointer aliasing to communicate.
//
// Example:
//
//	func mark(ctx workflow.Context, s Run) (Run, error) {
//	    s.Done = true
//	    return s, nil
//	}
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc selects the next node for a conditional edge based on state.
//
// The router must return a node ID that exists in the graph, or workflow.END.
// An empty string or an unknown ID is a runtime error.
type RouterFunc[S any] func(ctx Context, state S) string
