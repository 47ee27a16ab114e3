// Package llm defines the text-generation client contract used by the
// tailoring pipeline, with an implementation backed by the OpenAI Chat
// Completions API.
package llm

import "context"

// Client is the narrow text-generation capability the pipeline depends
// on. Implementations must return either a response or an error, never
// panic, and must respect context cancellation.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest describes a single generation call.
type CompletionRequest struct {
	// Prompt is the rendered user prompt. Required.
	Prompt string

	// SystemPrompt is an optional system message prepended to the prompt.
	SystemPrompt string

	// Model overrides the client's default model when non-empty.
	Model string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the text plus usage accounting for one call.
type CompletionResponse struct {
	// Content is the generated text.
	Content string

	// Model is the model that produced the response.
	Model string

	// Usage is the token accounting reported by the provider.
	Usage TokenUsage
}

// TokenUsage mirrors the provider's per-call token accounting.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another call's usage into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
