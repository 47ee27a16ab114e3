package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChat is a scripted chatCompleter.
type fakeChat struct {
	lastParams openai.ChatCompletionNewParams
	resp       *openai.ChatCompletion
	err        error
}

func (f *fakeChat) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func completion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Model: "gpt-4o-mini",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
		Usage: openai.CompletionUsage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
	}
}

// TestOpenAIClient_Complete tests the happy path and usage mapping.
func TestOpenAIClient_Complete(t *testing.T) {
	fake := &fakeChat{resp: completion("generated text")}
	client := newOpenAIClient(fake)

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "write something",
		Temperature: 0.25,
	})

	require.NoError(t, err)
	assert.Equal(t, "generated text", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, resp.Usage)
	assert.Equal(t, openai.ChatModel(DefaultModel), fake.lastParams.Model)
}

// TestOpenAIClient_Complete_ModelOverride tests per-request model selection.
func TestOpenAIClient_Complete_ModelOverride(t *testing.T) {
	fake := &fakeChat{resp: completion("x")}
	client := newOpenAIClient(fake, WithModel("gpt-4o"))

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, openai.ChatModel("gpt-4o"), fake.lastParams.Model)

	_, err = client.Complete(context.Background(), CompletionRequest{Prompt: "p", Model: "gpt-4.1"})
	require.NoError(t, err)
	assert.Equal(t, openai.ChatModel("gpt-4.1"), fake.lastParams.Model)
}

// TestOpenAIClient_Complete_EmptyPrompt tests input validation.
func TestOpenAIClient_Complete_EmptyPrompt(t *testing.T) {
	client := newOpenAIClient(&fakeChat{})

	_, err := client.Complete(context.Background(), CompletionRequest{})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.False(t, llmErr.Retryable)
}

// TestOpenAIClient_Complete_ProviderError tests error wrapping.
func TestOpenAIClient_Complete_ProviderError(t *testing.T) {
	boom := errors.New("429 too many requests: rate limit exceeded")
	client := newOpenAIClient(&fakeChat{err: boom})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.ErrorIs(t, err, boom)
	assert.True(t, llmErr.Retryable)
}

// TestOpenAIClient_Complete_NoChoices tests a malformed provider response.
func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	client := newOpenAIClient(&fakeChat{resp: &openai.ChatCompletion{}})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Contains(t, err.Error(), "no choices")
}

// TestNewOpenAIClient_RequiresKey tests API key validation.
func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("")
	assert.Error(t, err)
}

// TestIsRetryableError classifies failure modes.
func TestIsRetryableError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"server error", errors.New("503 service unavailable"), true},
		{"auth", errors.New("401 invalid api key"), false},
		{"bad request", errors.New("400 invalid request"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, isRetryableError(tc.err))
		})
	}
}

// TestTokenUsage_Add tests usage accumulation.
func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	u.Add(TokenUsage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30})

	assert.Equal(t, TokenUsage{PromptTokens: 30, CompletionTokens: 15, TotalTokens: 45}, u)
}
