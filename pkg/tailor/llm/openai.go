package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when a request doesn't name one.
const DefaultModel = string(openai.ChatModelGPT4oMini)

// chatCompleter captures the slice of the OpenAI SDK the client uses,
// so tests can substitute a fake.
type chatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClient implements Client via the OpenAI Chat Completions API.
type OpenAIClient struct {
	chat    chatCompleter
	model   string
	timeout time.Duration
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithModel sets the default model. Default: DefaultModel.
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each completion call. Expiry surfaces as a
// retryable *Error. Default: 2 minutes.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *OpenAIClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewOpenAIClient builds a client authenticated with the given API key.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	sdk := openai.NewClient(option.WithAPIKey(apiKey))
	return newOpenAIClient(&sdk.Chat.Completions, opts...), nil
}

func newOpenAIClient(chat chatCompleter, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		chat:    chat,
		model:   DefaultModel,
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Prompt == "" {
		return nil, &Error{Op: "chat completion", Err: errors.New("prompt is required")}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.chat.New(callCtx, params)
	if err != nil {
		return nil, &Error{Op: "chat completion", Err: err, Retryable: isRetryableError(err)}
	}

	if len(resp.Choices) == 0 {
		return nil, &Error{Op: "chat completion", Err: errors.New("response contained no choices")}
	}

	return &CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
