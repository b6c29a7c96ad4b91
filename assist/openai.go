package assist

import (
	"collab-hub/errors"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompleter sends a single user message per prompt.
type OpenAICompleter struct {
	client    *openai.Client
	maxTokens int64
}

// NewOpenAICompleter never retries; timeout bounds each completion.
func NewOpenAICompleter(apiKey, baseURL string, maxTokens int64, timeout time.Duration) *OpenAICompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAICompleter{client: &client, maxTokens: maxTokens}
}

func (c *OpenAICompleter) Complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			return "", &errors.ServerError{Status: apiErr.StatusCode, Body: apiErr.Message}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", errors.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
