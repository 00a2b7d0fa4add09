// Package llama completes prompts through the OpenAI-compatible Llama API.
package llama

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/reply"
)

const (
	DefaultBaseURL = "https://api.llama-api.com"
	DefaultModel   = "llama3.1-70b"
)

var _ reply.Completer = (*Completer)(nil)

type Completer struct {
	client *openai.Client
	model  string
}

// New builds a chat completion client for the given base URL and model.
func New(apiKey, baseURL, model string) (*Completer, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Completer{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", errors.Wrap(err, "llama chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llama returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
