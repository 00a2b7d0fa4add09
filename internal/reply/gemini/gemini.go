// Package gemini completes prompts with Google Gemini models.
package gemini

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/reply"
)

const DefaultModel = "gemini-1.5-flash"

var _ reply.Completer = (*Completer)(nil)

type Completer struct {
	client *genai.Client
	model  string
}

// Options tune the client; the zero value talks to the public Gemini API.
type Options struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func New(ctx context.Context, apiKey string, opts Options) (*Completer, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &Completer{client: client, model: opts.Model}, nil
}

func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), config)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content failed")
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil && len(result.Candidates[0].Content.Parts) > 0 {
		return result.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", errors.New("gemini returned no candidates")
}
