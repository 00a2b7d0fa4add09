// Package reply drafts post-owner replies to comments with a language model.
package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// FallbackReply is posted when no model output is available.
const FallbackReply = "Thank you for your comment!"

const SystemPrompt = "You are a helpful assistant."

// Completer sends a system and user prompt to a chat model and returns its text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator drafts replies. It never fails: model errors fall back to FallbackReply.
type Generator struct {
	completer Completer
	log       logrus.FieldLogger
}

// NewGenerator returns a Generator. With a nil completer every draft is FallbackReply.
func NewGenerator(completer Completer, log logrus.FieldLogger) *Generator {
	return &Generator{completer: completer, log: log}
}

// UserPrompt builds the prompt asking the model to answer as the post author.
func UserPrompt(postContent, commentContent, authorName string) string {
	return fmt.Sprintf(
		"Post by %s: %s\nComment: %s\nReply as the author of the post, ensuring the reply is relevant to both the post and the comment.",
		authorName, postContent, commentContent,
	)
}

// Draft returns reply text for commentContent left under postContent.
func (g *Generator) Draft(ctx context.Context, postContent, commentContent, authorName string) string {
	if g.completer == nil {
		return FallbackReply
	}

	text, err := g.completer.Complete(ctx, SystemPrompt, UserPrompt(postContent, commentContent, authorName))
	if err != nil {
		g.log.WithError(err).Warn("reply generation failed, using fallback reply")
		return FallbackReply
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackReply
	}
	return text
}
