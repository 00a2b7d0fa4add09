// Package moderation screens user content for toxicity.
package moderation

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ToxicityThreshold is the score above which content is blocked.
const ToxicityThreshold = 0.7

// ErrUpstreamUnavailable marks a failed call to the scoring service.
var ErrUpstreamUnavailable = errors.New("moderation service unavailable")

// Scorer returns a toxicity probability in [0, 1] for the given text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Verdict is the outcome of screening a piece of text.
type Verdict struct {
	IsToxic bool
	Score   float64
}

// Config defines a common configuration for scorers
type Config struct {
	// Endpoint is the API base URL
	Endpoint string

	// APIKey is the authentication key
	APIKey string
}

// Client turns scorer output into verdicts. Scoring failures never reach
// callers: content is treated as clean when the scorer can't answer.
type Client struct {
	scorer  Scorer
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewClient wraps scorer. A nil scorer disables moderation.
func NewClient(scorer Scorer, timeout time.Duration, log logrus.FieldLogger) *Client {
	return &Client{scorer: scorer, timeout: timeout, log: log}
}

// Assess screens text and reports whether it should be blocked.
func (c *Client) Assess(ctx context.Context, text string) Verdict {
	if c.scorer == nil || strings.TrimSpace(text) == "" {
		return Verdict{}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	score, err := c.scorer.Score(ctx, text)
	if err != nil {
		err = errors.Wrapf(ErrUpstreamUnavailable, "%v", err)
		c.log.WithError(err).Warn("toxicity check failed, treating content as clean")
		return Verdict{}
	}

	return Verdict{IsToxic: score > ToxicityThreshold, Score: score}
}
