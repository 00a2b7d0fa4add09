// Package perspective scores text with the Google Perspective comment analyzer.
package perspective

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/moderation"
)

const (
	// DefaultEndpoint is the public comment analyzer host.
	DefaultEndpoint = "https://commentanalyzer.googleapis.com"

	// AnalyzePath is the comments:analyze API path
	AnalyzePath = "/v1alpha1/comments:analyze"

	AttributeToxicity = "TOXICITY"
)

var _ moderation.Scorer = (*Scorer)(nil)

// Scorer requests the TOXICITY attribute for a comment.
type Scorer struct {
	client *http.Client
	config *moderation.Config
}

type analyzeRequest struct {
	Comment             textEntry           `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type textEntry struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// New creates a Perspective scorer. An empty endpoint uses DefaultEndpoint.
func New(config *moderation.Config, client *http.Client) (*Scorer, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	cfg := *config
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}

	return &Scorer{client: client, config: &cfg}, nil
}

// Score returns the TOXICITY summary score for text.
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	req, err := s.newAnalyzeRequest(ctx, text)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create analyze request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "error calling Perspective API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, e := io.ReadAll(resp.Body)
		if e != nil {
			return 0, errors.Wrapf(e, "failed to read error response body (status code: %d)", resp.StatusCode)
		}
		return 0, errors.Errorf("Perspective API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var analyzed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzed); err != nil {
		return 0, errors.Wrap(err, "error decoding API response")
	}

	toxicity, ok := analyzed.AttributeScores[AttributeToxicity]
	if !ok {
		return 0, errors.New("response has no TOXICITY score")
	}
	return toxicity.SummaryScore.Value, nil
}

func (s *Scorer) newAnalyzeRequest(ctx context.Context, text string) (*http.Request, error) {
	body, err := json.Marshal(analyzeRequest{
		Comment:             textEntry{Text: text},
		RequestedAttributes: map[string]struct{}{AttributeToxicity: {}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling request")
	}

	endpoint := strings.TrimRight(s.config.Endpoint, "/") + AnalyzePath + "?key=" + url.QueryEscape(s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
