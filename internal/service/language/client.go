package language

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/domain/repository"
	"SignalDesk/internal/service/upstream"
)

// Config holds NLP service settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
}

// Client calls a Google Natural Language style document API.
type Client struct {
	base     *upstream.Base
	apiKey   string
	attempts int
}

func New(cfg Config, metrics repository.Metrics) *Client {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		base: upstream.NewBase(upstream.Options{
			Name:    "language",
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Metrics: metrics,
		}),
		apiKey:   cfg.APIKey,
		attempts: attempts,
	}
}

func (c *Client) CheckCredentials() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: language api key is not set", models.ErrConfiguration)
	}
	return nil
}

type document struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type analyzeRequest struct {
	Document     document `json:"document"`
	EncodingType string   `json:"encodingType"`
}

type sentimentResponse struct {
	DocumentSentiment *struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	} `json:"documentSentiment"`
}

type entitiesResponse struct {
	Entities []struct {
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Salience float64 `json:"salience"`
	} `json:"entities"`
}

// AnalyzeSentiment returns the document sentiment; zero when the response omits it.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error) {
	var resp sentimentResponse
	if err := c.post(ctx, "/v1/documents:analyzeSentiment", text, &resp); err != nil {
		return models.Sentiment{}, fmt.Errorf("analyze sentiment: %w", err)
	}
	if resp.DocumentSentiment == nil {
		return models.Sentiment{}, nil
	}
	return models.Sentiment{
		Score:     resp.DocumentSentiment.Score,
		Magnitude: resp.DocumentSentiment.Magnitude,
	}, nil
}

// AnalyzeEntities returns at most the first 10 entities, reduced to name, type and salience.
func (c *Client) AnalyzeEntities(ctx context.Context, text string) ([]models.Entity, error) {
	var resp entitiesResponse
	if err := c.post(ctx, "/v1/documents:analyzeEntities", text, &resp); err != nil {
		return nil, fmt.Errorf("analyze entities: %w", err)
	}
	n := len(resp.Entities)
	if n > models.MaxEntitiesPerArticle {
		n = models.MaxEntitiesPerArticle
	}
	out := make([]models.Entity, 0, n)
	for _, e := range resp.Entities[:n] {
		out = append(out, models.Entity{Name: e.Name, Type: e.Type, Salience: e.Salience})
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, text string, dest interface{}) error {
	req := analyzeRequest{
		Document:     document{Type: "PLAIN_TEXT", Content: text},
		EncodingType: "UTF8",
	}
	return c.base.PostJSONWithRetry(ctx, path, map[string][]string{"key": {c.apiKey}}, req, dest, c.attempts)
}

var _ repository.LanguageAnalyzer = (*Client)(nil)
