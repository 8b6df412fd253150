package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/domain/repository"
	"SignalDesk/internal/service/upstream"
)

// Config holds news provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Language string
}

// Client searches a NewsAPI style /v2/everything endpoint.
type Client struct {
	base     *upstream.Base
	apiKey   string
	language string
}

func New(cfg Config, metrics repository.Metrics) *Client {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	return &Client{
		base: upstream.NewBase(upstream.Options{
			Name:    "newsapi",
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Metrics: metrics,
		}),
		apiKey:   cfg.APIKey,
		language: lang,
	}
}

func (c *Client) CheckCredentials() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: news api key is not set", models.ErrConfiguration)
	}
	return nil
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns up to limit articles mentioning symbol, newest first.
func (c *Client) Search(ctx context.Context, symbol string, limit int) ([]models.RawArticle, error) {
	var resp everythingResponse
	err := c.base.GetJSON(ctx, "/v2/everything", map[string][]string{
		"q":        {symbol},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(limit)},
		"language": {c.language},
		"apiKey":   {c.apiKey},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", symbol, err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: newsapi %s: %s", models.ErrUpstream, resp.Code, resp.Message)
	}

	out := make([]models.RawArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if len(out) == limit {
			break
		}
		out = append(out, models.RawArticle{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}

var _ repository.NewsProvider = (*Client)(nil)
