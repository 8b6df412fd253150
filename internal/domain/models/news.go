package models

import "strings"

// RawArticle is an article as returned by the news provider.
type RawArticle struct {
	Title       string
	Description string
	Content     string
	URL         string
	Source      string
	PublishedAt string
}

// Text is what gets scored: title and description joined by a space.
func (a RawArticle) Text() string {
	return strings.TrimSpace(a.Title + " " + a.Description)
}

// Entity is a named entity reduced to what is persisted.
type Entity struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Salience float64 `json:"salience"`
}

// MaxEntitiesPerArticle caps the entity list kept per article.
const MaxEntitiesPerArticle = 10

// Sentiment is the document-level score. Score is nominally in [-1, 1],
// Magnitude is >= 0 and unbounded.
type Sentiment struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// NewsArticle is the persisted record: one per (article, query symbol).
type NewsArticle struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Content            string   `json:"content"`
	URL                string   `json:"url"`
	Source             string   `json:"source"`
	PublishedAt        string   `json:"published_at"`
	Symbols            []string `json:"symbols"`
	Entities           []Entity `json:"entities"`
	SentimentScore     float64  `json:"sentiment_score"`
	SentimentMagnitude float64  `json:"sentiment_magnitude"`
	Topics             []string `json:"topics"`
}

// ArticleScoredEvent is published after an article is persisted.
type ArticleScoredEvent struct {
	Type        string  `json:"type"`
	Symbol      string  `json:"symbol"`
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	PublishedAt string  `json:"published_at"`
	Score       float64 `json:"sentiment_score"`
	Magnitude   float64 `json:"sentiment_magnitude"`
	ScoredAt    string  `json:"scored_at"`
}

// IngestResult is the response of a news ingestion run.
type IngestResult struct {
	Success   bool `json:"success"`
	Processed int  `json:"processed"`
}
