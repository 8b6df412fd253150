package repository

import (
	"context"
	"time"

	"SignalDesk/internal/domain/models"
)

// CredentialChecker reports ErrConfiguration when a provider cannot be called.
type CredentialChecker interface {
	CheckCredentials() error
}

// MarketDataProvider fetches OHLCV bars, most recent first.
type MarketDataProvider interface {
	CredentialChecker
	FetchBars(ctx context.Context, symbol string, interval Interval) ([]models.Bar, error)
}

// NewsProvider searches recent articles for a symbol, newest first.
type NewsProvider interface {
	CredentialChecker
	Search(ctx context.Context, symbol string, limit int) ([]models.RawArticle, error)
}

// LanguageAnalyzer scores text. A response without a document sentiment is a
// zero Sentiment, not an error.
type LanguageAnalyzer interface {
	CredentialChecker
	AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error)
	AnalyzeEntities(ctx context.Context, text string) ([]models.Entity, error)
}

// NewsStore appends scored articles. Inserts are not deduplicated.
type NewsStore interface {
	InsertArticle(ctx context.Context, a *models.NewsArticle) error
	Health(ctx context.Context) error
}

// FlowStore reads options flow rows flagged unusual, most recent first.
type FlowStore interface {
	ListUnusualSince(ctx context.Context, cutoff time.Time, limit int) ([]models.OptionsFlow, error)
	Health(ctx context.Context) error
}

// ArticlePublisher emits an event per persisted article.
type ArticlePublisher interface {
	PublishArticleScored(ctx context.Context, ev *models.ArticleScoredEvent) error
	Close() error
}

type Metrics interface {
	RecordUpstreamCall(provider string, err error, seconds float64)
	RecordArticlePersisted()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordUpstreamCall(string, error, float64) {}
func (NopMetrics) RecordArticlePersisted()                   {}
func (NopMetrics) RecordError(string)                        {}
func (NopMetrics) RecordLatency(string, float64)             {}

// Store is one backend serving both news and flow tables.
type Store interface {
	NewsStore
	FlowStore
}
