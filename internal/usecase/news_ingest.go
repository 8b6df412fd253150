package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	applogger "SignalDesk/pkg/logger"
)

// NewsIngestor fetches, scores and persists articles symbol by symbol.
// Symbols and articles are processed sequentially with a fixed pause between
// symbols so neither the news provider nor the NLP service sees bursts.
type NewsIngestor struct {
	news      domrepo.NewsProvider
	nlp       domrepo.LanguageAnalyzer
	store     domrepo.NewsStore
	pub       domrepo.ArticlePublisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
	delay     time.Duration
	perSymbol int
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
}

// NewsIngestorOption configures NewsIngestor.
type NewsIngestorOption func(*NewsIngestor)

// WithSymbolDelay sets the pause between symbols.
func WithSymbolDelay(d time.Duration) NewsIngestorOption {
	return func(n *NewsIngestor) { n.delay = d }
}

// WithArticlesPerSymbol sets how many articles are requested per symbol.
func WithArticlesPerSymbol(limit int) NewsIngestorOption {
	return func(n *NewsIngestor) {
		if limit > 0 {
			n.perSymbol = limit
		}
	}
}

// WithArticlePublisher emits an event for every persisted article.
func WithArticlePublisher(p domrepo.ArticlePublisher) NewsIngestorOption {
	return func(n *NewsIngestor) { n.pub = p }
}

// WithSleeper replaces the context-aware wait between symbols.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) NewsIngestorOption {
	return func(n *NewsIngestor) { n.sleep = sleep }
}

func NewNewsIngestor(
	news domrepo.NewsProvider,
	nlp domrepo.LanguageAnalyzer,
	store domrepo.NewsStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	opts ...NewsIngestorOption,
) *NewsIngestor {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	n := &NewsIngestor{
		news:      news,
		nlp:       nlp,
		store:     store,
		metrics:   metrics,
		log:       l,
		delay:     time.Second,
		perSymbol: 10,
		sleep:     sleepCtx,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Ingest processes every symbol and reports how many articles were persisted.
// Per-symbol and per-article failures are logged and skipped. If ctx is
// cancelled while waiting between symbols, the remaining ones are abandoned
// and the count so far is returned.
func (uc *NewsIngestor) Ingest(ctx context.Context, symbols []string) (*models.IngestResult, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: symbols must be a non-empty array", models.ErrInvalidInput)
	}
	cleaned := make([]string, len(symbols))
	for i, s := range symbols {
		cleaned[i] = strings.TrimSpace(s)
		if cleaned[i] == "" {
			return nil, fmt.Errorf("%w: symbols[%d] is empty", models.ErrInvalidInput, i)
		}
	}
	if err := uc.news.CheckCredentials(); err != nil {
		return nil, err
	}
	if err := uc.nlp.CheckCredentials(); err != nil {
		return nil, err
	}

	start := time.Now()
	processed := 0
	for i, symbol := range cleaned {
		n, err := uc.ingestSymbol(ctx, symbol)
		processed += n
		if err != nil {
			uc.metrics.RecordError("news_symbol")
			uc.log.Warn("news symbol failed",
				applogger.String("symbol", symbol),
				applogger.String("stage", "fetch"),
				applogger.Error(err),
			)
		}

		if i == len(cleaned)-1 {
			break
		}
		if err := uc.sleep(ctx, uc.delay); err != nil {
			uc.log.Warn("news ingestion abandoned",
				applogger.Strings("remaining", cleaned[i+1:]),
				applogger.Int("processed", processed),
				applogger.Error(err),
			)
			break
		}
	}

	uc.metrics.RecordLatency("news_ingest", time.Since(start).Seconds())
	uc.log.Info("news ingestion finished",
		applogger.Int("symbols", len(cleaned)),
		applogger.Int("processed", processed),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return &models.IngestResult{Success: true, Processed: processed}, nil
}

// ingestSymbol returns the number of persisted articles. An error means the
// article search itself failed.
func (uc *NewsIngestor) ingestSymbol(ctx context.Context, symbol string) (int, error) {
	articles, err := uc.news.Search(ctx, symbol, uc.perSymbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrItemFailed, err)
	}
	if len(articles) > uc.perSymbol {
		articles = articles[:uc.perSymbol]
	}

	persisted := 0
	for _, raw := range articles {
		if stage, err := uc.ingestArticle(ctx, symbol, raw); err != nil {
			uc.metrics.RecordError("news_article")
			uc.log.Warn("news article failed",
				applogger.String("symbol", symbol),
				applogger.String("stage", stage),
				applogger.String("url", raw.URL),
				applogger.Error(err),
			)
			continue
		}
		persisted++
	}
	return persisted, nil
}

// ingestArticle scores and stores one article. On failure it reports the stage.
func (uc *NewsIngestor) ingestArticle(ctx context.Context, symbol string, raw models.RawArticle) (string, error) {
	text := raw.Text()

	sentiment, err := uc.nlp.AnalyzeSentiment(ctx, text)
	if err != nil {
		return "sentiment", err
	}
	entities, err := uc.nlp.AnalyzeEntities(ctx, text)
	if err != nil {
		return "entities", err
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	if len(entities) > models.MaxEntitiesPerArticle {
		entities = entities[:models.MaxEntitiesPerArticle]
	}

	article := &models.NewsArticle{
		Title:              raw.Title,
		Description:        raw.Description,
		Content:            raw.Content,
		URL:                raw.URL,
		Source:             raw.Source,
		PublishedAt:        raw.PublishedAt,
		Symbols:            []string{symbol},
		Entities:           entities,
		SentimentScore:     sentiment.Score,
		SentimentMagnitude: sentiment.Magnitude,
		Topics:             []string{},
	}
	if err := uc.store.InsertArticle(ctx, article); err != nil {
		return "insert", fmt.Errorf("%w: %w", models.ErrStorage, err)
	}
	uc.metrics.RecordArticlePersisted()
	uc.publish(ctx, symbol, article)
	return "", nil
}

// publish is best effort; it never changes the processed count.
func (uc *NewsIngestor) publish(ctx context.Context, symbol string, a *models.NewsArticle) {
	if uc.pub == nil {
		return
	}
	ev := &models.ArticleScoredEvent{
		Type:        "article.scored",
		Symbol:      symbol,
		URL:         a.URL,
		Title:       a.Title,
		PublishedAt: a.PublishedAt,
		Score:       a.SentimentScore,
		Magnitude:   a.SentimentMagnitude,
		ScoredAt:    uc.now().UTC().Format(time.RFC3339),
	}
	if err := uc.pub.PublishArticleScored(ctx, ev); err != nil {
		uc.metrics.RecordError("news_publish")
		uc.log.Warn("article event publish failed",
			applogger.String("symbol", symbol),
			applogger.String("stage", "publish"),
			applogger.String("url", a.URL),
			applogger.Error(err),
		)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
