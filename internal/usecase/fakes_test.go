package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
)

type fakeMarket struct {
	credErr error
	mu      sync.Mutex
	calls   []domrepo.Interval
	bars    map[domrepo.Interval][]models.Bar
	failOn  domrepo.Interval
}

func (f *fakeMarket) CheckCredentials() error { return f.credErr }

func (f *fakeMarket) FetchBars(ctx context.Context, symbol string, iv domrepo.Interval) ([]models.Bar, error) {
	f.mu.Lock()
	f.calls = append(f.calls, iv)
	f.mu.Unlock()
	if f.failOn != "" && iv == f.failOn {
		return nil, fmt.Errorf("%w: status 503", models.ErrUpstream)
	}
	return f.bars[iv], nil
}

func makeBars(n int) []models.Bar {
	out := make([]models.Bar, n)
	for i := range out {
		out[i] = models.Bar{Timestamp: fmt.Sprintf("2024-01-01 10:%02d:00", i%60), Close: float64(i)}
	}
	return out
}

type fakeNews struct {
	credErr  error
	articles map[string][]models.RawArticle
	failFor  map[string]bool
	searched []string
}

func (f *fakeNews) CheckCredentials() error { return f.credErr }

func (f *fakeNews) Search(ctx context.Context, symbol string, limit int) ([]models.RawArticle, error) {
	f.searched = append(f.searched, symbol)
	if f.failFor[symbol] {
		return nil, fmt.Errorf("%w: newsapi status 500", models.ErrUpstream)
	}
	return f.articles[symbol], nil
}

type fakeNLP struct {
	credErr       error
	sentiment     map[string]models.Sentiment
	entities      map[string][]models.Entity
	failSentiment map[string]bool
	failEntities  map[string]bool
}

func (f *fakeNLP) CheckCredentials() error { return f.credErr }

func (f *fakeNLP) AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error) {
	if f.failSentiment[text] {
		return models.Sentiment{}, fmt.Errorf("%w: nlp 500", models.ErrUpstream)
	}
	return f.sentiment[text], nil
}

func (f *fakeNLP) AnalyzeEntities(ctx context.Context, text string) ([]models.Entity, error) {
	if f.failEntities[text] {
		return nil, fmt.Errorf("%w: nlp 500", models.ErrUpstream)
	}
	return f.entities[text], nil
}

type fakeNewsStore struct {
	rows    []models.NewsArticle
	failURL map[string]bool
}

func (f *fakeNewsStore) InsertArticle(ctx context.Context, a *models.NewsArticle) error {
	if f.failURL[a.URL] {
		return fmt.Errorf("duplicate key")
	}
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeNewsStore) Health(ctx context.Context) error { return nil }

type fakePublisher struct {
	events []models.ArticleScoredEvent
	err    error
}

func (f *fakePublisher) PublishArticleScored(ctx context.Context, ev *models.ArticleScoredEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeFlowStore struct {
	rows   []models.OptionsFlow
	err    error
	cutoff time.Time
	limit  int
}

func (f *fakeFlowStore) ListUnusualSince(ctx context.Context, cutoff time.Time, limit int) ([]models.OptionsFlow, error) {
	f.cutoff, f.limit = cutoff, limit
	return f.rows, f.err
}

func (f *fakeFlowStore) Health(ctx context.Context) error { return nil }

type countingMetrics struct {
	domrepo.NopMetrics
	mu        sync.Mutex
	errors    map[string]int
	persisted int
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = map[string]int{}
	}
	m.errors[kind]++
}

func (m *countingMetrics) RecordArticlePersisted() {
	m.mu.Lock()
	m.persisted++
	m.mu.Unlock()
}
