package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
	applogger "SignalDesk/pkg/logger"
)

func article(url, title, desc string) models.RawArticle {
	return models.RawArticle{Title: title, Description: desc, URL: url, Source: "Reuters", PublishedAt: "2024-05-01T10:00:00Z"}
}

type sleepRecorder struct {
	calls []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return s.err
}

func newTestLogger(t *testing.T, buf *bytes.Buffer) *applogger.Logger {
	t.Helper()
	l, err := applogger.NewWithWriter(buf, &applogger.Config{Level: "debug"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestIngestPersistsScoredArticles(t *testing.T) {
	news := &fakeNews{articles: map[string][]models.RawArticle{
		"AAPL": {article("u1", "Apple beats", "Strong quarter"), article("u2", "Apple slips", "")},
	}}
	nlp := &fakeNLP{
		sentiment: map[string]models.Sentiment{"Apple beats Strong quarter": {Score: 0.8, Magnitude: 1.2}},
		entities:  map[string][]models.Entity{"Apple beats Strong quarter": make([]models.Entity, 12)},
	}
	store := &fakeNewsStore{}
	pub := &fakePublisher{}
	sleeper := &sleepRecorder{}
	uc := NewNewsIngestor(news, nlp, store, nil, nil, WithArticlePublisher(pub), WithSleeper(sleeper.sleep))

	res, err := uc.Ingest(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !res.Success || res.Processed != 2 {
		t.Fatalf("expected 2 processed, got %+v", res)
	}
	first := store.rows[0]
	if first.SentimentScore != 0.8 || first.SentimentMagnitude != 1.2 {
		t.Fatalf("unexpected sentiment: %+v", first)
	}
	if len(first.Entities) != models.MaxEntitiesPerArticle {
		t.Fatalf("expected entities capped at %d, got %d", models.MaxEntitiesPerArticle, len(first.Entities))
	}
	if len(first.Symbols) != 1 || first.Symbols[0] != "AAPL" || first.Topics == nil || len(first.Topics) != 0 {
		t.Fatalf("unexpected symbols/topics: %+v", first)
	}
	second := store.rows[1]
	if second.SentimentScore != 0 || second.Entities == nil {
		t.Fatalf("expected zero sentiment and empty entities, got %+v", second)
	}
	if len(pub.events) != 2 || pub.events[0].Symbol != "AAPL" {
		t.Fatalf("expected 2 published events, got %+v", pub.events)
	}
	if len(sleeper.calls) != 0 {
		t.Fatalf("no delay expected after the last symbol, got %v", sleeper.calls)
	}
}

func TestIngestIsolatesFailures(t *testing.T) {
	var buf bytes.Buffer
	news := &fakeNews{
		articles: map[string][]models.RawArticle{
			"TSLA": {article("t1", "A", ""), article("t2", "B", ""), article("t3", "C", "")},
		},
		failFor: map[string]bool{"AAPL": true},
	}
	nlp := &fakeNLP{failSentiment: map[string]bool{"B": true}}
	store := &fakeNewsStore{failURL: map[string]bool{"t3": true}}
	metrics := &countingMetrics{}
	sleeper := &sleepRecorder{}
	uc := NewNewsIngestor(news, nlp, store, metrics, newTestLogger(t, &buf),
		WithSymbolDelay(time.Second), WithSleeper(sleeper.sleep))

	res, err := uc.Ingest(context.Background(), []string{"AAPL", "TSLA"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Processed != 1 {
		t.Fatalf("expected 1 processed, got %d", res.Processed)
	}
	if len(news.searched) != 2 {
		t.Fatalf("failed symbol must not stop the batch, searched %v", news.searched)
	}
	if len(sleeper.calls) != 1 || sleeper.calls[0] != time.Second {
		t.Fatalf("expected one 1s delay between symbols, got %v", sleeper.calls)
	}
	logs := buf.String()
	for _, want := range []string{`"stage":"fetch"`, `"stage":"sentiment"`, `"stage":"insert"`, `"symbol":"AAPL"`} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs)
		}
	}
	if metrics.errors["news_symbol"] != 1 || metrics.errors["news_article"] != 2 {
		t.Fatalf("unexpected error metrics: %v", metrics.errors)
	}
}

func TestIngestIsNotIdempotent(t *testing.T) {
	news := &fakeNews{articles: map[string][]models.RawArticle{"AAPL": {article("u1", "A", "")}}}
	store := &fakeNewsStore{}
	uc := NewNewsIngestor(news, &fakeNLP{}, store, nil, nil, WithSleeper((&sleepRecorder{}).sleep))

	for i := 0; i < 2; i++ {
		if _, err := uc.Ingest(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected duplicate rows, got %d", len(store.rows))
	}
}

func TestIngestPublishFailureStillCounts(t *testing.T) {
	news := &fakeNews{articles: map[string][]models.RawArticle{"AAPL": {article("u1", "A", "")}}}
	pub := &fakePublisher{err: errors.New("broker down")}
	uc := NewNewsIngestor(news, &fakeNLP{}, &fakeNewsStore{}, nil, nil, WithArticlePublisher(pub))

	res, err := uc.Ingest(context.Background(), []string{"AAPL"})
	if err != nil || res.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v, %v", res, err)
	}
}

func TestIngestValidationAndCredentials(t *testing.T) {
	news := &fakeNews{}
	uc := NewNewsIngestor(news, &fakeNLP{}, &fakeNewsStore{}, nil, nil)

	if _, err := uc.Ingest(context.Background(), nil); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty list, got %v", err)
	}
	if _, err := uc.Ingest(context.Background(), []string{"AAPL", " "}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank symbol, got %v", err)
	}

	uc = NewNewsIngestor(news, &fakeNLP{credErr: models.ErrConfiguration}, &fakeNewsStore{}, nil, nil)
	if _, err := uc.Ingest(context.Background(), []string{"AAPL"}); !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(news.searched) != 0 {
		t.Fatalf("no symbol may be processed without credentials")
	}
}

func TestIngestStopsWhenCancelled(t *testing.T) {
	news := &fakeNews{articles: map[string][]models.RawArticle{"AAPL": {article("u1", "A", "")}}}
	sleeper := &sleepRecorder{err: context.Canceled}
	uc := NewNewsIngestor(news, &fakeNLP{}, &fakeNewsStore{}, nil, nil, WithSleeper(sleeper.sleep))

	res, err := uc.Ingest(context.Background(), []string{"AAPL", "MSFT", "TSLA"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Processed != 1 || len(news.searched) != 1 {
		t.Fatalf("expected only AAPL processed, got %+v searched=%v", res, news.searched)
	}
}

func TestSleepCtxHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Fatalf("zero delay should not fail: %v", err)
	}
}
