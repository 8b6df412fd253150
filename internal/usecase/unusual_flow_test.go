package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func TestDetectFiltersByPremiumOrTradeType(t *testing.T) {
	store := &fakeFlowStore{rows: []models.OptionsFlow{
		{ID: "a", Premium: 60000, TradeType: "regular", Sentiment: models.SentimentBullish},
		{ID: "b", Premium: 1000, TradeType: models.TradeTypeSweep, Sentiment: models.SentimentBearish},
		{ID: "c", Premium: 1000, TradeType: "regular", Sentiment: models.SentimentBullish},
	}}
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	uc := NewFlowDetector(store, nil, nil, 100)
	uc.now = func() time.Time { return now }

	rep, err := uc.Detect(context.Background(), DetectParams{MinPremium: DefaultMinPremium, LookbackHours: DefaultLookbackHours})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if rep.Summary.TotalFlows != 2 || rep.Summary.TotalPremium != 61000 {
		t.Fatalf("unexpected summary: %+v", rep.Summary)
	}
	if rep.Summary.Sentiment != (models.SentimentTally{Bullish: 1, Bearish: 1}) {
		t.Fatalf("unexpected tally: %+v", rep.Summary.Sentiment)
	}
	if rep.Summary.Timeframe != "24h" {
		t.Fatalf("expected 24h, got %s", rep.Summary.Timeframe)
	}
	if rep.Flows[0].ID != "a" || rep.Flows[1].ID != "b" {
		t.Fatalf("store order must be kept: %+v", rep.Flows)
	}
	if !store.cutoff.Equal(now.Add(-24*time.Hour)) || store.limit != 100 {
		t.Fatalf("unexpected query: cutoff=%v limit=%d", store.cutoff, store.limit)
	}
}

func TestDetectEmptyAndUnknownSentiment(t *testing.T) {
	uc := NewFlowDetector(&fakeFlowStore{}, nil, nil, 0)
	rep, err := uc.Detect(context.Background(), DetectParams{Symbol: "AAPL", MinPremium: 0, LookbackHours: 0})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if rep.Flows == nil || len(rep.Flows) != 0 || rep.Summary.Timeframe != "0h" {
		t.Fatalf("expected empty flows, got %+v", rep)
	}

	uc = NewFlowDetector(&fakeFlowStore{rows: []models.OptionsFlow{{Premium: 10, Sentiment: "mixed"}}}, nil, nil, 10)
	rep, _ = uc.Detect(context.Background(), DetectParams{MinPremium: 0, LookbackHours: 1})
	if rep.Summary.TotalFlows != 1 || rep.Summary.Sentiment != (models.SentimentTally{}) {
		t.Fatalf("unknown sentiment must not be tallied: %+v", rep.Summary)
	}
}

func TestDetectStorageFailure(t *testing.T) {
	uc := NewFlowDetector(&fakeFlowStore{err: errors.New("connection refused")}, nil, nil, 10)
	if _, err := uc.Detect(context.Background(), DetectParams{LookbackHours: 24}); !errors.Is(err, models.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestDetectRejectsLookbackBeyondLimit(t *testing.T) {
	store := &fakeFlowStore{}
	uc := NewFlowDetector(store, nil, nil, 10)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	if _, err := uc.Detect(context.Background(), DetectParams{LookbackHours: 3000000}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !store.cutoff.IsZero() {
		t.Fatalf("store must not be queried, got cutoff %v", store.cutoff)
	}

	if _, err := uc.Detect(context.Background(), DetectParams{LookbackHours: MaxLookbackHours}); err != nil {
		t.Fatalf("detect at limit: %v", err)
	}
	if !store.cutoff.Before(now) {
		t.Fatalf("cutoff must lie in the past, got %v", store.cutoff)
	}
}
